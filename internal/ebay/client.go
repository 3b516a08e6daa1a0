// Package ebay provides the eBay OAuth2 token client and Browse API
// search client, abstracted behind interfaces for testability.
package ebay

import (
	"context"
)

// SearchRequest defines the parameters for a Browse API search.
type SearchRequest struct {
	Query       string
	CategoryIDs []int
	Limit       int
	Offset      int
	MinPrice    *float64
	MaxPrice    *float64
}

// SearchResponse holds the results of a Browse API search.
type SearchResponse struct {
	Items   []ItemSummary
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

// Client defines the interface for querying the eBay Browse API.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenProvider defines the interface for obtaining OAuth2 bearer tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
