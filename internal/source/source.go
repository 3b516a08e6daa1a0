// Package source defines listing sources: the stub connector used in demo
// mode and the live eBay Browse connector.
package source

import (
	"context"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// Query describes a listing search against a source.
type Query struct {
	Text        string
	CategoryIDs []int
	Limit       int
	MinPrice    *float64
	MaxPrice    *float64
}

// Source retrieves listings matching a query.
type Source interface {
	// Search returns listings matching the query. An empty result is not
	// an error.
	Search(ctx context.Context, q Query) ([]domain.Listing, error)

	// Name identifies the source in logs and metrics.
	Name() string
}
