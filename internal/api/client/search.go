package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// SearchParams are the query parameters accepted by the search endpoint.
type SearchParams struct {
	Query    string
	Limit    int
	MaxPrice float64
	MinScore float64
	HighConf bool
	Sort     string
}

// SearchResult is the search endpoint response.
type SearchResult struct {
	Listings     []domain.Listing `json:"listings"`
	Source       string           `json:"source"`
	DemoFallback bool             `json:"demo_fallback"`
}

// Search runs a listing search.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	q := url.Values{}
	q.Set("q", p.Query)
	if p.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", p.Limit))
	}
	if p.MaxPrice > 0 {
		q.Set("max_price", fmt.Sprintf("%g", p.MaxPrice))
	}
	if p.MinScore > 0 {
		q.Set("min_score", fmt.Sprintf("%g", p.MinScore))
	}
	if p.HighConf {
		q.Set("high_confidence", "true")
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}

	var result SearchResult
	if err := c.get(ctx, "/api/v1/search?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
