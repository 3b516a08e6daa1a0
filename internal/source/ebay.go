package source

import (
	"context"
	"fmt"

	"github.com/fretscout/fretscout/internal/ebay"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// Ebay is the live source backed by the eBay Browse API.
type Ebay struct {
	client ebay.Client
}

// NewEbay wraps a Browse API client as a Source.
func NewEbay(client ebay.Client) *Ebay {
	return &Ebay{client: client}
}

// Name implements Source.
func (e *Ebay) Name() string { return ebay.SourceName }

// Search implements Source by querying the Browse API and converting the
// item summaries into domain listings.
func (e *Ebay) Search(ctx context.Context, q Query) ([]domain.Listing, error) {
	resp, err := e.client.Search(ctx, ebay.SearchRequest{
		Query:       q.Text,
		CategoryIDs: q.CategoryIDs,
		Limit:       q.Limit,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("ebay search: %w", err)
	}
	return ebay.ToListings(resp.Items), nil
}
