package source

import (
	"context"
	"strings"
	"time"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// StubName identifies the demo source.
const StubName = "stub"

// Stub is the demo-mode source. It serves a fixed set of sample listings,
// filtered by case-insensitive substring match on the title.
type Stub struct {
	listings []domain.Listing
	nowFunc  func() time.Time
}

// StubOption configures the Stub source.
type StubOption func(*Stub)

// WithStubListings replaces the built-in sample data.
func WithStubListings(listings []domain.Listing) StubOption {
	return func(s *Stub) {
		s.listings = listings
	}
}

// WithStubNowFunc overrides the time function for testing.
func WithStubNowFunc(f func() time.Time) StubOption {
	return func(s *Stub) {
		s.nowFunc = f
	}
}

// NewStub creates the demo source with the built-in sample listings.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.listings == nil {
		s.listings = sampleListings(s.nowFunc())
	}
	return s
}

// Name implements Source.
func (s *Stub) Name() string { return StubName }

// Search implements Source. An empty query returns every sample listing.
func (s *Stub) Search(_ context.Context, q Query) ([]domain.Listing, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	var out []domain.Listing
	for _, l := range s.listings {
		if needle != "" && !strings.Contains(strings.ToLower(l.Title), needle) {
			continue
		}
		if q.MaxPrice != nil && l.Price != nil && *l.Price > *q.MaxPrice {
			continue
		}
		if q.MinPrice != nil && l.Price != nil && *l.Price < *q.MinPrice {
			continue
		}
		out = append(out, l)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }

func sampleListings(now time.Time) []domain.Listing {
	return []domain.Listing{
		{
			ListingID:    "stub:reverb-001",
			Source:       StubName,
			SourceItemID: "reverb-001",
			Title:        "Fender American Vintage '62 Stratocaster",
			URL:          "https://example.com/listings/reverb-001",
			Price:        ptr(1899),
			Shipping:     ptr(85),
			Currency:     "USD",
			Condition:    "Very Good",
			Location:     "Austin, TX",
			Seller:       "Reverb (Stub)",
			CreatedAt:    now.Add(-36 * time.Hour),
		},
		{
			ListingID:    "stub:ebay-002",
			Source:       StubName,
			SourceItemID: "ebay-002",
			Title:        "Gibson Les Paul Standard 1998",
			URL:          "https://example.com/listings/ebay-002",
			Price:        ptr(2295),
			Shipping:     ptr(120),
			Currency:     "USD",
			Condition:    "Good",
			Location:     "Nashville, TN",
			Seller:       "eBay (Stub)",
			CreatedAt:    now.Add(-18 * time.Hour),
		},
		{
			ListingID:    "stub:gc-003",
			Source:       StubName,
			SourceItemID: "gc-003",
			Title:        "Martin D-28 Vintage 1974",
			URL:          "https://example.com/listings/gc-003",
			Price:        ptr(3199),
			Shipping:     ptr(140),
			Currency:     "USD",
			Condition:    "Excellent",
			Location:     "Chicago, IL",
			Seller:       "Guitar Center (Stub)",
			CreatedAt:    now.Add(-72 * time.Hour),
		},
		{
			ListingID:    "stub:cl-004",
			Source:       StubName,
			SourceItemID: "cl-004",
			Title:        "PRS Custom 24 10-Top",
			URL:          "https://example.com/listings/cl-004",
			Price:        ptr(2599),
			Shipping:     ptr(95),
			Currency:     "USD",
			Condition:    "Mint",
			Location:     "Portland, OR",
			Seller:       "Craigslist (Stub)",
			CreatedAt:    now.Add(-6 * time.Hour),
		},
	}
}
