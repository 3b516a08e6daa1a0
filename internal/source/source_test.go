package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretscout/fretscout/internal/ebay"
	"github.com/fretscout/fretscout/internal/source"
)

func TestStub_Search_All(t *testing.T) {
	t.Parallel()

	stub := source.NewStub()

	listings, err := stub.Search(context.Background(), source.Query{})
	require.NoError(t, err)
	require.Len(t, listings, 4)

	for _, l := range listings {
		assert.Equal(t, "stub", l.Source)
		assert.NotEmpty(t, l.ListingID)
		assert.NotEmpty(t, l.Title)
		require.NotNil(t, l.Price)
		require.NotNil(t, l.Shipping)
	}
}

func TestStub_Search_Filters(t *testing.T) {
	t.Parallel()

	stub := source.NewStub()
	ctx := context.Background()

	tests := []struct {
		name       string
		query      source.Query
		wantTitles []string
	}{
		{
			name:       "case insensitive substring",
			query:      source.Query{Text: "STRAT"},
			wantTitles: []string{"Fender American Vintage '62 Stratocaster"},
		},
		{
			name:       "leading and trailing space ignored",
			query:      source.Query{Text: "  les paul  "},
			wantTitles: []string{"Gibson Les Paul Standard 1998"},
		},
		{
			name:       "no match",
			query:      source.Query{Text: "banjo"},
			wantTitles: nil,
		},
		{
			name:  "max price",
			query: source.Query{MaxPrice: ptr(2300)},
			wantTitles: []string{
				"Fender American Vintage '62 Stratocaster",
				"Gibson Les Paul Standard 1998",
			},
		},
		{
			name:       "min price",
			query:      source.Query{MinPrice: ptr(3000)},
			wantTitles: []string{"Martin D-28 Vintage 1974"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			listings, err := stub.Search(ctx, tt.query)
			require.NoError(t, err)

			var titles []string
			for _, l := range listings {
				titles = append(titles, l.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestStub_Search_Limit(t *testing.T) {
	t.Parallel()

	stub := source.NewStub()

	listings, err := stub.Search(context.Background(), source.Query{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

// fakeBrowse implements ebay.Client for Ebay source tests.
type fakeBrowse struct {
	gotReq ebay.SearchRequest
	resp   *ebay.SearchResponse
	err    error
}

func (f *fakeBrowse) Search(_ context.Context, req ebay.SearchRequest) (*ebay.SearchResponse, error) {
	f.gotReq = req
	return f.resp, f.err
}

func TestEbay_Search(t *testing.T) {
	t.Parallel()

	fake := &fakeBrowse{
		resp: &ebay.SearchResponse{
			Items: []ebay.ItemSummary{
				{
					ItemID:     "v1|42|0",
					Title:      "Fender Telecaster",
					Price:      ebay.ItemPrice{Value: "899.99", Currency: "USD"},
					ItemWebURL: "https://ebay.com/itm/42",
				},
			},
			Total: 1,
		},
	}
	src := source.NewEbay(fake)

	maxPrice := 1000.0
	listings, err := src.Search(context.Background(), source.Query{
		Text:        "telecaster",
		CategoryIDs: []int{33034},
		Limit:       10,
		MaxPrice:    &maxPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "telecaster", fake.gotReq.Query)
	assert.Equal(t, []int{33034}, fake.gotReq.CategoryIDs)
	assert.Equal(t, 10, fake.gotReq.Limit)
	require.NotNil(t, fake.gotReq.MaxPrice)

	require.Len(t, listings, 1)
	assert.Equal(t, "ebay:v1|42|0", listings[0].ListingID)
	assert.Equal(t, "ebay", listings[0].Source)
	assert.Equal(t, "ebay", src.Name())
}

func TestEbay_Search_Error(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	src := source.NewEbay(&fakeBrowse{err: wantErr})

	_, err := src.Search(context.Background(), source.Query{Text: "strat"})
	require.ErrorIs(t, err, wantErr)
}

func ptr(v float64) *float64 { return &v }
