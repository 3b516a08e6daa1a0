package ebay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretscout/fretscout/internal/ebay"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// staticTokens implements TokenProvider with a fixed token.
type staticTokens struct {
	token string
	err   error
}

func (s *staticTokens) Token(_ context.Context) (string, error) {
	return s.token, s.err
}

const browseBody = `{
	"itemSummaries": [
		{
			"itemId": "v1|111|0",
			"title": "Gibson Les Paul Standard",
			"price": {"value": "2295.00", "currency": "USD"},
			"itemWebUrl": "https://ebay.com/itm/111",
			"condition": "Used"
		}
	],
	"total": 37,
	"offset": 0,
	"limit": 50,
	"next": "https://api.ebay.com/buy/browse/v1/item_summary/search?offset=50"
}`

func TestBrowseClient_Search(t *testing.T) {
	t.Parallel()

	var gotURL *url.URL
	var gotAuth, gotMarketplace string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL
		gotAuth = r.Header.Get("Authorization")
		gotMarketplace = r.Header.Get("X-EBAY-C-MARKETPLACE-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(browseBody))
	}))
	defer srv.Close()

	client := ebay.NewBrowseClient(
		&staticTokens{token: "tok-1"},
		domain.EnvProduction,
		ebay.WithBrowseURL(srv.URL),
		ebay.WithMarketplace("EBAY_GB"),
	)

	maxPrice := 2500.0
	resp, err := client.Search(context.Background(), ebay.SearchRequest{
		Query:       "les paul",
		CategoryIDs: []int{33034},
		Limit:       25,
		MaxPrice:    &maxPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, 37, resp.Total)
	assert.True(t, resp.HasMore)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Gibson Les Paul Standard", resp.Items[0].Title)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "EBAY_GB", gotMarketplace)

	q := gotURL.Query()
	assert.Equal(t, "les paul", q.Get("q"))
	assert.Equal(t, "25", q.Get("limit"))
	assert.Equal(t, "33034", q.Get("category_ids"))
	assert.Equal(t, "price:[..2500.00]", q.Get("filter"))
}

func TestBrowseClient_Search_DefaultAndClampedLimit(t *testing.T) {
	t.Parallel()

	var limits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"itemSummaries":[],"total":0}`))
	}))
	defer srv.Close()

	client := ebay.NewBrowseClient(
		&staticTokens{token: "tok"},
		domain.EnvProduction,
		ebay.WithBrowseURL(srv.URL),
	)

	_, err := client.Search(context.Background(), ebay.SearchRequest{Query: "strat"})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), ebay.SearchRequest{Query: "strat", Limit: 9999})
	require.NoError(t, err)

	assert.Equal(t, []string{"50", "200"}, limits)
}

func TestBrowseClient_Search_TokenError(t *testing.T) {
	t.Parallel()

	client := ebay.NewBrowseClient(
		&staticTokens{err: &ebay.AuthError{Reason: "client ID and client secret are required"}},
		domain.EnvProduction,
	)

	_, err := client.Search(context.Background(), ebay.SearchRequest{Query: "strat"})

	var authErr *ebay.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestBrowseClient_Search_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"errorId":1100}]}`))
	}))
	defer srv.Close()

	client := ebay.NewBrowseClient(
		&staticTokens{token: "tok"},
		domain.EnvProduction,
		ebay.WithBrowseURL(srv.URL),
	)

	_, err := client.Search(context.Background(), ebay.SearchRequest{Query: "strat"})

	var netErr *ebay.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusForbidden, netErr.Status)
}

func TestBrowseClient_Search_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	client := ebay.NewBrowseClient(
		&staticTokens{token: "tok"},
		domain.EnvProduction,
		ebay.WithBrowseURL(srv.URL),
	)

	_, err := client.Search(context.Background(), ebay.SearchRequest{Query: "strat"})

	var parseErr *ebay.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestBrowseClient_Search_DailyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"itemSummaries":[],"total":0}`))
	}))
	defer srv.Close()

	limiter := ebay.NewRateLimiter(100, 10, 1)
	client := ebay.NewBrowseClient(
		&staticTokens{token: "tok"},
		domain.EnvProduction,
		ebay.WithBrowseURL(srv.URL),
		ebay.WithRateLimiter(limiter),
	)

	_, err := client.Search(context.Background(), ebay.SearchRequest{Query: "strat"})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), ebay.SearchRequest{Query: "strat"})
	require.ErrorIs(t, err, ebay.ErrDailyLimitReached)
}

func TestPriceFilterBounds(t *testing.T) {
	t.Parallel()

	var filters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filters = append(filters, r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(`{"itemSummaries":[],"total":0}`))
	}))
	defer srv.Close()

	client := ebay.NewBrowseClient(
		&staticTokens{token: "tok"},
		domain.EnvProduction,
		ebay.WithBrowseURL(srv.URL),
	)

	minPrice, maxPrice := 500.0, 1500.0

	_, err := client.Search(context.Background(), ebay.SearchRequest{Query: "q", MinPrice: &minPrice})
	require.NoError(t, err)
	_, err = client.Search(context.Background(), ebay.SearchRequest{Query: "q", MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)

	assert.Equal(t, []string{"price:[500.00..]", "price:[500.00..1500.00]"}, filters)
}
