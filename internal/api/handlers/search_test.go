package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretscout/fretscout/internal/api/handlers"
	"github.com/fretscout/fretscout/internal/engine"
	"github.com/fretscout/fretscout/internal/source"
	"github.com/fretscout/fretscout/internal/store"
	domain "github.com/fretscout/fretscout/pkg/types"
)

type fakeSource struct {
	name     string
	listings []domain.Listing
	err      error
}

func (f *fakeSource) Search(_ context.Context, _ source.Query) ([]domain.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func (f *fakeSource) Name() string { return f.name }

func setupStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func ptr(v float64) *float64 { return &v }

func testListings() []domain.Listing {
	return []domain.Listing{
		{
			ListingID: "test:1",
			Source:    "test",
			Title:     "Fender Stratocaster A",
			Price:     ptr(1000),
			Shipping:  ptr(50),
			Currency:  "USD",
		},
		{
			ListingID: "test:2",
			Source:    "test",
			Title:     "Fender Stratocaster B",
			Price:     ptr(2000),
			Shipping:  ptr(50),
			Currency:  "USD",
		},
		{
			ListingID: "test:3",
			Source:    "test",
			Title:     "Fender Stratocaster C",
			Price:     ptr(3000),
			Shipping:  ptr(50),
			Currency:  "USD",
		},
	}
}

func TestSearchHandler_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		demo       *fakeSource
		live       *fakeSource
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "returns scored listings",
			path:       "/api/v1/search?q=stratocaster",
			demo:       &fakeSource{name: "stub", listings: testListings()},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"Fender Stratocaster A"`, `"source":"stub"`, `"demo_fallback":false`, `"deal_score"`},
		},
		{
			name:       "missing query returns 422",
			path:       "/api/v1/search",
			demo:       &fakeSource{name: "stub"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "live failure falls back to demo",
			path:       "/api/v1/search?q=stratocaster",
			demo:       &fakeSource{name: "stub", listings: testListings()},
			live:       &fakeSource{name: "ebay", err: errors.New("upstream down")},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"source":"stub"`, `"demo_fallback":true`},
		},
		{
			name:       "pipeline error returns 502",
			path:       "/api/v1/search?q=stratocaster",
			demo:       &fakeSource{name: "stub", err: errors.New("source exploded")},
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{"search failed"},
		},
		{
			name:       "no matches returns empty array",
			path:       "/api/v1/search?q=stratocaster",
			demo:       &fakeSource{name: "stub"},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"listings":[]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []engine.EngineOption{}
			if tt.live != nil {
				opts = append(opts, engine.WithLiveSource(tt.live))
			}
			eng := engine.NewEngine(setupStore(t), tt.demo, opts...)
			h := handlers.NewSearchHandler(eng)

			_, api := humatest.New(t)
			handlers.RegisterSearchRoutes(api, h)

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}

func TestSearchHandler_MinScoreFilter(t *testing.T) {
	t.Parallel()

	eng := engine.NewEngine(setupStore(t), &fakeSource{name: "stub", listings: testListings()})
	h := handlers.NewSearchHandler(eng)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	// Median item price is 2000, so the 3000 listing scores 25.
	resp := api.Get("/api/v1/search?q=stratocaster&min_score=50")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"test:1"`)
	assert.Contains(t, body, `"test:2"`)
	assert.NotContains(t, body, `"test:3"`)
}

func TestSearchHandler_InvalidSort(t *testing.T) {
	t.Parallel()

	eng := engine.NewEngine(setupStore(t), &fakeSource{name: "stub"})
	h := handlers.NewSearchHandler(eng)

	_, api := humatest.New(t)
	handlers.RegisterSearchRoutes(api, h)

	resp := api.Get("/api/v1/search?q=strat&sort=upside-down")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
