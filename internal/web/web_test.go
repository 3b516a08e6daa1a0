package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fretscout/fretscout/internal/engine"
	"github.com/fretscout/fretscout/internal/source"
	"github.com/fretscout/fretscout/internal/store"
	"github.com/fretscout/fretscout/internal/web"
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

func setupWeb(t *testing.T, demo *fakeSource) (*echo.Echo, *store.SQLiteStore) {
	t.Helper()

	s, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	eng := engine.NewEngine(s, demo)
	h := web.NewHandler(eng, s)

	e := echo.New()
	web.RegisterRoutes(e, h)
	return e, s
}

func ptr(v float64) *float64 { return &v }

func TestSearchPageHandler(t *testing.T) {
	t.Parallel()

	demo := &fakeSource{name: "stub", listings: []domain.Listing{
		{ListingID: "stub:1", Source: "stub", Title: "Fender Jazzmaster", Price: ptr(1200), Currency: "USD"},
	}}
	e, _ := setupWeb(t, demo)

	t.Run("landing page without query", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "FretScout")
		assert.Contains(t, rec.Body.String(), "Demo mode")
	})

	t.Run("query renders results", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/?q=jazzmaster", http.NoBody)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Fender Jazzmaster")
	})
}

func TestAlertsPageHandler(t *testing.T) {
	t.Parallel()

	e, s := setupWeb(t, &fakeSource{name: "stub"})
	require.NoError(t, s.CreateAlert(context.Background(), &domain.SavedAlert{Query: "telecaster"}))

	req := httptest.NewRequest(http.MethodGet, "/alerts", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "telecaster")
}

func TestCreateAlertHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
	}{
		{
			name:       "valid",
			form:       url.Values{"query": {"gibson sg"}, "max_price": {"1500"}},
			wantStatus: http.StatusSeeOther,
		},
		{
			name:       "dollar prefix accepted",
			form:       url.Values{"query": {"gibson sg"}, "max_price": {"$1500"}},
			wantStatus: http.StatusSeeOther,
		},
		{
			name:       "missing query",
			form:       url.Values{"max_price": {"1500"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad max price",
			form:       url.Values{"query": {"gibson sg"}, "max_price": {"cheap"}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, _ := setupWeb(t, &fakeSource{name: "stub"})

			req := httptest.NewRequest(http.MethodPost, "/alerts", strings.NewReader(tt.form.Encode()))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeleteAlertHandler(t *testing.T) {
	t.Parallel()

	e, s := setupWeb(t, &fakeSource{name: "stub"})

	a := &domain.SavedAlert{Query: "stratocaster"}
	require.NoError(t, s.CreateAlert(context.Background(), a))

	req := httptest.NewRequest(http.MethodPost, "/alerts/1/delete", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/alerts/1/delete", http.NoBody)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
