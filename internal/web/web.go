// Package web serves the FretScout HTML UI.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/fretscout/fretscout/internal/engine"
	"github.com/fretscout/fretscout/internal/source"
	"github.com/fretscout/fretscout/internal/store"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// Handler serves the HTML pages.
type Handler struct {
	engine *engine.Engine
	store  store.Store
	opts   engine.SearchOptions
	log    *slog.Logger
}

// Option configures the Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.log = l
	}
}

// WithSearchOptions sets the default pipeline options for UI searches.
func WithSearchOptions(opts engine.SearchOptions) Option {
	return func(h *Handler) {
		h.opts = opts
	}
}

// NewHandler creates a new web Handler.
func NewHandler(eng *engine.Engine, s store.Store, opts ...Option) *Handler {
	h := &Handler{
		engine: eng,
		store:  s,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers the UI routes on the echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Search)
	e.GET("/alerts", h.Alerts)
	e.POST("/alerts", h.CreateAlert)
	e.POST("/alerts/:id/delete", h.DeleteAlert)
}

// Search renders the search page, running the pipeline when a query is set.
func (h *Handler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))

	var result *engine.SearchResult
	if query != "" {
		r, err := h.engine.Search(c.Request().Context(), source.Query{Text: query}, h.opts)
		if err != nil {
			h.log.Error("search failed", "query", query, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "search failed")
		}
		result = r
	}

	return h.render(c, "Search", searchPage(query, result))
}

// Alerts renders the saved alerts and recent matches page.
func (h *Handler) Alerts(c echo.Context) error {
	ctx := c.Request().Context()

	alerts, err := h.store.ListAlerts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "listing alerts")
	}
	events, err := h.store.ListAlertEvents(ctx, 25)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "listing alert events")
	}

	return h.render(c, "Alerts", alertsPage(alerts, events))
}

// CreateAlert saves an alert from the form and redirects back.
func (h *Handler) CreateAlert(c echo.Context) error {
	query := strings.TrimSpace(c.FormValue("query"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	a := &domain.SavedAlert{Query: query}
	if raw := strings.TrimSpace(c.FormValue("max_price")); raw != "" {
		v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
		if err != nil || v < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "max_price must be a non-negative number")
		}
		a.MaxPrice = &v
	}

	if err := h.store.CreateAlert(c.Request().Context(), a); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "creating alert")
	}
	return c.Redirect(http.StatusSeeOther, "/alerts")
}

// DeleteAlert removes an alert from the form and redirects back.
func (h *Handler) DeleteAlert(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid alert id")
	}

	if err := h.store.DeleteAlert(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "alert not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "deleting alert")
	}
	return c.Redirect(http.StatusSeeOther, "/alerts")
}

func (h *Handler) render(c echo.Context, title string, body templ.Component) error {
	demo := !h.engine.Live()
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return layout(title, demo, body).Render(c.Request().Context(), c.Response())
}
