// Package engine orchestrates the search pipeline: source query, identity
// assignment, deduplication, valuation, persistence, and alert matching.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fretscout/fretscout/internal/identity"
	"github.com/fretscout/fretscout/internal/metrics"
	"github.com/fretscout/fretscout/internal/notify"
	"github.com/fretscout/fretscout/internal/source"
	"github.com/fretscout/fretscout/internal/store"
	domain "github.com/fretscout/fretscout/pkg/types"
	"github.com/fretscout/fretscout/pkg/valuation"
)

// SearchOptions controls filtering and ordering of scored results.
type SearchOptions struct {
	MinScore     float64
	HighConfOnly bool
	Sort         valuation.SortMode
}

// SearchResult is the outcome of one pipeline run.
type SearchResult struct {
	Listings []domain.Listing
	// Source that actually served the results. Differs from the live
	// source when the pipeline fell back to demo data.
	Source       string
	DemoFallback bool
}

// Engine runs the search pipeline against a live source when available,
// degrading to the demo source rather than failing.
type Engine struct {
	store store.Store
	demo  source.Source
	live  source.Source // nil in demo mode
	log   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithLiveSource attaches a live listing source. Without one the engine
// always serves demo data.
func WithLiveSource(s source.Source) EngineOption {
	return func(e *Engine) {
		e.live = s
	}
}

// NewEngine creates an Engine with injected dependencies.
func NewEngine(s store.Store, demo source.Source, opts ...EngineOption) *Engine {
	e := &Engine{
		store: s,
		demo:  demo,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Live reports whether a live source is attached.
func (e *Engine) Live() bool {
	return e.live != nil
}

// Search runs the full pipeline: query the source, assign IDs, dedup,
// score, persist, and apply filters and ordering. A live-source failure
// degrades to demo data instead of returning an error.
func (e *Engine) Search(ctx context.Context, q source.Query, opts SearchOptions) (*SearchResult, error) {
	src := e.demo
	fallback := false

	if e.live != nil {
		src = e.live
	}

	listings, err := src.Search(ctx, q)
	if err != nil {
		if e.live == nil {
			return nil, fmt.Errorf("searching %s: %w", src.Name(), err)
		}
		// Degrade to demo data rather than surfacing an empty page.
		e.log.Warn("live search failed, falling back to demo data",
			"source", src.Name(), "query", q.Text, "error", err,
		)
		metrics.DemoFallbacksTotal.Inc()
		fallback = true
		src = e.demo

		listings, err = src.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", src.Name(), err)
		}
	}
	metrics.SearchesTotal.WithLabelValues(src.Name()).Inc()

	listings = identity.Dedup(listings)
	listings = valuation.ScoreListings(listings)

	if n, err := e.store.UpsertListings(ctx, listings); err != nil {
		// Persistence is best effort; the search result still stands.
		e.log.Error("saving listings failed", "saved", n, "error", err)
	}

	listings = valuation.Filter(listings, opts.MinScore, opts.HighConfOnly)
	listings = valuation.Sort(listings, opts.Sort)

	return &SearchResult{
		Listings:     listings,
		Source:       src.Name(),
		DemoFallback: fallback,
	}, nil
}

// notifyMatch delivers a single alert event, counting failures but never
// failing the pipeline.
func (e *Engine) notifyMatch(ctx context.Context, n notify.Notifier, a *domain.SavedAlert, l *domain.Listing, msg string) {
	if n == nil {
		return
	}

	payload := &notify.AlertPayload{
		AlertQuery:   a.Query,
		ListingTitle: l.Title,
		ListingURL:   l.URL,
		ImageURL:     l.ImageURL,
		Message:      msg,
		Confidence:   string(l.DealConfidence),
	}
	if allIn := l.ComputeAllIn(); allIn != nil {
		payload.Price = "$" + FormatAmount(*allIn)
	}
	if l.DealScore != nil {
		payload.DealScore = l.DealScore
	}
	if l.DealLabel != nil {
		payload.DealLabel = string(*l.DealLabel)
	}

	if err := n.SendAlert(ctx, payload); err != nil {
		e.log.Error("notification failed", "alert_id", a.ID, "error", err)
		metrics.NotificationFailuresTotal.Inc()
	}
}
