package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fretscout/fretscout/internal/metrics"
	"github.com/fretscout/fretscout/internal/notify"
	"github.com/fretscout/fretscout/internal/source"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// MatchAlert reports whether a listing satisfies a saved alert: the alert
// query must appear in the title (case-insensitive) and, when a price
// ceiling is set, the all-in price must not exceed it. Unpriced listings
// never match a ceiling.
func MatchAlert(a *domain.SavedAlert, l *domain.Listing) bool {
	needle := strings.ToLower(strings.TrimSpace(a.Query))
	if needle == "" || !strings.Contains(strings.ToLower(l.Title), needle) {
		return false
	}
	if a.MaxPrice != nil {
		allIn := l.ComputeAllIn()
		if allIn == nil || *allIn > *a.MaxPrice {
			return false
		}
	}
	return true
}

// MatchMessage renders the human-readable event text for a match.
func MatchMessage(l *domain.Listing) string {
	if allIn := l.ComputeAllIn(); allIn != nil {
		return fmt.Sprintf("Match found: %s at $%s", l.Title, FormatAmount(*allIn))
	}
	return fmt.Sprintf("Match found: %s", l.Title)
}

// FormatAmount renders a dollar amount with thousands separators, e.g.
// 1984 -> "1,984.00".
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// CheckAlerts evaluates every saved alert against the given listings,
// recording an event and sending a notification for each new match. A
// listing fires a given alert at most once; repeats are skipped via the
// store's event history.
func (e *Engine) CheckAlerts(ctx context.Context, n notify.Notifier, listings []domain.Listing) error {
	alerts, err := e.store.ListAlerts(ctx)
	if err != nil {
		return fmt.Errorf("listing alerts: %w", err)
	}
	if len(alerts) == 0 {
		return nil
	}

	for ai := range alerts {
		a := &alerts[ai]
		for li := range listings {
			l := &listings[li]
			if !MatchAlert(a, l) {
				continue
			}

			seen, err := e.store.HasAlertEvent(ctx, a.ID, l.ListingID)
			if err != nil {
				e.log.Error("checking alert history failed", "alert_id", a.ID, "error", err)
				continue
			}
			if seen {
				continue
			}

			event := &domain.AlertEvent{
				AlertID:   a.ID,
				ListingID: l.ListingID,
				Message:   MatchMessage(l),
			}
			if err := e.store.CreateAlertEvent(ctx, event); err != nil {
				e.log.Error("recording alert event failed", "alert_id", a.ID, "error", err)
				continue
			}

			metrics.AlertsMatchedTotal.Inc()
			e.log.Info("alert matched",
				"alert_id", a.ID, "listing_id", l.ListingID, "query", a.Query,
			)
			e.notifyMatch(ctx, n, a, l, event.Message)
		}
	}

	return nil
}

// PollAlerts runs each saved alert's query through the search pipeline
// and fires events for new matches. Used by the background scheduler.
func (e *Engine) PollAlerts(ctx context.Context, n notify.Notifier) error {
	start := time.Now()
	defer func() {
		metrics.AlertPollDuration.Observe(time.Since(start).Seconds())
	}()

	alerts, err := e.store.ListAlerts(ctx)
	if err != nil {
		return fmt.Errorf("listing alerts: %w", err)
	}

	for ai := range alerts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a := &alerts[ai]

		result, err := e.Search(ctx, source.Query{Text: a.Query}, SearchOptions{})
		if err != nil {
			e.log.Error("alert poll search failed", "alert_id", a.ID, "error", err)
			continue
		}
		if err := e.CheckAlerts(ctx, n, result.Listings); err != nil {
			e.log.Error("alert check failed", "alert_id", a.ID, "error", err)
		}
	}

	return nil
}
