package web

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/fretscout/fretscout/internal/engine"
	domain "github.com/fretscout/fretscout/pkg/types"
)

const pageStyle = `
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 0 auto; padding: 1rem; color: #222; }
header h1 { margin-bottom: 0; }
header p { margin-top: 0.25rem; color: #666; }
nav a { margin-right: 1rem; }
.banner { background: #fff3cd; border: 1px solid #ffe69c; padding: 0.5rem 1rem; border-radius: 4px; margin: 1rem 0; }
.fallback { background: #f8d7da; border-color: #f1aeb5; }
form.search { display: flex; gap: 0.5rem; margin: 1rem 0; flex-wrap: wrap; }
form.search input[type=text] { flex: 1; min-width: 16rem; padding: 0.4rem; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 0.75rem 1rem; margin: 0.75rem 0; display: flex; gap: 1rem; }
.card img { width: 96px; height: 96px; object-fit: cover; border-radius: 4px; }
.card .meta { color: #666; font-size: 0.9rem; }
.badge { display: inline-block; padding: 0.1rem 0.5rem; border-radius: 9999px; font-size: 0.85rem; color: #fff; }
.badge.good { background: #2e7d32; }
.badge.fair { background: #b08b00; }
.badge.high { background: #c62828; }
.badge.none { background: #888; }
.reasons { color: #888; font-size: 0.8rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #eee; }
`

// layout wraps a page body in the shared HTML chrome. The demo banner is
// shown whenever the server runs without live credentials.
func layout(title string, demo bool, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s | FretScout</title><style>%s</style></head><body>`,
			templ.EscapeString(title), pageStyle,
		); err != nil {
			return err
		}
		if _, err := io.WriteString(w,
			`<header><h1>FretScout</h1><p>Guitar deal scout</p><nav><a href="/">Search</a><a href="/alerts">Alerts</a></nav></header>`,
		); err != nil {
			return err
		}
		if demo {
			if _, err := io.WriteString(w,
				`<div class="banner">Demo mode: showing sample listings. Set EBAY_CLIENT_ID and EBAY_CLIENT_SECRET to search live data.</div>`,
			); err != nil {
				return err
			}
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// searchPage renders the search form and, when a query ran, its results.
func searchPage(query string, result *engine.SearchResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<form class="search" method="get" action="/"><input type="text" name="q" value="%s" placeholder="e.g. fender stratocaster" required><button type="submit">Search</button></form>`,
			templ.EscapeString(query),
		); err != nil {
			return err
		}
		if result == nil {
			return nil
		}
		if result.DemoFallback {
			if _, err := io.WriteString(w,
				`<div class="banner fallback">Live search failed; showing sample listings instead.</div>`,
			); err != nil {
				return err
			}
		}
		if len(result.Listings) == 0 {
			_, err := io.WriteString(w, `<p>No listings matched.</p>`)
			return err
		}
		if _, err := fmt.Fprintf(w, `<p class="meta">%d results from %s</p>`,
			len(result.Listings), templ.EscapeString(result.Source),
		); err != nil {
			return err
		}
		for i := range result.Listings {
			if err := listingCard(&result.Listings[i]).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// listingCard renders one scored listing.
func listingCard(l *domain.Listing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="card">`); err != nil {
			return err
		}
		if l.ImageURL != "" {
			// templ.URL rejects unsafe schemes before the value reaches src.
			src := templ.EscapeString(string(templ.URL(l.ImageURL)))
			if _, err := fmt.Fprintf(w, `<img src="%s" alt="">`, src); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<div>`); err != nil {
			return err
		}

		title := templ.EscapeString(l.Title)
		if l.URL != "" {
			href := templ.EscapeString(string(templ.URL(l.URL)))
			if _, err := fmt.Fprintf(w, `<strong><a href="%s">%s</a></strong>`, href, title); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, `<strong>%s</strong>`, title); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<div class="meta">%s</div>`, templ.EscapeString(listingMeta(l))); err != nil {
			return err
		}

		if err := scoreBadge(l).Render(ctx, w); err != nil {
			return err
		}

		if len(l.DealReasons) > 0 {
			if _, err := io.WriteString(w, `<div class="reasons">`); err != nil {
				return err
			}
			for i, r := range l.DealReasons {
				if i > 0 {
					if _, err := io.WriteString(w, `; `); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, templ.EscapeString(r)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</div></div>`)
		return err
	})
}

// scoreBadge renders the deal score line: score, label, and confidence.
func scoreBadge(l *domain.Listing) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if l.DealScore == nil || l.DealLabel == nil {
			_, err := fmt.Fprintf(w, `<div><span class="badge none">Unscored</span> <span class="meta">confidence: %s</span></div>`,
				templ.EscapeString(string(l.DealConfidence)))
			return err
		}
		_, err := fmt.Fprintf(w,
			`<div><span class="badge %s">%s</span> score %.0f/100 <span class="meta">confidence: %s</span></div>`,
			badgeClass(*l.DealLabel), templ.EscapeString(string(*l.DealLabel)),
			*l.DealScore, templ.EscapeString(string(l.DealConfidence)),
		)
		return err
	})
}

func badgeClass(label domain.DealLabel) string {
	switch label {
	case domain.DealGood:
		return "good"
	case domain.DealFair:
		return "fair"
	case domain.DealHigh:
		return "high"
	default:
		return "none"
	}
}

func listingMeta(l *domain.Listing) string {
	var parts []string
	if l.Price != nil {
		s := "$" + engine.FormatAmount(*l.Price)
		if l.Shipping != nil {
			s += fmt.Sprintf(" + $%s shipping", engine.FormatAmount(*l.Shipping))
		}
		parts = append(parts, s)
	} else {
		parts = append(parts, "price unknown")
	}
	if l.Condition != "" {
		parts = append(parts, l.Condition)
	}
	if l.Location != "" {
		parts = append(parts, l.Location)
	}
	if l.Seller != "" {
		parts = append(parts, l.Seller)
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " · "
		}
		out += p
	}
	return out
}

// alertsPage renders the saved alert form, alert table, and recent events.
func alertsPage(alerts []domain.SavedAlert, events []domain.AlertEvent) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<h2>Saved Alerts</h2><form class="search" method="post" action="/alerts"><input type="text" name="query" placeholder="e.g. gibson les paul" required><input type="text" name="max_price" placeholder="Max price (optional)"><button type="submit">Save alert</button></form>`,
		); err != nil {
			return err
		}

		if len(alerts) == 0 {
			if _, err := io.WriteString(w, `<p>No saved alerts yet.</p>`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w,
				`<table><tr><th>Query</th><th>Max price</th><th>Created</th><th></th></tr>`,
			); err != nil {
				return err
			}
			for _, a := range alerts {
				maxPrice := "-"
				if a.MaxPrice != nil {
					maxPrice = "$" + engine.FormatAmount(*a.MaxPrice)
				}
				if _, err := fmt.Fprintf(w,
					`<tr><td>%s</td><td>%s</td><td>%s</td><td><form method="post" action="/alerts/%d/delete"><button type="submit">Delete</button></form></td></tr>`,
					templ.EscapeString(a.Query), maxPrice, a.CreatedAt.Format("2006-01-02"), a.ID,
				); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</table>`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<h2>Recent Matches</h2>`); err != nil {
			return err
		}
		if len(events) == 0 {
			_, err := io.WriteString(w, `<p>No matches recorded.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<table><tr><th>When</th><th>Match</th></tr>`); err != nil {
			return err
		}
		for _, e := range events {
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td></tr>`,
				e.CreatedAt.Format("2006-01-02 15:04"), templ.EscapeString(e.Message),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</table>`)
		return err
	})
}
