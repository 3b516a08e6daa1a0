// Package valuation computes relative deal scores for guitar listings.
//
// The reference price is the median of the listed item prices in the
// result set; shipping is deliberately excluded so that sellers shifting
// cost into shipping do not distort the comparison.
package valuation

import (
	"math"
	"sort"

	domain "github.com/fretscout/fretscout/pkg/types"
)

const (
	// minPricedListings is the minimum number of priced listings needed
	// before a median is considered meaningful.
	minPricedListings = 3

	// labelThresholdPct is the percent distance from the median that
	// separates Good/High from Fair.
	labelThresholdPct = 10.0
)

// ScoreListings attaches deal scores, labels, confidence, and explanation
// fields to each listing. The input slice is not mutated; scored copies
// are returned in the original order.
func ScoreListings(listings []domain.Listing) []domain.Listing {
	scored := make([]domain.Listing, len(listings))
	copy(scored, listings)

	median, ok := medianPrice(scored)

	for i := range scored {
		l := &scored[i]
		l.AllInPrice = l.ComputeAllIn()
		l.DealConfidence, l.DealReasons = confidence(l)

		if !ok || l.Price == nil {
			continue
		}

		pct := (*l.Price - median) / median * 100
		score := clamp(50-pct/2, 0, 100)
		label := labelFor(pct)

		l.DealReferencePrice = &median
		l.DealPercentDiff = &pct
		l.DealScore = &score
		l.DealLabel = &label
	}

	return scored
}

// medianPrice returns the median of listed item prices. The bool result
// is false when fewer than minPricedListings listings carry a price.
func medianPrice(listings []domain.Listing) (float64, bool) {
	prices := make([]float64, 0, len(listings))
	for i := range listings {
		if listings[i].Price != nil {
			prices = append(prices, *listings[i].Price)
		}
	}
	if len(prices) < minPricedListings {
		return 0, false
	}

	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		return (prices[mid-1] + prices[mid]) / 2, true
	}
	return prices[mid], true
}

func labelFor(pct float64) domain.DealLabel {
	switch {
	case pct <= -labelThresholdPct:
		return domain.DealGood
	case pct >= labelThresholdPct:
		return domain.DealHigh
	default:
		return domain.DealFair
	}
}

// confidence grades listing completeness over the fields the score
// depends on: price, shipping, and condition.
func confidence(l *domain.Listing) (domain.Confidence, []string) {
	var present int
	var reasons []string

	if l.Price != nil {
		present++
	} else {
		reasons = append(reasons, "missing price")
	}
	if l.Shipping != nil {
		present++
	} else {
		reasons = append(reasons, "missing shipping")
	}
	if l.Condition != "" {
		present++
	} else {
		reasons = append(reasons, "missing condition")
	}

	if len(reasons) == 0 {
		reasons = []string{"price, shipping, and condition present"}
	}

	switch present {
	case 3:
		return domain.ConfidenceHigh, reasons
	case 2:
		return domain.ConfidenceMedium, reasons
	default:
		return domain.ConfidenceLow, reasons
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
