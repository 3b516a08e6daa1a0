package valuation

import (
	"math"
	"sort"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// SortMode selects how search results are ordered.
type SortMode string

// Sort mode constants.
const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price"
	SortDealScore SortMode = "deal_score"
)

// Filter narrows listings by minimum deal score and, optionally, to
// high-confidence scores only. A zero min score disables the score check.
func Filter(listings []domain.Listing, minScore float64, highConfOnly bool) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for i := range listings {
		l := listings[i]
		if minScore > 0 && (l.DealScore == nil || *l.DealScore < minScore) {
			continue
		}
		if highConfOnly && l.DealConfidence != domain.ConfidenceHigh {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Sort orders listings by the given mode. Relevance preserves the input
// order; price sorts ascending with unpriced listings last; deal score
// ranks by confidence, then score descending, then price ascending.
// Sorting is stable with respect to the input order.
func Sort(listings []domain.Listing, mode SortMode) []domain.Listing {
	out := make([]domain.Listing, len(listings))
	copy(out, listings)

	switch mode {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return priceKey(&out[i]) < priceKey(&out[j])
		})
	case SortDealScore:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := confidenceRank(out[i].DealConfidence), confidenceRank(out[j].DealConfidence)
			if ri != rj {
				return ri < rj
			}
			si, sj := scoreKey(&out[i]), scoreKey(&out[j])
			if si != sj {
				return si > sj
			}
			return priceKey(&out[i]) < priceKey(&out[j])
		})
	default:
		// Relevance: source order.
	}

	return out
}

func priceKey(l *domain.Listing) float64 {
	if l.Price == nil {
		return math.Inf(1)
	}
	return *l.Price
}

func scoreKey(l *domain.Listing) float64 {
	if l.DealScore == nil {
		return math.Inf(-1)
	}
	return *l.DealScore
}

func confidenceRank(c domain.Confidence) int {
	switch c {
	case domain.ConfidenceHigh:
		return 0
	case domain.ConfidenceMedium:
		return 1
	case domain.ConfidenceLow:
		return 2
	default:
		return 3
	}
}
