package valuation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/fretscout/fretscout/pkg/types"
	"github.com/fretscout/fretscout/pkg/valuation"
)

func rankedListing(id string, price, score *float64, conf domain.Confidence) domain.Listing {
	return domain.Listing{
		ListingID:      id,
		Title:          "Listing " + id,
		Price:          price,
		URL:            "https://example.com/" + id,
		Source:         "test",
		DealScore:      score,
		DealConfidence: conf,
	}
}

func ids(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i := range listings {
		out[i] = listings[i].ListingID
	}
	return out
}

func TestSort_RelevancePreservesOrder(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		rankedListing("a", f(100), f(80), domain.ConfidenceHigh),
		rankedListing("b", f(90), f(70), domain.ConfidenceMedium),
		rankedListing("c", f(110), f(60), domain.ConfidenceLow),
	}

	got := valuation.Sort(listings, valuation.SortRelevance)

	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestSort_PriceMissingLast(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		rankedListing("a", nil, f(80), domain.ConfidenceHigh),
		rankedListing("b", f(90), f(70), domain.ConfidenceMedium),
		rankedListing("c", f(110), f(60), domain.ConfidenceLow),
	}

	got := valuation.Sort(listings, valuation.SortPriceAsc)

	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestSort_DealScoreConfidenceFirst(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		rankedListing("a", f(120), f(70), domain.ConfidenceMedium),
		rankedListing("b", f(100), f(60), domain.ConfidenceHigh),
		rankedListing("c", f(90), f(90), domain.ConfidenceLow),
		rankedListing("d", f(80), f(95), domain.ConfidenceHigh),
	}

	got := valuation.Sort(listings, valuation.SortDealScore)

	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(got))
}

func TestSort_DealScoreUnscoredLastWithinConfidence(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		rankedListing("a", f(120), nil, domain.ConfidenceHigh),
		rankedListing("b", f(100), f(60), domain.ConfidenceHigh),
	}

	got := valuation.Sort(listings, valuation.SortDealScore)

	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		rankedListing("a", f(200), f(10), domain.ConfidenceLow),
		rankedListing("b", f(100), f(90), domain.ConfidenceHigh),
	}

	_ = valuation.Sort(listings, valuation.SortDealScore)

	assert.Equal(t, []string{"a", "b"}, ids(listings))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		rankedListing("a", f(100), f(80), domain.ConfidenceHigh),
		rankedListing("b", f(90), f(40), domain.ConfidenceMedium),
		rankedListing("c", f(110), nil, domain.ConfidenceLow),
	}

	tests := []struct {
		name         string
		minScore     float64
		highConfOnly bool
		want         []string
	}{
		{"no filters keeps all", 0, false, []string{"a", "b", "c"}},
		{"min score drops low and unscored", 50, false, []string{"a"}},
		{"high confidence only", 0, true, []string{"a"}},
		{"combined", 90, true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := valuation.Filter(listings, tt.minScore, tt.highConfOnly)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
