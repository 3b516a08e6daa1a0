package valuation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/fretscout/fretscout/pkg/types"
	"github.com/fretscout/fretscout/pkg/valuation"
)

func buildListing(id, title string, price, shipping *float64, condition string) domain.Listing {
	return domain.Listing{
		ListingID: id,
		Title:     title,
		Price:     price,
		Shipping:  shipping,
		Condition: condition,
		URL:       "https://example.com/" + id,
		Source:    "test",
	}
}

func f(v float64) *float64 { return &v }

func labelMap(listings []domain.Listing) map[string]*domain.DealLabel {
	m := make(map[string]*domain.DealLabel, len(listings))
	for i := range listings {
		m[listings[i].ListingID] = listings[i].DealLabel
	}
	return m
}

func TestScoreListings_LabelsAgainstMedian(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		buildListing("l1", "Good Listing", f(100), f(10), ""),
		buildListing("l2", "Fair Listing", f(150), f(10), ""),
		buildListing("l3", "High Listing", f(200), f(10), ""),
	}

	scored := valuation.ScoreListings(listings)
	labels := labelMap(scored)

	require.NotNil(t, labels["l1"])
	require.NotNil(t, labels["l2"])
	require.NotNil(t, labels["l3"])
	assert.Equal(t, domain.DealGood, *labels["l1"])
	assert.Equal(t, domain.DealFair, *labels["l2"])
	assert.Equal(t, domain.DealHigh, *labels["l3"])
}

func TestScoreListings_MissingShippingStillScored(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		buildListing("l1", "Listing 1", f(100), nil, ""),
		buildListing("l2", "Listing 2", f(100), f(0), ""),
		buildListing("l3", "Listing 3", f(100), f(0), ""),
	}

	scored := valuation.ScoreListings(listings)

	for i := range scored {
		require.NotNil(t, scored[i].DealLabel, "listing %s", scored[i].ListingID)
		assert.Equal(t, domain.DealFair, *scored[i].DealLabel)
	}
}

func TestScoreListings_UnpricedListingNotScored(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		buildListing("l1", "Listing 1", f(100), f(10), ""),
		buildListing("l2", "Listing 2", f(150), f(10), ""),
		buildListing("l3", "Listing 3", f(200), f(10), ""),
		buildListing("l4", "Listing 4", nil, f(10), ""),
	}

	scored := valuation.ScoreListings(listings)
	labels := labelMap(scored)

	assert.Nil(t, labels["l4"])
	assert.NotNil(t, labels["l1"])
	assert.NotNil(t, labels["l2"])
	assert.NotNil(t, labels["l3"])
}

func TestScoreListings_TooFewPricedListings(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		buildListing("l1", "Listing 1", f(100), f(10), ""),
		buildListing("l2", "Listing 2", nil, f(10), ""),
		buildListing("l3", "Listing 3", f(200), f(10), ""),
	}

	scored := valuation.ScoreListings(listings)

	for i := range scored {
		assert.Nil(t, scored[i].DealLabel)
		assert.Nil(t, scored[i].DealScore)
	}
}

func TestScoreListings_Confidence(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		buildListing("l1", "Complete", f(100), f(10), "Excellent"),
		buildListing("l2", "Price Only", f(150), f(10), ""),
		buildListing("l3", "", nil, nil, ""),
	}

	scored := valuation.ScoreListings(listings)

	conf := make(map[string]domain.Confidence)
	reasons := make(map[string][]string)
	for i := range scored {
		conf[scored[i].ListingID] = scored[i].DealConfidence
		reasons[scored[i].ListingID] = scored[i].DealReasons
	}

	assert.Equal(t, domain.ConfidenceHigh, conf["l1"])
	assert.Equal(t, domain.ConfidenceMedium, conf["l2"])
	assert.Equal(t, domain.ConfidenceLow, conf["l3"])

	assert.Contains(t, reasons["l2"], "missing condition")
	assert.Contains(t, reasons["l3"], "missing price")
	assert.NotEmpty(t, reasons["l1"])
}

func TestScoreListings_ShippingDoesNotAffectScore(t *testing.T) {
	t.Parallel()

	baseline := []domain.Listing{
		buildListing("l1", "Good Listing", f(100), f(0), ""),
		buildListing("l2", "Fair Listing", f(150), f(10), ""),
		buildListing("l3", "High Listing", f(200), f(20), ""),
	}
	varied := []domain.Listing{
		buildListing("l1", "Good Listing", f(100), f(250), ""),
		buildListing("l2", "Fair Listing", f(150), f(5), ""),
		buildListing("l3", "High Listing", f(200), f(999), ""),
	}

	baseScored := valuation.ScoreListings(baseline)
	variedScored := valuation.ScoreListings(varied)

	for i := range baseScored {
		require.NotNil(t, baseScored[i].DealScore)
		require.NotNil(t, variedScored[i].DealScore)
		assert.InDelta(t, *baseScored[i].DealScore, *variedScored[i].DealScore, 0.001)
		assert.Equal(t, *baseScored[i].DealLabel, *variedScored[i].DealLabel)
		assert.InDelta(t, *baseScored[i].DealReferencePrice, *variedScored[i].DealReferencePrice, 0.001)
	}
}

func TestScoreListings_ExplanationFields(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		buildListing("l1", "Listing 1", nil, f(10), ""),
		buildListing("l2", "Listing 2", f(150), f(10), ""),
		buildListing("l3", "Listing 3", f(200), f(10), ""),
		buildListing("l4", "Listing 4", f(100), f(10), ""),
	}

	scored := valuation.ScoreListings(listings)

	byID := make(map[string]domain.Listing)
	for i := range scored {
		byID[scored[i].ListingID] = scored[i]
	}

	priced := byID["l2"]
	require.NotNil(t, priced.DealReferencePrice)
	require.NotNil(t, priced.DealPercentDiff)
	require.NotNil(t, priced.DealScore)
	assert.InDelta(t, 150.0, *priced.DealReferencePrice, 0.001)
	assert.InDelta(t, 0.0, *priced.DealPercentDiff, 0.001)
	assert.InDelta(t, 50.0, *priced.DealScore, 0.001)

	unpriced := byID["l1"]
	assert.Nil(t, unpriced.DealReferencePrice)
	assert.Nil(t, unpriced.DealPercentDiff)
	assert.Nil(t, unpriced.DealScore)
}

func TestScoreListings_EvenCountUsesMidpointMedian(t *testing.T) {
	t.Parallel()

	listings := []domain.Listing{
		buildListing("l1", "Listing 1", f(100), nil, ""),
		buildListing("l2", "Listing 2", f(120), nil, ""),
		buildListing("l3", "Listing 3", f(180), nil, ""),
		buildListing("l4", "Listing 4", f(200), nil, ""),
	}

	scored := valuation.ScoreListings(listings)

	require.NotNil(t, scored[0].DealReferencePrice)
	assert.InDelta(t, 150.0, *scored[0].DealReferencePrice, 0.001)
}
