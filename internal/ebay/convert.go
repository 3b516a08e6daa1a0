package ebay

import (
	"strconv"
	"time"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// SourceName identifies eBay-originated listings.
const SourceName = "ebay"

// ToListings converts Browse API item summaries into domain listings.
// Items without an itemId are skipped; a deterministic listing ID of the
// form "ebay:<itemId>" is assigned to the rest.
func ToListings(items []ItemSummary) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for i := range items {
		if items[i].ItemID == "" {
			continue
		}
		listings = append(listings, toListing(&items[i]))
	}
	return listings
}

func toListing(item *ItemSummary) domain.Listing {
	l := domain.Listing{
		ListingID:    SourceName + ":" + item.ItemID,
		Source:       SourceName,
		SourceItemID: item.ItemID,
		Title:        item.Title,
		URL:          item.ItemWebURL,
		Currency:     item.Price.Currency,
		Condition:    item.Condition,
	}
	if l.Title == "" {
		l.Title = "Untitled"
	}

	l.Price = parsePrice(item.Price.Value)

	if len(item.ShippingOptions) > 0 {
		if sc := item.ShippingOptions[0].ShippingCost; sc != nil {
			l.Shipping = parsePrice(sc.Value)
		}
	}
	l.AllInPrice = l.ComputeAllIn()

	if item.Image != nil {
		l.ImageURL = item.Image.ImageURL
	}
	if item.Seller != nil {
		l.Seller = item.Seller.Username
	}
	if item.ItemLocation != nil {
		l.Location = formatLocation(item.ItemLocation)
	}
	if ts, err := time.Parse(time.RFC3339, item.ItemCreationDate); err == nil {
		l.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, item.ItemEndDate); err == nil {
		l.EndsAt = &ts
	}

	return l
}

func parsePrice(value string) *float64 {
	if value == "" {
		return nil
	}
	p, err := strconv.ParseFloat(value, 64)
	if err != nil || p < 0 {
		return nil
	}
	return &p
}

func formatLocation(loc *ItemLocation) string {
	switch {
	case loc.Country != "" && loc.PostalCode != "":
		return loc.Country + " " + loc.PostalCode
	case loc.Country != "":
		return loc.Country
	default:
		return loc.PostalCode
	}
}
