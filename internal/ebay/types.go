package ebay

// ItemSummary represents a single item from the Browse API search
// response.
type ItemSummary struct {
	ItemID           string           `json:"itemId"`
	Title            string           `json:"title"`
	Price            ItemPrice        `json:"price"`
	ItemWebURL       string           `json:"itemWebUrl"`
	Image            *ItemImage       `json:"image,omitempty"`
	Seller           *ItemSeller      `json:"seller,omitempty"`
	Condition        string           `json:"condition"`
	ConditionID      string           `json:"conditionId"`
	ShippingOptions  []ShippingOption `json:"shippingOptions,omitempty"`
	ItemLocation     *ItemLocation    `json:"itemLocation,omitempty"`
	ItemCreationDate string           `json:"itemCreationDate,omitempty"`
	ItemEndDate      string           `json:"itemEndDate,omitempty"`
}

// ItemPrice holds eBay price information.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemImage holds eBay image information.
type ItemImage struct {
	ImageURL string `json:"imageUrl"`
}

// ItemSeller holds eBay seller information.
type ItemSeller struct {
	Username string `json:"username"`
}

// ShippingOption holds eBay shipping information.
type ShippingOption struct {
	ShippingCost *ItemPrice `json:"shippingCost,omitempty"`
}

// ItemLocation holds the coarse listing location.
type ItemLocation struct {
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}
