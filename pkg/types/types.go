// Package domain defines the core business types for FretScout.
package domain

import (
	"fmt"
	"time"
)

// Environment selects the eBay API environment.
type Environment string

// Environment constants.
const (
	EnvProduction Environment = "production"
	EnvSandbox    Environment = "sandbox"
)

// Valid reports whether the environment is a known value.
func (e Environment) Valid() bool {
	return e == EnvProduction || e == EnvSandbox
}

// Credentials holds the eBay application credentials and environment
// selection. ClientID and ClientSecret are either both present or both
// absent; a half-configured pair is treated as absent at load time.
type Credentials struct {
	ClientID      string
	ClientSecret  string
	Environment   Environment
	MarketplaceID string
}

// Mode is the startup-resolved operating mode: demo (stub data) when no
// credentials are configured, live (eBay Browse API) otherwise.
type Mode struct {
	creds *Credentials
}

// DemoMode returns the mode used when no live credentials are present.
func DemoMode() Mode {
	return Mode{}
}

// LiveMode returns the mode carrying live eBay credentials.
func LiveMode(creds Credentials) Mode {
	return Mode{creds: &creds}
}

// Live reports whether live credentials are configured.
func (m Mode) Live() bool {
	return m.creds != nil
}

// Credentials returns the live credentials, or nil in demo mode.
func (m Mode) Credentials() *Credentials {
	return m.creds
}

// String returns a redacted description safe for logs.
func (m Mode) String() string {
	if m.creds == nil {
		return "demo"
	}
	return fmt.Sprintf("live (%s, %s)", m.creds.Environment, m.creds.MarketplaceID)
}

// AccessToken is an OAuth2 application access token. The raw token value
// must never be logged or displayed in full; use String for diagnostics.
type AccessToken struct {
	Token      string
	ExpiresIn  int
	ObtainedAt time.Time
}

// ExpiresAt returns the instant the token stops being valid.
func (t *AccessToken) ExpiresAt() time.Time {
	return t.ObtainedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Expired reports whether the token is past its expiry at the given time.
func (t *AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt())
}

// String redacts the token value, surfacing only expiry information.
func (t *AccessToken) String() string {
	return fmt.Sprintf("AccessToken(redacted, expires_in=%ds)", t.ExpiresIn)
}

// DealLabel classifies a listing price relative to the search median.
type DealLabel string

// Deal label constants.
const (
	DealGood DealLabel = "Good"
	DealFair DealLabel = "Fair"
	DealHigh DealLabel = "High"
)

// Confidence expresses how much to trust a deal score, derived from
// listing completeness.
type Confidence string

// Confidence constants.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Listing represents a used/vintage guitar listing from any source.
type Listing struct {
	ListingID    string `json:"listing_id"               db:"listing_id"`
	Source       string `json:"source"                   db:"source"`
	SourceItemID string `json:"source_item_id,omitempty" db:"source_item_id"`
	Title        string `json:"title"                    db:"title"`
	URL          string `json:"url"                      db:"url"`
	ImageURL     string `json:"image_url,omitempty"      db:"image_url"`

	// Pricing. Price and Shipping are nullable: some sources omit them.
	Price      *float64 `json:"price,omitempty"        db:"price"`
	Shipping   *float64 `json:"shipping,omitempty"     db:"shipping"`
	AllInPrice *float64 `json:"all_in_price,omitempty" db:"all_in_price"`
	Currency   string   `json:"currency,omitempty"     db:"currency"`

	Condition string `json:"condition,omitempty" db:"condition"`
	Location  string `json:"location,omitempty"  db:"location"`
	Seller    string `json:"seller,omitempty"    db:"seller"`

	CreatedAt time.Time  `json:"created_at"        db:"created_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty" db:"ends_at"`

	// Valuation outputs, computed per search and not persisted.
	DealScore          *float64   `json:"deal_score,omitempty"           db:"-"`
	DealLabel          *DealLabel `json:"deal_label,omitempty"           db:"-"`
	DealConfidence     Confidence `json:"deal_confidence,omitempty"      db:"-"`
	DealReasons        []string   `json:"deal_reasons,omitempty"         db:"-"`
	DealReferencePrice *float64   `json:"deal_reference_price,omitempty" db:"-"`
	DealPercentDiff    *float64   `json:"deal_percent_diff,omitempty"    db:"-"`
}

// ComputeAllIn returns price plus shipping, treating missing shipping as
// zero. Returns nil when the price itself is missing.
func (l *Listing) ComputeAllIn() *float64 {
	if l.Price == nil {
		return nil
	}
	total := *l.Price
	if l.Shipping != nil {
		total += *l.Shipping
	}
	return &total
}

// SavedAlert is a saved search with an optional price ceiling.
type SavedAlert struct {
	ID        int64     `json:"id"                  db:"alert_id"`
	Query     string    `json:"query"               db:"query"`
	MaxPrice  *float64  `json:"max_price,omitempty" db:"max_price"`
	CreatedAt time.Time `json:"created_at"          db:"created_at"`
}

// AlertEvent records a listing matching a saved alert.
type AlertEvent struct {
	ID        int64     `json:"id"                   db:"event_id"`
	AlertID   int64     `json:"alert_id"             db:"alert_id"`
	ListingID string    `json:"listing_id,omitempty" db:"listing_id"`
	Message   string    `json:"message"              db:"message"`
	CreatedAt time.Time `json:"created_at"           db:"created_at"`
}
