// Package identity assigns deterministic listing IDs and deduplicates
// listings that describe the same item across sources.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// Tracking parameters stripped during URL normalization.
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"mc_cid": true,
	"mc_eid": true,
	"yclid":  true,
}

// AssignID fills in ListingID when the source did not provide one. The ID
// is derived in priority order: source item ID, normalized URL hash, then
// a fingerprint of the listing fields. The same listing always yields the
// same ID.
func AssignID(l *domain.Listing) {
	if l.ListingID != "" {
		return
	}
	switch {
	case l.Source != "" && l.SourceItemID != "":
		l.ListingID = l.Source + ":" + l.SourceItemID
	case l.URL != "":
		l.ListingID = "url:" + shortHash(NormalizeURL(l.URL))
	default:
		l.ListingID = "hash:" + shortHash(fingerprint(l))
	}
}

// NormalizeURL canonicalizes a listing URL so that cosmetic variations
// (case of scheme/host, duplicate slashes, tracking parameters, fragments,
// trailing slash) map to the same string. Unparseable URLs are returned
// trimmed but otherwise untouched.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	path := u.EscapedPath()
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	path = strings.TrimSuffix(path, "/")
	u.RawPath = ""
	u.Path = path

	q := u.Query()
	for key := range q {
		if trackingParams[key] || strings.HasPrefix(key, "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

func fingerprint(l *domain.Listing) string {
	price := ""
	if l.Price != nil {
		price = fmt.Sprintf("%.2f", *l.Price)
	}
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(l.Title)),
		strings.ToLower(l.Seller),
		strings.ToLower(l.Location),
		price,
		l.Currency,
	}, "|")
}

// Dedup collapses listings sharing an ID, keeping the most complete copy
// of each. Input order is preserved by first occurrence. Listings without
// an ID get one assigned first.
func Dedup(listings []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	index := make(map[string]int, len(listings))

	for i := range listings {
		l := listings[i]
		AssignID(&l)

		at, seen := index[l.ListingID]
		if !seen {
			index[l.ListingID] = len(out)
			out = append(out, l)
			continue
		}
		if completeness(&l) > completeness(&out[at]) {
			out[at] = l
		}
	}
	return out
}

// completeness counts the optional fields a listing carries. Used to pick
// the richer copy among duplicates.
func completeness(l *domain.Listing) int {
	n := 0
	if l.Price != nil {
		n++
	}
	for _, s := range []string{l.URL, l.ImageURL, l.Condition, l.Seller, l.Location, l.Currency} {
		if s != "" {
			n++
		}
	}
	return n
}
