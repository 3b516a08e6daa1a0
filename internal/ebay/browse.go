package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fretscout/fretscout/internal/metrics"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// Browse endpoints per environment.
const (
	productionBrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	sandboxBrowseURL    = "https://api.sandbox.ebay.com/buy/browse/v1/item_summary/search"

	defaultMarketplace = "EBAY_US"

	defaultBrowseLimit = 50
	maxBrowseLimit     = 200
)

// BrowseClient implements Client using the eBay Browse API.
type BrowseClient struct {
	tokens      TokenProvider
	browseURL   string
	marketplace string
	client      *http.Client
	rateLimiter *RateLimiter
}

// BrowseOption configures the BrowseClient.
type BrowseOption func(*BrowseClient)

// WithBrowseURL overrides the environment-derived Browse API endpoint.
func WithBrowseURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		c.browseURL = u
	}
}

// WithMarketplace overrides the default marketplace header value.
func WithMarketplace(m string) BrowseOption {
	return func(c *BrowseClient) {
		if m != "" {
			c.marketplace = m
		}
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(c *BrowseClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a limiter controlling per-second and daily API
// call budgets. When set, every Search() call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) BrowseOption {
	return func(c *BrowseClient) {
		c.rateLimiter = r
	}
}

// NewBrowseClient creates a Browse API client for the given environment.
func NewBrowseClient(tokens TokenProvider, env domain.Environment, opts ...BrowseOption) *BrowseClient {
	c := &BrowseClient{
		tokens:      tokens,
		marketplace: defaultMarketplace,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
	if env == domain.EnvSandbox {
		c.browseURL = sandboxBrowseURL
	} else {
		c.browseURL = productionBrowseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type browseAPIResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
	Offset        int           `json:"offset"`
	Limit         int           `json:"limit"`
	Next          string        `json:"next"`
}

// Search implements Client.Search by querying the Browse API.
func (c *BrowseClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchResponse, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.EbayDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.EbayDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}
	metrics.EbayAPICallsTotal.Inc()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.buildSearchURL(req), http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{
			Status: resp.StatusCode,
			Body:   truncate(string(body), maxErrorBody),
		}
	}

	var apiResp browseAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &ParseError{Reason: "decoding search response", Err: err}
	}

	return &SearchResponse{
		Items:   apiResp.ItemSummaries,
		Total:   apiResp.Total,
		Offset:  apiResp.Offset,
		Limit:   apiResp.Limit,
		HasMore: apiResp.Next != "",
	}, nil
}

func (c *BrowseClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}

	if len(req.CategoryIDs) > 0 {
		ids := make([]string, len(req.CategoryIDs))
		for i, id := range req.CategoryIDs {
			ids[i] = strconv.Itoa(id)
		}
		params.Set("category_ids", strings.Join(ids, ","))
	}

	if req.MinPrice != nil || req.MaxPrice != nil {
		params.Set("filter", priceFilter(req.MinPrice, req.MaxPrice))
	}

	return c.browseURL + "?" + params.Encode()
}

// priceFilter renders the Browse API price range filter, e.g.
// "price:[..250.00]" for a max-only bound.
func priceFilter(minPrice, maxPrice *float64) string {
	var lo, hi string
	if minPrice != nil {
		lo = fmt.Sprintf("%.2f", *minPrice)
	}
	if maxPrice != nil {
		hi = fmt.Sprintf("%.2f", *maxPrice)
	}
	return fmt.Sprintf("price:[%s..%s]", lo, hi)
}
