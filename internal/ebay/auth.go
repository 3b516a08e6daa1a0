package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fretscout/fretscout/internal/metrics"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// Token endpoints per environment. Sandbox and production are distinct
// hosts; the path is eBay's standard OAuth2 token path.
const (
	productionTokenURL = "https://api.ebay.com/identity/v1/oauth2/token"    //nolint:gosec // endpoint, not a credential
	sandboxTokenURL    = "https://api.sandbox.ebay.com/identity/v1/oauth2/token" //nolint:gosec // endpoint, not a credential

	defaultScope = "https://api.ebay.com/oauth/api_scope"

	defaultTokenTimeout = 10 * time.Second

	// maxErrorBody bounds how much of an error response is carried in a
	// NetworkError.
	maxErrorBody = 200
)

// TokenClient performs the OAuth2 client-credentials exchange against
// the eBay token endpoint. One HTTP attempt per call; no retry, backoff,
// or caching. Wrap with CachingTokenProvider for token reuse.
type TokenClient struct {
	creds    domain.Credentials
	tokenURL string
	scope    string
	client   *http.Client
	nowFunc  func() time.Time
}

// TokenOption configures the TokenClient.
type TokenOption func(*TokenClient)

// WithTokenURL overrides the environment-derived token endpoint.
func WithTokenURL(u string) TokenOption {
	return func(c *TokenClient) {
		c.tokenURL = u
	}
}

// WithScope overrides the requested OAuth scope.
func WithScope(s string) TokenOption {
	return func(c *TokenClient) {
		c.scope = s
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) TokenOption {
	return func(c *TokenClient) {
		c.client = hc
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) TokenOption {
	return func(c *TokenClient) {
		c.nowFunc = f
	}
}

// NewTokenClient creates a TokenClient for the given credentials. The
// token endpoint follows the credentials' environment unless overridden.
func NewTokenClient(creds domain.Credentials, opts ...TokenOption) *TokenClient {
	c := &TokenClient{
		creds:   creds,
		scope:   defaultScope,
		client:  &http.Client{Timeout: defaultTokenTimeout},
		nowFunc: time.Now,
	}
	if creds.Environment == domain.EnvSandbox {
		c.tokenURL = sandboxTokenURL
	} else {
		c.tokenURL = productionTokenURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// FetchToken obtains a fresh application access token. Credential
// problems surface as *AuthError before any network traffic; transport
// and non-2xx failures as *NetworkError; malformed success bodies as
// *ParseError.
func (c *TokenClient) FetchToken(ctx context.Context) (*domain.AccessToken, error) {
	if strings.TrimSpace(c.creds.ClientID) == "" || strings.TrimSpace(c.creds.ClientSecret) == "" {
		return nil, &AuthError{Reason: "client ID and client secret are required"}
	}
	if !c.creds.Environment.Valid() {
		return nil, &AuthError{Reason: "environment must be production or sandbox"}
	}

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {c.scope},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.creds.ClientID, c.creds.ClientSecret))

	metrics.TokenFetchesTotal.Inc()

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.TokenFetchFailuresTotal.Inc()
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TokenFetchFailuresTotal.Inc()
		return nil, &NetworkError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.TokenFetchFailuresTotal.Inc()
		return nil, &NetworkError{
			Status: resp.StatusCode,
			Body:   truncate(string(body), maxErrorBody),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		metrics.TokenFetchFailuresTotal.Inc()
		return nil, &ParseError{Reason: "decoding token response", Err: err}
	}
	if tr.AccessToken == "" {
		metrics.TokenFetchFailuresTotal.Inc()
		return nil, &ParseError{Reason: "response missing access_token"}
	}
	if tr.ExpiresIn <= 0 {
		metrics.TokenFetchFailuresTotal.Inc()
		return nil, &ParseError{Reason: "response missing expires_in"}
	}

	return &domain.AccessToken{
		Token:      tr.AccessToken,
		ExpiresIn:  tr.ExpiresIn,
		ObtainedAt: c.nowFunc(),
	}, nil
}

func basicAuth(id, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(id + ":" + secret))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
