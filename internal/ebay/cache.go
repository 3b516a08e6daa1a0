package ebay

import (
	"context"
	"sync"
	"time"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// expiryBuffer is how long before actual expiry a cached token is
// considered stale.
const expiryBuffer = 120 * time.Second

// CachingTokenProvider implements TokenProvider over a TokenClient,
// reusing a token until it is within expiryBuffer of expiring.
// Thread-safe via mutex.
type CachingTokenProvider struct {
	fetcher TokenFetcher

	mu      sync.Mutex
	current *domain.AccessToken
	nowFunc func() time.Time
}

// TokenFetcher is the single-shot token acquisition dependency.
type TokenFetcher interface {
	FetchToken(ctx context.Context) (*domain.AccessToken, error)
}

// CacheOption configures the CachingTokenProvider.
type CacheOption func(*CachingTokenProvider)

// WithCacheNowFunc overrides the time function for testing.
func WithCacheNowFunc(f func() time.Time) CacheOption {
	return func(p *CachingTokenProvider) {
		p.nowFunc = f
	}
}

// NewCachingTokenProvider wraps a token fetcher with in-memory reuse.
func NewCachingTokenProvider(fetcher TokenFetcher, opts ...CacheOption) *CachingTokenProvider {
	p := &CachingTokenProvider{
		fetcher: fetcher,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a valid access token, fetching a new one when the cached
// token is absent or near expiry.
func (p *CachingTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.nowFunc()
	if p.current != nil && now.Before(p.current.ExpiresAt().Add(-expiryBuffer)) {
		return p.current.Token, nil
	}

	token, err := p.fetcher.FetchToken(ctx)
	if err != nil {
		return "", err
	}

	p.current = token
	return token.Token, nil
}

// Clear drops the cached token, forcing a fetch on the next call.
func (p *CachingTokenProvider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
}
