// Package auth provides the credential strategies used to sign carrier requests
// and the per-credential bearer token cache.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultExpiryMargin is how long before its expiry a token is treated as expired.
const DefaultExpiryMargin = 5 * time.Second

// Token is a bearer token with its absolute expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// validAt reports whether the token can still be sent at now.
func (t *Token) validAt(now time.Time, margin time.Duration) bool {
	return t != nil && t.Value != "" && now.Before(t.ExpiresAt.Add(-margin))
}

// ClientCredentials identify one OAuth2 credential set.
type ClientCredentials struct {
	Carrier      string
	TokenURL     string
	GrantType    string // "client_credentials" or "password"
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Key returns a stable identity for the credential set that does not expose the secrets.
func (c ClientCredentials) Key() string {
	h := sha256.New()
	for _, part := range []string{c.TokenURL, c.GrantType, c.ClientID, c.ClientSecret, c.Username, c.Password} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TokenFetcher performs one token acquisition exchange.
type TokenFetcher interface {
	FetchToken(ctx context.Context, creds ClientCredentials) (*Token, error)
}

// TokenFetcherFunc adapts a function to TokenFetcher.
type TokenFetcherFunc func(ctx context.Context, creds ClientCredentials) (*Token, error)

// FetchToken calls f.
func (f TokenFetcherFunc) FetchToken(ctx context.Context, creds ClientCredentials) (*Token, error) {
	return f(ctx, creds)
}

// RefreshHook observes every completed refresh exchange.
type RefreshHook func(carrier string, err error)

// TokenCacheOption configures a TokenCache.
type TokenCacheOption func(*TokenCache)

// WithExpiryMargin overrides DefaultExpiryMargin.
func WithExpiryMargin(d time.Duration) TokenCacheOption {
	return func(c *TokenCache) { c.margin = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenCacheOption {
	return func(c *TokenCache) { c.now = now }
}

// WithLogger sets the logger used for refresh diagnostics.
func WithLogger(logger *otelzap.Logger) TokenCacheOption {
	return func(c *TokenCache) { c.logger = logger }
}

// WithRefreshHook registers a hook called after each refresh exchange.
func WithRefreshHook(hook RefreshHook) TokenCacheOption {
	return func(c *TokenCache) { c.onRefresh = hook }
}

// TokenCache hands out bearer tokens per credential set.
//
// Each credential set has its own entry. Refreshes of one key are coalesced so
// that at most one exchange is in flight per key; refreshes of different keys
// run independently. Reads of a valid token take no lock beyond the map lookup.
type TokenCache struct {
	fetcher   TokenFetcher
	margin    time.Duration
	now       func() time.Time
	logger    *otelzap.Logger
	onRefresh RefreshHook

	mu      sync.RWMutex // guards entries only
	entries map[string]*tokenEntry
	flight  singleflight.Group
}

type tokenEntry struct {
	token atomic.Pointer[Token]
}

// NewTokenCache creates a cache that acquires tokens with fetcher.
func NewTokenCache(fetcher TokenFetcher, opts ...TokenCacheOption) *TokenCache {
	c := &TokenCache{
		fetcher: fetcher,
		margin:  DefaultExpiryMargin,
		now:     time.Now,
		logger:  otelzap.New(zap.NewNop()),
		entries: make(map[string]*tokenEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetToken returns a valid bearer token for creds, refreshing it when needed.
// A caller whose ctx ends while waiting for a refresh returns ctx.Err(); the
// refresh itself continues for the other waiters.
func (c *TokenCache) GetToken(ctx context.Context, creds ClientCredentials) (string, error) {
	key := creds.Key()
	entry := c.entry(key)

	if tok := entry.token.Load(); tok.validAt(c.now(), c.margin) {
		return tok.Value, nil
	}

	ch := c.flight.DoChan(key, func() (any, error) {
		// Another caller may have finished a refresh between our check and now.
		if tok := entry.token.Load(); tok.validAt(c.now(), c.margin) {
			return tok, nil
		}

		c.logger.Ctx(ctx).Debug("Refreshing bearer token",
			zap.String("carrier", creds.Carrier),
			zap.String("token_url", creds.TokenURL),
		)
		tok, err := c.fetcher.FetchToken(context.WithoutCancel(ctx), creds)
		if c.onRefresh != nil {
			c.onRefresh(creds.Carrier, err)
		}
		if err != nil {
			return nil, err
		}
		entry.token.Store(tok)
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*Token).Value, nil
	}
}

// Invalidate forces the next GetToken for creds to refresh.
func (c *TokenCache) Invalidate(creds ClientCredentials) {
	if entry, ok := c.lookup(creds.Key()); ok {
		entry.token.Store(nil)
	}
}

// InvalidateToken drops the cached token for creds only if it is still value.
// A token that was already replaced by a concurrent refresh is kept.
func (c *TokenCache) InvalidateToken(creds ClientCredentials, value string) {
	entry, ok := c.lookup(creds.Key())
	if !ok {
		return
	}
	if tok := entry.token.Load(); tok != nil && tok.Value == value {
		entry.token.CompareAndSwap(tok, nil)
	}
}

// Remove tears down the entry of creds. A refresh still in flight completes
// for its waiters but is not cached; the next GetToken starts a new exchange.
func (c *TokenCache) Remove(creds ClientCredentials) {
	key := creds.Key()
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.flight.Forget(key)
}

// Len returns the number of credential sets with an entry.
func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TokenCache) lookup(key string) (*tokenEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *TokenCache) entry(key string) *tokenEntry {
	if e, ok := c.lookup(key); ok {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &tokenEntry{}
		c.entries[key] = e
	}
	return e
}
