package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
)

// Authenticator attaches credentials to an outgoing carrier request.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// Refresher is implemented by authenticators whose credentials can go stale.
// Invalidate is called with the request that was rejected with 401 or 403.
type Refresher interface {
	Invalidate(req *http.Request)
}

// Bearer authenticates with a cached OAuth2 access token.
type Bearer struct {
	cache *TokenCache
	creds ClientCredentials
}

// NewBearer creates a bearer authenticator for creds backed by cache.
func NewBearer(cache *TokenCache, creds ClientCredentials) *Bearer {
	return &Bearer{cache: cache, creds: creds}
}

// Authenticate sets the Authorization header.
func (b *Bearer) Authenticate(ctx context.Context, req *http.Request) error {
	token, err := b.cache.GetToken(ctx, b.creds)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Invalidate drops the token sent with req, unless it was already replaced.
func (b *Bearer) Invalidate(req *http.Request) {
	token, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
	if !ok {
		b.cache.Invalidate(b.creds)
		return
	}
	b.cache.InvalidateToken(b.creds, token)
}

// APIKey authenticates with a static key in a request header.
type APIKey struct {
	header string
	key    string
}

// NewAPIKey creates an API key authenticator that sets header to key.
func NewAPIKey(header, key string) *APIKey {
	return &APIKey{header: header, key: key}
}

// Authenticate sets the key header.
func (a *APIKey) Authenticate(_ context.Context, req *http.Request) error {
	req.Header.Set(a.header, a.key)
	return nil
}

// Basic authenticates with HTTP Basic credentials.
type Basic struct {
	value string
}

// NewBasic creates a Basic authenticator. The header value is encoded once.
func NewBasic(username, password string) *Basic {
	return &Basic{value: "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))}
}

// Authenticate sets the Authorization header.
func (b *Basic) Authenticate(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", b.value)
	return nil
}

// Chain applies several authenticators in order.
type Chain []Authenticator

// Authenticate runs every authenticator, stopping at the first error.
func (c Chain) Authenticate(ctx context.Context, req *http.Request) error {
	for _, a := range c {
		if err := a.Authenticate(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate forwards to every member that is a Refresher.
func (c Chain) Invalidate(req *http.Request) {
	for _, a := range c {
		if r, ok := a.(Refresher); ok {
			r.Invalidate(req)
		}
	}
}

// AsRefresher returns the Refresher behind a, if any. A Chain qualifies only
// when one of its members does.
func AsRefresher(a Authenticator) (Refresher, bool) {
	if c, ok := a.(Chain); ok {
		for _, m := range c {
			if _, ok := AsRefresher(m); ok {
				return c, true
			}
		}
		return nil, false
	}
	r, ok := a.(Refresher)
	return r, ok
}
