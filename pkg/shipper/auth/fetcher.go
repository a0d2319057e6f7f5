package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tournevent/carrierlink/pkg/shipper"
)

// Grant types understood by OAuth2Fetcher.
const (
	GrantClientCredentials = "client_credentials"
	GrantPassword          = "password"
)

// DefaultTokenLifetime is assumed when the token response carries no expires_in.
const DefaultTokenLifetime = 60 * time.Second

// tokenResponse is the OAuth2 token endpoint payload.
type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// OAuth2Fetcher exchanges credentials for a bearer token with a form POST.
type OAuth2Fetcher struct {
	httpClient *http.Client
	now        func() time.Time
}

// NewOAuth2Fetcher creates a fetcher. A nil httpClient uses a client with a 30s timeout.
func NewOAuth2Fetcher(httpClient *http.Client) *OAuth2Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OAuth2Fetcher{httpClient: httpClient, now: time.Now}
}

// FetchToken performs the token exchange for creds.
func (f *OAuth2Fetcher) FetchToken(ctx context.Context, creds ClientCredentials) (*Token, error) {
	form := url.Values{}
	grant := creds.GrantType
	if grant == "" {
		grant = GrantClientCredentials
	}
	form.Set("grant_type", grant)
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	// Internetmarke sends user credentials with the client_credentials grant.
	if grant == GrantPassword || creds.Username != "" {
		form.Set("username", creds.Username)
		form.Set("password", creds.Password)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, shipper.NewAuthError(creds.Carrier, "failed to build token request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, shipper.NewAuthError(creds.Carrier, "token request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shipper.NewAuthError(creds.Carrier, "failed to read token response").WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, shipper.NewAuthError(creds.Carrier, shipper.ExtractDetail(body)).
			WithStatusCode(resp.StatusCode).
			WithBody(string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, shipper.NewAuthError(creds.Carrier, "failed to decode token response").
			WithCause(err).
			WithBody(string(body))
	}
	if tr.AccessToken == "" {
		return nil, shipper.NewAuthError(creds.Carrier, "token response has no access_token").
			WithBody(string(body))
	}

	lifetime := DefaultTokenLifetime
	if tr.ExpiresIn != "" {
		secs, err := tr.ExpiresIn.Int64()
		if err != nil {
			return nil, shipper.NewAuthError(creds.Carrier, fmt.Sprintf("invalid expires_in %q", tr.ExpiresIn)).
				WithCause(err)
		}
		lifetime = time.Duration(secs) * time.Second
	}

	return &Token{
		Value:     tr.AccessToken,
		ExpiresAt: f.now().Add(lifetime),
	}, nil
}
