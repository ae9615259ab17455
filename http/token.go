package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hweisong/tenderparse"
)

// Token lifetimes as granted by the portal. Both are shortened slightly
// relative to the server-side windows so a token never expires mid-request.
const (
	accessTokenTTL  = 25 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Ensure TokenManager implements tenderparse.TokenSource at compile time.
var _ tenderparse.TokenSource = (*TokenManager)(nil)

// TokenManager caches the portal's anonymous access token and refreshes it
// before expiry. The portal grants a short-lived access token together with
// a longer-lived refresh token; while the refresh token is valid, renewal
// avoids the heavier anonymous login call.
//
// Token is safe for concurrent use: readers take a shared lock on the fast
// path and only the goroutine that wins the write lock talks to the portal.
type TokenManager struct {
	endpoint string
	client   *http.Client
	now      func() time.Time

	mu            sync.RWMutex
	accessToken   string
	refreshToken  string
	accessExpiry  time.Time
	refreshExpiry time.Time
}

// NewTokenManager creates a TokenManager for the portal's auth endpoint.
func NewTokenManager(endpoint string, opts ...TokenOption) *TokenManager {
	tm := &TokenManager{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: DefaultFetchTimeout},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TokenOption configures a TokenManager.
type TokenOption func(*TokenManager)

// WithTokenClient overrides the HTTP client used for auth calls.
func WithTokenClient(client *http.Client) TokenOption {
	return func(tm *TokenManager) {
		tm.client = client
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// Token returns a currently valid access token, refreshing or re-logging-in
// as needed.
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	tm.mu.RLock()
	if token := tm.validAccessToken(); token != "" {
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if token := tm.validAccessToken(); token != "" {
		return token, nil
	}

	if tm.refreshToken != "" && tm.now().Before(tm.refreshExpiry) {
		if err := tm.renew(ctx); err == nil {
			return tm.accessToken, nil
		}
		// A failed renewal falls through to a fresh login.
	}

	if err := tm.login(ctx); err != nil {
		return "", err
	}
	return tm.accessToken, nil
}

// Invalidate discards cached tokens so the next Token call fetches fresh
// credentials.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.accessToken = ""
	tm.refreshToken = ""
	tm.accessExpiry = time.Time{}
	tm.refreshExpiry = time.Time{}
}

// validAccessToken returns the cached token if it has not expired. Callers
// must hold at least the read lock.
func (tm *TokenManager) validAccessToken() string {
	if tm.accessToken != "" && tm.now().Before(tm.accessExpiry) {
		return tm.accessToken
	}
	return ""
}

// tokenResponse is the portal's grant payload for both login and renewal.
type tokenResponse struct {
	Data struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	} `json:"data"`
}

// login obtains a fresh token pair through the anonymous login endpoint.
// Callers must hold the write lock.
func (tm *TokenManager) login(ctx context.Context) error {
	return tm.grant(ctx, tm.endpoint+"/token/anonymous", "")
}

// renew exchanges the refresh token for a new access token. Callers must
// hold the write lock.
func (tm *TokenManager) renew(ctx context.Context) error {
	return tm.grant(ctx, tm.endpoint+"/token/refresh", tm.refreshToken)
}

func (tm *TokenManager) grant(ctx context.Context, url, refreshToken string) error {
	var body io.Reader
	if refreshToken != "" {
		payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
		if err != nil {
			return err
		}
		body = strings.NewReader(string(payload))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tm.client.Do(req)
	if err != nil {
		return tenderparse.Errorf(tenderparse.EUNAVAILABLE, "token endpoint unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tenderparse.Errorf(tenderparse.EUNAUTHORIZED, "token endpoint returned HTTP %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return tenderparse.Errorf(tenderparse.EINTERNAL, "malformed token response: %v", err)
	}
	if tr.Data.Token == "" {
		return tenderparse.Errorf(tenderparse.EUNAUTHORIZED, "token endpoint returned no token")
	}

	now := tm.now()
	tm.accessToken = tr.Data.Token
	tm.accessExpiry = now.Add(accessTokenTTL)
	if tr.Data.RefreshToken != "" {
		tm.refreshToken = tr.Data.RefreshToken
		tm.refreshExpiry = now.Add(refreshTokenTTL)
	}
	return nil
}
