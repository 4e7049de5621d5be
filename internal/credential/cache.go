// Package credential caches the bearer token used for calls to the external
// billing system.
package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/billforgelabs/billforge/internal/clock"
	"github.com/billforgelabs/billforge/internal/config"
	"github.com/billforgelabs/billforge/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrTokenExchange = errors.New("credential: token exchange failed")

// expirySkew refreshes slightly before the announced expiry so a token is
// never handed out on its last second.
const expirySkew = 30 * time.Second

// TokenCache acquires and reuses a client-credentials token. The remote
// exchange is a soft dependency: unless StrictAuth is set, a failed exchange
// yields a locally generated ephemeral token so callers can proceed.
type TokenCache struct {
	cfg        config.OAuthConfig
	httpClient *http.Client
	clock      clock.Clock
	log        *zap.Logger
	metrics    *metrics.Metrics

	mu       sync.Mutex
	token    string
	expiry   time.Time
	fallback bool
}

func NewTokenCache(cfg config.Config, clk clock.Clock, log *zap.Logger, m *metrics.Metrics) *TokenCache {
	timeout := cfg.OAuth.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TokenCache{
		cfg:        cfg.OAuth,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clk,
		log:        log.Named("credential.cache"),
		metrics:    m,
	}
}

// Token returns a valid bearer token, refreshing if the cached one expired.
// The lock is held across the refresh so concurrent callers share a single
// token-endpoint request.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now(ctx)
	if c.token != "" && now.Before(c.expiry) {
		return c.token, nil
	}

	token, expiry, err := c.exchange(ctx)
	if err != nil {
		if c.cfg.StrictAuth {
			return "", err
		}
		c.log.Warn("token exchange failed, using ephemeral fallback token", zap.Error(err))
		if c.metrics != nil {
			c.metrics.TokenFallbacks.Inc()
		}
		token = fallbackToken()
		ttl := c.cfg.FallbackTTL
		if ttl <= 0 {
			ttl = time.Hour
		}
		expiry = now.Add(ttl)
		c.fallback = true
	} else {
		c.fallback = false
	}

	c.token = token
	c.expiry = expiry
	return c.token, nil
}

// AuthHeader returns the Authorization header value for the current token.
func (c *TokenCache) AuthHeader(ctx context.Context) (string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}

// Fallback reports whether the cached token is locally generated.
func (c *TokenCache) Fallback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallback
}

func (c *TokenCache) exchange(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	if scope := strings.TrimSpace(c.cfg.Scope); scope != "" {
		form.Set("scope", scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", time.Time{}, fmt.Errorf("%w: token endpoint returned %d", ErrTokenExchange, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty access_token", ErrTokenExchange)
	}

	ttl := time.Duration(payload.ExpiresIn) * time.Second
	if ttl <= expirySkew {
		ttl = time.Hour
	}
	expiry := c.clock.Now(ctx).Add(ttl - expirySkew)
	return payload.AccessToken, expiry, nil
}

func fallbackToken() string {
	return "eph-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
