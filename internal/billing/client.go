package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	auditdomain "github.com/billforgelabs/billforge/internal/audit/domain"
	"github.com/billforgelabs/billforge/internal/config"
	"github.com/billforgelabs/billforge/internal/credential"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("billing: base URL not configured")
	ErrRemote        = errors.New("billing: remote call failed")
)

const tiersBulkEndpoint = "/tiers/bulk"

type Params struct {
	fx.In

	Config  config.Config
	Tokens  *credential.TokenCache
	Auditor auditdomain.Recorder
	Log     *zap.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *credential.TokenCache
	auditor    auditdomain.Recorder
	log        *zap.Logger
}

func NewClient(p Params) *Client {
	timeout := p.Config.Billing.BulkTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(p.Config.Billing.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     p.Tokens,
		auditor:    p.Auditor,
		log:        p.Log.Named("billing.client"),
	}
}

// BulkCreateTiers submits new tiers in a single batch. The response carries
// one result per submitted item, addressable by index.
func (c *Client) BulkCreateTiers(ctx context.Context, tiers []ExternalTier) (*BulkResponse, error) {
	return c.bulk(ctx, http.MethodPost, tiers)
}

// BulkUpdateTiers submits updates for tiers already known to the billing
// system.
func (c *Client) BulkUpdateTiers(ctx context.Context, items []UpdateItem) (*BulkResponse, error) {
	return c.bulk(ctx, http.MethodPut, items)
}

func (c *Client) bulk(ctx context.Context, method string, payload any) (*BulkResponse, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + tiersBulkEndpoint
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	authHeader, err := c.tokens.AuthHeader(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now().UTC()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.audit(ctx, method, url, string(body), "", 0, started)
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	c.audit(ctx, method, url, string(body), string(respBody), resp.StatusCode, started)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrRemote, method, tiersBulkEndpoint, resp.StatusCode)
	}

	var out BulkResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	return &out, nil
}

func (c *Client) audit(ctx context.Context, method, url, reqBody, respBody string, status int, started time.Time) {
	c.auditor.Record(ctx, auditdomain.Entry{
		Method:          method,
		URL:             url,
		Endpoint:        tiersBulkEndpoint,
		RequestSummary:  reqBody,
		ResponseSummary: respBody,
		StatusCode:      status,
		Duration:        time.Since(started),
		OccurredAt:      started,
	})
}
