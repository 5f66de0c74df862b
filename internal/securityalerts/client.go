// Package securityalerts validates JSON-RPC requests against the security
// alerts API before they are signed.
package securityalerts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/httpclient"
	"github.com/cyphera/wallet-rpc/internal/logger"
)

const endpointValidate = "validate"

// ErrConfiguration is returned before any network call when a required host
// or token provider is missing.
var ErrConfiguration = errors.New("security alerts configuration error")

// Config selects the API hosts.
type Config struct {
	Enabled   bool
	URL       string
	ShieldURL string
}

// Request is the JSON-RPC method and params pair sent for validation.
type Request struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// ShieldStatus reports whether the privileged shield tier is active.
type ShieldStatus interface {
	IsShieldEnabled(ctx context.Context) (bool, error)
}

// ShieldEnabled is a fixed ShieldStatus.
type ShieldEnabled bool

func (s ShieldEnabled) IsShieldEnabled(context.Context) (bool, error) {
	return bool(s), nil
}

// ShieldParams are the optional shield tier capabilities.
type ShieldParams struct {
	Status ShieldStatus
	Tokens TokenProvider
}

// StatusError is a non-2xx response from the API.
type StatusError struct {
	StatusCode int
	Body       string
	err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("security alerts API request failed with status: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.err
}

// Client calls the validation endpoint. It never retries.
type Client struct {
	cfg    Config
	http   *httpclient.Client
	logger *zap.Logger
}

// NewClient returns a Client for cfg. An enabled client needs a standard host.
func NewClient(cfg Config, options ...httpclient.ClientOption) (*Client, error) {
	if cfg.Enabled && cfg.URL == "" {
		return nil, fmt.Errorf("%w: security alerts API URL is not set", ErrConfiguration)
	}
	return &Client{
		cfg:    cfg,
		http:   httpclient.New(options...),
		logger: logger.Log,
	}, nil
}

// IsEnabled reports whether the validation API should be used at all.
func (c *Client) IsEnabled() bool {
	return c.cfg.Enabled
}

// Validate posts req to {host}/validate/{chainID} and returns the response
// body verbatim. shield may be nil.
func (c *Client) Validate(ctx context.Context, chainID string, req Request, shield *ShieldParams) (json.RawMessage, error) {
	useShield := false
	if shield != nil && shield.Status != nil {
		enabled, err := shield.Status.IsShieldEnabled(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read shield status")
		}
		useShield = enabled
	}

	host := c.cfg.URL
	if useShield {
		if shield.Tokens == nil {
			return nil, fmt.Errorf("%w: access token provider is required when shield is enabled", ErrConfiguration)
		}
		host = c.cfg.ShieldURL
	}
	if host == "" {
		return nil, fmt.Errorf("%w: security alerts API URL is not set", ErrConfiguration)
	}

	var options []httpclient.RequestOption
	if useShield {
		token, err := shield.Tokens.AccessToken(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get shield access token")
		}
		options = append(options, httpclient.WithBearerToken(token))
	}

	if req.Params == nil {
		req.Params = []interface{}{}
	}

	url := fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(host, "/"), endpointValidate, chainID)
	resp, err := c.http.Post(ctx, url, req, options...)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &StatusError{StatusCode: httpErr.StatusCode, Body: httpErr.Body, err: httpErr}
		}
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var body json.RawMessage
	if err := httpclient.DecodeJSON(resp, &body); err != nil {
		return nil, err
	}

	c.logger.Debug("Validated request with security alerts API",
		zap.String("chain_id", chainID),
		zap.String("method", req.Method),
		zap.Bool("shield", useShield))

	return body, nil
}
