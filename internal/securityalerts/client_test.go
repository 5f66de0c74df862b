package securityalerts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyphera/wallet-rpc/internal/httpclient"
)

type countingTokens struct {
	calls atomic.Int32
	token string
}

func (c *countingTokens) AccessToken(context.Context) (string, error) {
	c.calls.Add(1)
	return c.token, nil
}

func newServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("X-Auth-Seen", r.Header.Get("Authorization"))
		w.Header().Set("X-Path-Seen", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient_RequiresURLWhenEnabled(t *testing.T) {
	_, err := NewClient(Config{Enabled: true})
	assert.ErrorIs(t, err, ErrConfiguration)

	c, err := NewClient(Config{})
	require.NoError(t, err)
	assert.False(t, c.IsEnabled())
}

func TestValidate_StandardHost(t *testing.T) {
	var hits atomic.Int32
	var gotBody Request
	var gotAuth, gotPath, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"result_type":"Benign","reason":""}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{Enabled: true, URL: server.URL})
	require.NoError(t, err)

	req := Request{Method: "eth_sendTransaction", Params: []interface{}{map[string]interface{}{"to": "0x1"}}}
	got, err := c.Validate(context.Background(), "0x1", req, nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"result_type":"Benign","reason":""}`, string(got))
	assert.Equal(t, "/validate/0x1", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "eth_sendTransaction", gotBody.Method)
	assert.Equal(t, int32(1), hits.Load())
}

func TestValidate_ShieldHost(t *testing.T) {
	var gotAuth, gotPath string
	shield := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"shield":true}`))
	}))
	defer shield.Close()

	c, err := NewClient(Config{Enabled: true, URL: "http://standard.invalid", ShieldURL: shield.URL})
	require.NoError(t, err)

	got, err := c.Validate(context.Background(), "0x89", Request{Method: "eth_sign"},
		&ShieldParams{Status: ShieldEnabled(true), Tokens: StaticToken("tkn")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shield":true}`, string(got))
	assert.Equal(t, "Bearer tkn", gotAuth)
	assert.Equal(t, "/validate/0x89", gotPath)
}

func TestValidate_ShieldWithoutTokenProvider(t *testing.T) {
	var hits atomic.Int32
	server := newServer(t, http.StatusOK, `{}`, &hits)

	c, err := NewClient(Config{Enabled: true, URL: server.URL, ShieldURL: server.URL})
	require.NoError(t, err)

	_, err = c.Validate(context.Background(), "0x1", Request{Method: "eth_sign"},
		&ShieldParams{Status: ShieldEnabled(true)})
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Zero(t, hits.Load())
}

func TestValidate_ShieldDisabledIgnoresTokens(t *testing.T) {
	var hits atomic.Int32
	server := newServer(t, http.StatusOK, `{}`, &hits)
	tokens := &countingTokens{token: "unused"}

	c, err := NewClient(Config{Enabled: true, URL: server.URL})
	require.NoError(t, err)

	_, err = c.Validate(context.Background(), "0x1", Request{Method: "eth_sign"},
		&ShieldParams{Status: ShieldEnabled(false), Tokens: tokens})
	require.NoError(t, err)
	assert.Zero(t, tokens.calls.Load())
	assert.Equal(t, int32(1), hits.Load())
}

func TestValidate_MissingShieldHost(t *testing.T) {
	tokens := &countingTokens{token: "t"}
	c, err := NewClient(Config{Enabled: true, URL: "http://standard.invalid"})
	require.NoError(t, err)

	_, err = c.Validate(context.Background(), "0x1", Request{Method: "eth_sign"},
		&ShieldParams{Status: ShieldEnabled(true), Tokens: tokens})
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Zero(t, tokens.calls.Load())
}

func TestValidate_NonSuccessStatusIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := newServer(t, http.StatusBadGateway, `bad gateway`, &hits)

	c, err := NewClient(Config{Enabled: true, URL: server.URL},
		httpclient.WithRetryConfig(nil))
	require.NoError(t, err)

	_, err = c.Validate(context.Background(), "0x1", Request{Method: "eth_sign"}, nil)
	require.Error(t, err)
	assert.EqualError(t, err, "security alerts API request failed with status: 502")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)

	var httpErr *httpclient.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, int32(1), hits.Load())
}

func TestValidate_UnfollowedRedirectIsNotSuccess(t *testing.T) {
	var hits atomic.Int32
	server := newServer(t, http.StatusMultipleChoices, `{"result_type":"Benign"}`, &hits)

	c, err := NewClient(Config{Enabled: true, URL: server.URL})
	require.NoError(t, err)

	body, err := c.Validate(context.Background(), "0x1", Request{Method: "eth_sign"}, nil)
	assert.Nil(t, body)
	assert.EqualError(t, err, "security alerts API request failed with status: 300")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusMultipleChoices, statusErr.StatusCode)
	assert.Equal(t, `{"result_type":"Benign"}`, statusErr.Body)
	assert.Equal(t, int32(1), hits.Load())
}

func TestValidate_InvalidJSON(t *testing.T) {
	var hits atomic.Int32
	server := newServer(t, http.StatusOK, `not json`, &hits)

	c, err := NewClient(Config{Enabled: true, URL: server.URL})
	require.NoError(t, err)

	_, err = c.Validate(context.Background(), "0x1", Request{Method: "eth_sign"}, nil)
	assert.Error(t, err)
}

type failingStatus struct{}

func (failingStatus) IsShieldEnabled(context.Context) (bool, error) {
	return false, errors.New("subscription lookup failed")
}

func TestValidate_ShieldStatusError(t *testing.T) {
	c, err := NewClient(Config{Enabled: true, URL: "http://standard.invalid"})
	require.NoError(t, err)

	_, err = c.Validate(context.Background(), "0x1", Request{Method: "eth_sign"}, &ShieldParams{Status: failingStatus{}})
	assert.ErrorContains(t, err, "subscription lookup failed")
}

func TestJWTProvider_CachesUntilNearExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var loads atomic.Int32
	secret := SecretFunc(func(context.Context) (string, error) {
		loads.Add(1)
		return "signing-secret", nil
	})

	p := NewJWTProvider(secret, "wallet-rpc", "shield", WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	first, err := p.AccessToken(context.Background())
	require.NoError(t, err)

	now = now.Add(20 * time.Second)
	second, err := p.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), loads.Load())

	// Within the leeway window the token is re-minted.
	now = now.Add(15 * time.Second)
	third, err := p.AccessToken(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
	assert.Equal(t, int32(2), loads.Load())

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(third, claims)
	require.NoError(t, err)
	assert.Equal(t, "wallet-rpc", claims.Issuer)
	assert.Equal(t, "shield", claims.Subject)
	assert.Equal(t, now.Add(time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestJWTProvider_SecretErrors(t *testing.T) {
	p := NewJWTProvider(SecretFunc(func(context.Context) (string, error) { return "", nil }), "i", "s")
	_, err := p.AccessToken(context.Background())
	assert.EqualError(t, err, "signing secret is empty")

	p = NewJWTProvider(SecretFunc(func(context.Context) (string, error) { return "", errors.New("boom") }), "i", "s")
	_, err = p.AccessToken(context.Background())
	assert.ErrorContains(t, err, "boom")
}

func TestStaticToken(t *testing.T) {
	_, err := StaticToken("").AccessToken(context.Background())
	assert.Error(t, err)

	tok, err := StaticToken("abc").AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
}
