package securityalerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenProvider supplies the shield tier bearer token.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("access token is empty")
	}
	return string(t), nil
}

// SecretSource loads the signing secret for minted tokens.
type SecretSource interface {
	Secret(ctx context.Context) (string, error)
}

// SecretFunc adapts a function to SecretSource.
type SecretFunc func(ctx context.Context) (string, error)

func (f SecretFunc) Secret(ctx context.Context) (string, error) {
	return f(ctx)
}

// JWTProvider mints HS256 tokens and reuses each one until it is close to
// expiry.
type JWTProvider struct {
	secrets SecretSource
	issuer  string
	subject string
	ttl     time.Duration
	leeway  time.Duration
	now     func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// JWTOption configures a JWTProvider.
type JWTOption func(*JWTProvider)

// WithTTL sets the token lifetime. Defaults to 15 minutes.
func WithTTL(ttl time.Duration) JWTOption {
	return func(p *JWTProvider) {
		p.ttl = ttl
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) JWTOption {
	return func(p *JWTProvider) {
		p.now = now
	}
}

// NewJWTProvider returns a provider signing tokens for subject.
func NewJWTProvider(secrets SecretSource, issuer, subject string, opts ...JWTOption) *JWTProvider {
	p := &JWTProvider{
		secrets: secrets,
		issuer:  issuer,
		subject: subject,
		ttl:     15 * time.Minute,
		leeway:  30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AccessToken returns the cached token or mints a new one.
func (p *JWTProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.token != "" && now.Add(p.leeway).Before(p.expires) {
		return p.token, nil
	}

	secret, err := p.secrets.Secret(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load signing secret: %w", err)
	}
	if secret == "" {
		return "", errors.New("signing secret is empty")
	}

	expires := now.Add(p.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    p.issuer,
		Subject:   p.subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	p.token = signed
	p.expires = expires
	return signed, nil
}
