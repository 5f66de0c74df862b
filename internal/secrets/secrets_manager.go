// Package secrets resolves secrets from AWS Secrets Manager with a plain
// value fallback for local runs.
package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/logger"
)

// SecretsManagerAPI is the subset of the Secrets Manager client in use.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager fetches secret strings.
type Manager struct {
	svc SecretsManagerAPI
}

// NewManager wraps an existing client.
func NewManager(svc SecretsManagerAPI) *Manager {
	return &Manager{svc: svc}
}

// NewManagerFromEnv builds a client from the default AWS configuration chain.
func NewManagerFromEnv(ctx context.Context) (*Manager, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewManager(secretsmanager.NewFromConfig(cfg)), nil
}

// GetSecretString returns the secret stored at secretARN. When the ARN is
// empty or the fetch fails it falls back to fallback, and errors only when
// both are unavailable.
func (m *Manager) GetSecretString(ctx context.Context, secretARN, fallback string) (string, error) {
	if secretARN != "" && m != nil && m.svc != nil {
		result, err := m.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretARN),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			logger.Log.Debug("Fetched secret from Secrets Manager", zap.String("secret_arn", secretARN))
			return *result.SecretString, nil
		}
		logger.Log.Warn("Failed to retrieve secret from Secrets Manager, falling back",
			zap.String("secret_arn", secretARN),
			zap.Error(err))
	}

	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("secret not found in Secrets Manager (%q) and no fallback value set", secretARN)
}

// Source returns a function resolving one secret on every call.
func (m *Manager) Source(secretARN, fallback string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return m.GetSecretString(ctx, secretARN, fallback)
	}
}
