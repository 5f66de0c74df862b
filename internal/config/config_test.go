package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Stage)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.LockTTL)
	assert.Equal(t, "https://app.hyperliquid.xyz", cfg.Connect.PartnerOrigin)
	assert.Equal(t, "hyperliquid_referral_consent", cfg.Connect.ConsentType)
	assert.False(t, cfg.Connect.FailOnMetricsError)
	assert.False(t, cfg.SecurityAlerts.Enabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envFrom(map[string]string{
		"STAGE":                          "prod",
		"SECURITY_ALERTS_API_ENABLED":    "true",
		"SECURITY_ALERTS_API_URL":        "https://security-alerts.example.com",
		"SECURITY_ALERTS_API_URL_SHIELD": "https://shield.example.com",
		"CORS_ALLOWED_ORIGINS":           "https://a.example, https://b.example",
		"ORIGIN_LOCK_TTL":                "30s",
		"WALLET_ACCOUNTS":                "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"FAIL_ON_METRICS_ERROR":          "true",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.SecurityAlerts.Enabled)
	assert.Equal(t, "https://shield.example.com", cfg.SecurityAlerts.ShieldURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Len(t, cfg.Connect.Accounts, 1)
	assert.True(t, cfg.Connect.FailOnMetricsError)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "enabled security alerts without a host",
			env:  map[string]string{"SECURITY_ALERTS_API_ENABLED": "true"},
			want: "URL",
		},
		{
			name: "unknown stage",
			env:  map[string]string{"STAGE": "qa"},
			want: "Stage",
		},
		{
			name: "malformed boolean",
			env:  map[string]string{"SECURITY_ALERTS_API_ENABLED": "yes please"},
			want: "SECURITY_ALERTS_API_ENABLED",
		},
		{
			name: "malformed duration",
			env:  map[string]string{"ORIGIN_LOCK_TTL": "forever"},
			want: "ORIGIN_LOCK_TTL",
		},
		{
			name: "invalid account",
			env:  map[string]string{"WALLET_ACCOUNTS": "0x1234"},
			want: "Accounts",
		},
		{
			name: "zero metrics workers",
			env:  map[string]string{"METRICS_WORKERS": "0"},
			want: "Workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(envFrom(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
