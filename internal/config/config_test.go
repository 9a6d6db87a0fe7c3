package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadForTest(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := loadForTest(t)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 12, cfg.JWT.ExpirationHours)
	assert.Equal(t, "lending-engine", cfg.JWT.Issuer)
	assert.Equal(t, 5*time.Minute, cfg.Redis.OutstandingTTL)
	assert.Equal(t, "0 5 0 * * *", cfg.Scheduler.SweepSpec)
	assert.Equal(t, "0 30 0 1 * *", cfg.Scheduler.SalarySpec)
	assert.Equal(t, "10.00", cfg.Business.DefaultInterestRate)
	assert.Equal(t, 15, cfg.Business.DefaultDurationDays)
	assert.True(t, cfg.GetDefaultBaseSalary().Equal(decimal.RequireFromString("50000.00")))
	assert.True(t, cfg.GetDefaultCommissionRate().Equal(decimal.RequireFromString("5.00")))
}

func TestOutstandingTTLOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OUTSTANDING_CACHE_TTL", "90s")

	cfg := loadForTest(t)

	// The cache TTL is a Redis concern and rides on the Redis config
	assert.Equal(t, 90*time.Second, cfg.Redis.OutstandingTTL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateRejectsBadSalaryDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	for _, tt := range []struct {
		key string
		val string
	}{
		{"DEFAULT_BASE_SALARY", "fifty-thousand"},
		{"DEFAULT_COMMISSION_RATE", "5%"},
	} {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			viper.Reset()
			t.Cleanup(viper.Reset)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
