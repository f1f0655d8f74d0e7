package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subkit/pkg/config"
)

type testConfig struct {
	BaseURL string        `env:"SUBKIT_TEST_BASE_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"SUBKIT_TEST_TIMEOUT" envDefault:"30s"`
	Token   string        `env:"SUBKIT_TEST_TOKEN"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "http://localhost:5000", cfg.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Empty(t, cfg.Token)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("SUBKIT_TEST_BASE_URL", "https://api.example.com")
		t.Setenv("SUBKIT_TEST_TIMEOUT", "5s")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("invalid value reported", func(t *testing.T) {
		t.Setenv("SUBKIT_TEST_TIMEOUT", "not-a-duration")

		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Setenv("SUBKIT_TEST_TIMEOUT", "bogus")

	assert.Panics(t, func() {
		var cfg testConfig
		config.MustLoad(&cfg)
	})
}
