package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bucketdesk/core/config"
)

type parseConfig struct {
	Token   string        `env:"BDTEST_TOKEN,required"`
	MaxAge  time.Duration `env:"BDTEST_MAX_AGE" envDefault:"1h"`
	Origins []string      `env:"BDTEST_ORIGINS" envSeparator:","`
}

func TestParse(t *testing.T) {
	t.Setenv("BDTEST_TOKEN", "secret")
	t.Setenv("BDTEST_ORIGINS", "https://a.example,https://b.example")

	var cfg parseConfig
	require.NoError(t, config.Parse(&cfg))

	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, time.Hour, cfg.MaxAge)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
}

type requiredConfig struct {
	Missing string `env:"BDTEST_DEFINITELY_UNSET,required"`
}

func TestParseRequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BDTEST_DEFINITELY_UNSET")

	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })
}

type cachedConfig struct {
	Value string `env:"BDTEST_CACHED"`
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("BDTEST_CACHED", "first")

	var a cachedConfig
	require.NoError(t, config.Load(&a))
	assert.Equal(t, "first", a.Value)

	t.Setenv("BDTEST_CACHED", "second")

	var b cachedConfig
	require.NoError(t, config.Load(&b))
	assert.Equal(t, "first", b.Value, "cached value is returned")

	var fresh cachedConfig
	require.NoError(t, config.Parse(&fresh))
	assert.Equal(t, "second", fresh.Value)
}
