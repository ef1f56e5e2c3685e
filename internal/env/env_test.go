package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleSection struct {
	Timezone  string `env:"TEST_TIMEZONE"`
	validated bool
}

func (s *scheduleSection) Validate() error {
	s.validated = true
	if s.Timezone == "Nowhere/Land" {
		return errors.New("unknown timezone")
	}
	return nil
}

type testConfig struct {
	Host     string        `env:"TEST_HOST"`
	Port     int           `env:"TEST_PORT"`
	Enabled  bool          `env:"TEST_ENABLED"`
	Interval time.Duration `env:"TEST_INTERVAL"`
	Rate     float64       `env:"TEST_RATE"`
	Types    []string      `env:"TEST_TYPES"`
	Untagged string
	Schedule scheduleSection
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_HOST", "example.com")
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_ENABLED", "true")
	t.Setenv("TEST_INTERVAL", "1m30s")
	t.Setenv("TEST_RATE", "2.5")
	t.Setenv("TEST_TYPES", "image/jpeg, image/png,,")
	t.Setenv("TEST_TIMEZONE", "America/Chicago")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Interval)
	assert.InDelta(t, 2.5, cfg.Rate, 1e-9)
	assert.Equal(t, []string{"image/jpeg", "image/png"}, cfg.Types)
	assert.Empty(t, cfg.Untagged)
	assert.Equal(t, "America/Chicago", cfg.Schedule.Timezone)
	assert.True(t, cfg.Schedule.validated)
}

func TestLoad_UnsetLeavesZeroValues(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Empty(t, cfg.Host)
	assert.Zero(t, cfg.Port)
	assert.Nil(t, cfg.Types)
	assert.True(t, cfg.Schedule.validated, "nested validators run even when nothing is set")
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_PORT", "eighty")

	var cfg testConfig
	err := Load(&cfg)

	var invalid ErrInvalidValue
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "TEST_PORT", invalid.EnvVar)
	assert.Equal(t, "Port", invalid.Field)
}

func TestLoad_NestedValidationFails(t *testing.T) {
	t.Setenv("TEST_TIMEZONE", "Nowhere/Land")

	var cfg testConfig
	assert.EqualError(t, Load(&cfg), "unknown timezone")
}

func TestLoad_Required(t *testing.T) {
	type required struct {
		Bucket string `env:"TEST_BUCKET" required:"true"`
	}

	var cfg required
	err := Load(&cfg)
	var missing ErrMissingRequired
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "TEST_BUCKET", missing.EnvVar)

	t.Setenv("TEST_BUCKET", "")
	require.ErrorAs(t, Load(&cfg), &missing)

	t.Setenv("TEST_BUCKET", "photos")
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "photos", cfg.Bucket)
}

func TestLoad_RejectsNonStructPointer(t *testing.T) {
	var cfg testConfig
	var notPointer ErrNotStructPointer

	require.ErrorAs(t, Load(cfg), &notPointer)
	n := 3
	require.ErrorAs(t, Load(&n), &notPointer)
}

func TestLoad_UnsupportedType(t *testing.T) {
	type unsupported struct {
		Weights []int `env:"TEST_WEIGHTS"`
	}
	t.Setenv("TEST_WEIGHTS", "1,2")

	var cfg unsupported
	err := Load(&cfg)
	var unsupportedErr ErrUnsupportedType
	require.ErrorAs(t, err, &unsupportedErr)
}
