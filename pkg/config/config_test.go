package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limbo/streaks/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STREAKS_TEST_ADDR=:9090\nSTREAKS_TEST_TTL=90m\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)

	cfg := config.New()
	t.Cleanup(func() {
		os.Unsetenv("STREAKS_TEST_ADDR")
		os.Unsetenv("STREAKS_TEST_TTL")
	})

	assert.Equal(t, ":9090", cfg.GetString("STREAKS_TEST_ADDR"))
	assert.Equal(t, ":9090", cfg.GetStringOr("STREAKS_TEST_ADDR", ":8080"))
	assert.Equal(t, "fallback", cfg.GetStringOr("STREAKS_TEST_MISSING", "fallback"))
	assert.Equal(t, 90*time.Minute, cfg.GetDurationOr("STREAKS_TEST_TTL", time.Hour))

	t.Setenv("STREAKS_TEST_BAD_TTL", "soon")
	assert.Equal(t, time.Hour, cfg.GetDurationOr("STREAKS_TEST_BAD_TTL", time.Hour))

	t.Setenv("CALENDAR_TIMEZONE", "")
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	t.Setenv("CALENDAR_TIMEZONE", "UTC")
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	t.Setenv("CALENDAR_TIMEZONE", "Mars/Olympus")
	_, err = cfg.Location()
	assert.Error(t, err)
}
