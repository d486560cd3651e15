package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.UTC, cfg.Academy.Timezone)
	assert.Equal(t, 10.0, cfg.Mushaf.PositionTolerance)
	assert.Equal(t, 3, cfg.Mushaf.RepeatOffenderThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Mushaf.CacheTTL)
	assert.Equal(t, "notifications", cfg.Notifications.ChannelPrefix)
	assert.Equal(t, "0 2 * * *", cfg.Assignments.ArchiveSchedule)
	assert.Equal(t, 720*time.Hour, cfg.Assignments.ArchiveAfter)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ACADEMY_TIMEZONE", "Asia/Jakarta")
	t.Setenv("MUSHAF_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.Academy.Timezone.String())
	assert.Equal(t, 90*time.Second, cfg.Mushaf.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestParseHelpersFallBack(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, time.UTC, parseLocation("Not/AZone"))
	assert.Nil(t, splitAndTrim(""))
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
