package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("WORKINTEL_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"WORKINTEL_BASE_URL", "PORT", "WORKINTEL_SESSION_TTL", "LOG_FORMAT", "OPENAI_MODEL"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 7*24*time.Hour, cfg.InviteTTL)
	require.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	require.False(t, cfg.SecureCookies())
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"WORKINTEL_BASE_URL=https://intel.example.com\n"+
			"WORKINTEL_INVITE_TTL=90\n"+
			"PORT=9090\n"+
			"WORKINTEL_JIRA_ALLOWED_SITES=*.corp.example, http://jira.lan:8080\n",
	), 0o600))
	t.Setenv("WORKINTEL_ENV_FILE", path)

	// godotenv skips keys that exist, even empty ones, so unset them.
	// t.Setenv restores the previous values afterwards.
	for _, k := range []string{"WORKINTEL_BASE_URL", "WORKINTEL_INVITE_TTL", "WORKINTEL_JIRA_ALLOWED_SITES"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "https://intel.example.com", cfg.BaseURL)
	require.Equal(t, 90*time.Minute, cfg.InviteTTL)
	require.Equal(t, 7070, cfg.Port, "the environment wins over the file")
	require.Equal(t, []string{"*.corp.example", "http://jira.lan:8080"}, cfg.JiraAllowedSites)
	require.True(t, cfg.SecureCookies())
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	require.Equal(t, 45*time.Second, getEnvDurationOrDefault("TEST_DURATION", time.Hour))

	t.Setenv("TEST_DURATION", "garbage")
	require.Equal(t, time.Hour, getEnvDurationOrDefault("TEST_DURATION", time.Hour))
}
