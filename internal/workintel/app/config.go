package app

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/workintel/pkg/httpx"
	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL string // Public URL used for OAuth callbacks and invite links (default: http://localhost:8080)

	DatabaseFile  string // Path to SQLite database file (default: ./workintel.db)
	PepperFile    string // Path to file containing pepper for password hashing (default: ./pepper)
	MasterKey     string // Optional: credential encryption key
	MasterKeyPath string // Optional: file holding the credential encryption key, wins over MasterKey
	StateSecret   string // Optional: OAuth state signing secret (random per process when unset)

	SessionTTL    time.Duration // Login session lifetime (default: 720h)
	InviteTTL     time.Duration // Invite link lifetime (default: 168h)
	BriefCacheTTL time.Duration // How long a generated brief is reused (default: 15m)

	GitHubClientID        string
	GitHubClientSecret    string
	AtlassianClientID     string
	AtlassianClientSecret string
	GoogleClientID        string
	GoogleClientSecret    string
	NylasClientID         string
	NylasAPIKey           string
	NylasAPIURI           string // Region API root (default: https://api.us.nylas.com)

	// Optional: self-hosted Jira sites API tokens may use, comma separated.
	// Jira Cloud (*.atlassian.net, *.jira.com) is always allowed.
	JiraAllowedSites []string

	OpenAIAPIKey  string // Optional: without it summaries use the built-in fallback text
	OpenAIModel   string // (default: gpt-4o-mini)
	OpenAIBaseURL string // Optional: OpenAI-compatible endpoint

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the environment, after loading an optional .env file.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	envFile := getEnvOrDefault("WORKINTEL_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:       getEnvOrDefault("WORKINTEL_BASE_URL", "http://localhost:8080"),
		DatabaseFile:  getEnvOrDefault("WORKINTEL_DATABASE_FILE", "workintel.db"),
		PepperFile:    getEnvOrDefault("WORKINTEL_PEPPER_FILE", "pepper"),
		MasterKey:     os.Getenv("WORKINTEL_MASTER_KEY"),
		MasterKeyPath: os.Getenv("WORKINTEL_MASTER_KEY_PATH"),
		StateSecret:   os.Getenv("WORKINTEL_STATE_SECRET"),

		SessionTTL:    getEnvDurationOrDefault("WORKINTEL_SESSION_TTL", 30*24*time.Hour),
		InviteTTL:     getEnvDurationOrDefault("WORKINTEL_INVITE_TTL", 7*24*time.Hour),
		BriefCacheTTL: getEnvDurationOrDefault("WORKINTEL_BRIEF_CACHE_TTL", 15*time.Minute),

		GitHubClientID:        os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret:    os.Getenv("GITHUB_CLIENT_SECRET"),
		AtlassianClientID:     os.Getenv("ATLASSIAN_CLIENT_ID"),
		AtlassianClientSecret: os.Getenv("ATLASSIAN_CLIENT_SECRET"),
		GoogleClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		NylasClientID:         os.Getenv("NYLAS_CLIENT_ID"),
		NylasAPIKey:           os.Getenv("NYLAS_API_KEY"),
		NylasAPIURI:           getEnvOrDefault("NYLAS_API_URI", "https://api.us.nylas.com"),
		JiraAllowedSites:      httpx.SplitList(os.Getenv("WORKINTEL_JIRA_ALLOWED_SITES")),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg, nil
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c Config) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
