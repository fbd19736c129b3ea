package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/corethink/backend/pkg/httpx"
)

type Config struct {
	JWTSecret string // Required: HMAC secret for session tokens
	Issuer    string // Optional: issuer claim for tokens (default: corethink)
	Audience  string // Optional: audience claim for tokens (default: corethink-web)

	AnthropicAPIKey string // Required: model API key
	AnthropicModel  string // Optional: model override

	VercelToken  string // Required: hosting API token
	VercelTeamID string // Optional: team-scoped hosting accounts

	GoogleClientID     string // Optional: enables Google login when set
	GoogleClientSecret string
	GithubClientID     string // Optional: enables GitHub login when set
	GithubClientSecret string
	OAuthRedirectBase  string // Base URL this service is reachable at (for provider callbacks)

	FrontendURL  string   // Where the browser lands after login
	CORSOrigins  []string // Allowed front-end origins
	DatabaseFile string   // Path to SQLite database file (default: ./corethink.db)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret: os.Getenv("JWT_SECRET"),
		Issuer:    getEnvOrDefault("TOKEN_ISSUER", "corethink"),
		Audience:  getEnvOrDefault("TOKEN_AUDIENCE", "corethink-web"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  os.Getenv("ANTHROPIC_MODEL"),

		VercelToken:  os.Getenv("VERCEL_TOKEN"),
		VercelTeamID: os.Getenv("VERCEL_TEAM_ID"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GithubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GithubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		OAuthRedirectBase:  getEnvOrDefault("OAUTH_REDIRECT_BASE", "http://localhost:8080"),

		FrontendURL:  getEnvOrDefault("CLIENT_URL", "http://localhost:3000"),
		CORSOrigins:  httpx.ParseSpaceDelimitedFields(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "corethink.db"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate fails startup on missing required settings. There is no
// fallback signing secret: running without one silently is how a dev
// default ends up signing production sessions.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.AnthropicAPIKey == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY is required"))
	}
	if c.VercelToken == "" {
		errs = append(errs, errors.New("VERCEL_TOKEN is required"))
	}

	googleSet := c.GoogleClientID != "" || c.GoogleClientSecret != ""
	if googleSet && (c.GoogleClientID == "" || c.GoogleClientSecret == "") {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together"))
	}
	githubSet := c.GithubClientID != "" || c.GithubClientSecret != ""
	if githubSet && (c.GithubClientID == "" || c.GithubClientSecret == "") {
		errs = append(errs, errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set together"))
	}
	if !googleSet && !githubSet {
		errs = append(errs, errors.New("at least one OAuth provider must be configured"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// RedirectURL builds the provider callback URL for the given provider.
func (c Config) RedirectURL(provider string) string {
	return fmt.Sprintf("%s/v1/auth/%s/callback", c.OAuthRedirectBase, provider)
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
