package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where cortex stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your cortex instance.
	InstanceURL string

	// Secret is the signing secret for session tokens.
	Secret string

	// Spotify OAuth configuration
	SpotifyClientID     string // CORTEX_SPOTIFY_CLIENT_ID
	SpotifyClientSecret string // CORTEX_SPOTIFY_CLIENT_SECRET
	SpotifyRedirectURL  string // CORTEX_SPOTIFY_REDIRECT_URL

	// Qloo recommendation API
	QlooAPIKey  string // CORTEX_QLOO_API_KEY
	QlooBaseURL string // CORTEX_QLOO_BASE_URL

	// Insight LLM configuration
	InsightProvider string // CORTEX_INSIGHT_PROVIDER (default: gemini)
	GeminiAPIKey    string // CORTEX_GEMINI_API_KEY
	GeminiModel     string // CORTEX_GEMINI_MODEL (default: gemini-1.5-flash)
	OpenAIAPIKey    string // CORTEX_OPENAI_API_KEY
	OpenAIBaseURL   string // CORTEX_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	OpenAIModel     string // CORTEX_OPENAI_MODEL (default: gpt-4o-mini)

	// Voice proxy
	ElevenLabsAPIKey string // CORTEX_ELEVENLABS_API_KEY

	// Media search
	YouTubeAPIKey     string // CORTEX_YOUTUBE_API_KEY
	GoogleBooksAPIKey string // CORTEX_GOOGLE_BOOKS_API_KEY

	// Notification delivery (Resend)
	ResendAPIKey string // CORTEX_RESEND_API_KEY
	NotifyFrom   string // CORTEX_NOTIFY_FROM
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsInsightEnabled returns true if at least one insight provider is configured.
func (p *Profile) IsInsightEnabled() bool {
	return p.GeminiAPIKey != "" || p.OpenAIAPIKey != ""
}

// IsSpotifyEnabled returns true if the Spotify OAuth app is configured.
func (p *Profile) IsSpotifyEnabled() bool {
	return p.SpotifyClientID != "" && p.SpotifyClientSecret != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from CORTEX_* environment variables.
func (p *Profile) FromEnv() {
	p.SpotifyClientID = os.Getenv("CORTEX_SPOTIFY_CLIENT_ID")
	p.SpotifyClientSecret = os.Getenv("CORTEX_SPOTIFY_CLIENT_SECRET")
	p.SpotifyRedirectURL = os.Getenv("CORTEX_SPOTIFY_REDIRECT_URL")

	p.QlooAPIKey = os.Getenv("CORTEX_QLOO_API_KEY")
	p.QlooBaseURL = getEnvOrDefault("CORTEX_QLOO_BASE_URL", "https://hackathon.api.qloo.com")

	p.InsightProvider = getEnvOrDefault("CORTEX_INSIGHT_PROVIDER", "gemini")
	p.GeminiAPIKey = os.Getenv("CORTEX_GEMINI_API_KEY")
	p.GeminiModel = getEnvOrDefault("CORTEX_GEMINI_MODEL", "gemini-1.5-flash")
	p.OpenAIAPIKey = os.Getenv("CORTEX_OPENAI_API_KEY")
	p.OpenAIBaseURL = getEnvOrDefault("CORTEX_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.OpenAIModel = getEnvOrDefault("CORTEX_OPENAI_MODEL", "gpt-4o-mini")

	p.ElevenLabsAPIKey = os.Getenv("CORTEX_ELEVENLABS_API_KEY")

	p.YouTubeAPIKey = os.Getenv("CORTEX_YOUTUBE_API_KEY")
	p.GoogleBooksAPIKey = os.Getenv("CORTEX_GOOGLE_BOOKS_API_KEY")

	p.ResendAPIKey = os.Getenv("CORTEX_RESEND_API_KEY")
	p.NotifyFrom = getEnvOrDefault("CORTEX_NOTIFY_FROM", "Cortex <notifications@cortex.app>")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "cortex")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/cortex"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("cortex_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
