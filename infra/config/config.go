package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL     = "https://api.roadmud.cn"
	defaultPageSize   = 20
	defaultRatePerSec = 5.0
	defaultLogLevel   = "info"
)

// Config holds application-level configuration.
type Config struct {
	APIURL     string  // Backend base URL, no trailing slash
	TokenPath  string  // Path to file containing the access token; missing means anonymous
	PageSize   int     // Posts per page on the full feed
	LogFile    string  // Diagnostic log sink; the TUI owns stdout
	LogLevel   string  // debug, info, warn or error
	RatePerSec float64 // Client-side request budget
	StatePath  string  // Persisted UI preferences
}

// Load reads configuration from environment variables, after merging an
// optional .env file from the working directory. Variables already set in
// the environment win over .env entries.
//
//	ROADMUD_API_URL       Backend URL (default: https://api.roadmud.cn)
//	ROADMUD_TOKEN         Path to token file (default: ~/.config/roadmud/token)
//	ROADMUD_PAGE_SIZE     Posts per page (default: 20)
//	ROADMUD_LOG_FILE      Log file (default: ~/.config/roadmud/debug.log)
//	ROADMUD_LOG_LEVEL     Log level (default: info)
//	ROADMUD_RATE_PER_SEC  Requests per second (default: 5)
//	ROADMUD_STATE         UI state file (default: ~/.config/roadmud/ui_state.json)
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}

	apiURL, err := parseAPIURL(envOr("ROADMUD_API_URL", defaultAPIURL))
	if err != nil {
		return Config{}, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "roadmud")

	pageSize := defaultPageSize
	if v := os.Getenv("ROADMUD_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return Config{}, fmt.Errorf("invalid ROADMUD_PAGE_SIZE: must be 1-100")
		}
		pageSize = n
	}

	rps := defaultRatePerSec
	if v := os.Getenv("ROADMUD_RATE_PER_SEC"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return Config{}, fmt.Errorf("invalid ROADMUD_RATE_PER_SEC: must be a positive number")
		}
		rps = f
	}

	level := strings.ToLower(envOr("ROADMUD_LOG_LEVEL", defaultLogLevel))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid ROADMUD_LOG_LEVEL: %q", level)
	}

	return Config{
		APIURL:     apiURL,
		TokenPath:  envOr("ROADMUD_TOKEN", filepath.Join(dir, "token")),
		PageSize:   pageSize,
		LogFile:    envOr("ROADMUD_LOG_FILE", filepath.Join(dir, "debug.log")),
		LogLevel:   level,
		RatePerSec: rps,
		StatePath:  envOr("ROADMUD_STATE", filepath.Join(dir, "ui_state.json")),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parseAPIURL accepts absolute https URLs, and plain http for loopback
// hosts used during local development.
func parseAPIURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid ROADMUD_API_URL: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid ROADMUD_API_URL: http is only allowed for localhost")
		}
	default:
		return "", fmt.Errorf("invalid ROADMUD_API_URL: unsupported scheme %q", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
