package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvGithubToken is the environment variable name for the GitHub API token
	EnvGithubToken = "MIRROR_GITHUB_TOKEN"

	// EnvWebhookSecret is the environment variable name for the webhook
	// signing secret
	EnvWebhookSecret = "MIRROR_WEBHOOK_SECRET"
)

// Config represents the application configuration
type Config struct {
	// GitHub API token for authentication (optional, can be set via MIRROR_GITHUB_TOKEN env var)
	GitHubToken string `json:"github_token"`

	// Organization whose repositories and project boards get mirrored
	Organization string `json:"organization"`

	// Path to the SQLite database file
	DatabasePath string `json:"database_path"`

	// Address the webhook receiver listens on
	ListenAddr string `json:"listen_addr"`

	// Secret GitHub signs webhook deliveries with (optional, can be set
	// via MIRROR_WEBHOOK_SECRET env var). Empty disables verification.
	WebhookSecret string `json:"webhook_secret"`

	// Path for the rotated log file. Empty logs to stderr only.
	LogPath string `json:"log_path"`

	// DisableTimelines skips timeline fetches and cross-reference data
	DisableTimelines bool `json:"disable_timelines"`

	// DisableFullRefresh skips the hourly full re-sync
	DisableFullRefresh bool `json:"disable_full_refresh"`
}

// LoadConfig loads the configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Check for secrets in environment variables
	if envToken := os.Getenv(EnvGithubToken); envToken != "" {
		config.GitHubToken = envToken
	}
	if envSecret := os.Getenv(EnvWebhookSecret); envSecret != "" {
		config.WebhookSecret = envSecret
	}

	// Set default database path if not specified
	if config.DatabasePath == "" {
		config.DatabasePath = "github_mirror.db"
	}

	// Make database path absolute if it's relative
	if !filepath.IsAbs(config.DatabasePath) {
		configDir := filepath.Dir(path)
		config.DatabasePath = filepath.Join(configDir, config.DatabasePath)
	}

	// Set default listen address if not specified
	if config.ListenAddr == "" {
		config.ListenAddr = ":8090"
	}

	return &config, nil
}

// SaveConfig saves the configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a default configuration file if it doesn't exist
func CreateDefaultConfig(path string) error {
	// Check if the file already exists
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, don't overwrite
	}

	// Create default config
	config := &Config{
		GitHubToken:  "",
		Organization: "example-org",
		DatabasePath: "github_mirror.db",
		ListenAddr:   ":8090",
	}

	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save the config
	return SaveConfig(config, path)
}
