package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Tracker     TrackerConfig `toml:"tracker"`
	Queries     QueriesConfig `toml:"queries"`
	Chart       ChartConfig   `toml:"chart"`
	Report      ReportConfig  `toml:"report"`
	Watch       WatchConfig   `toml:"watch"`
	Logging     LoggingConfig `toml:"logging"`
}

// TrackerConfig selects and configures the bug-tracking backend
type TrackerConfig struct {
	Type            string       `toml:"type" validate:"oneof=bugzilla github"`
	URL             string       `toml:"url" validate:"required"`
	Timeout         string       `toml:"timeout"`          // e.g. "30s" - HTTP request timeout
	RateLimit       int          `toml:"rate_limit"`       // Requests per second against the service
	PageSize        int          `toml:"page_size"`        // Issues fetched per request
	CredentialsFile string       `toml:"credentials_file"` // YAML credentials for --login runs
	GitHub          GitHubConfig `toml:"github"`
}

// GitHubConfig configures the GitHub issues backend
type GitHubConfig struct {
	Token string `toml:"token"`
	Owner string `toml:"owner"`
	Repo  string `toml:"repo"`
}

// QueriesConfig locates the query definitions file
type QueriesConfig struct {
	File string `toml:"file" validate:"required"`
}

// ChartConfig controls bar chart rendering
type ChartConfig struct {
	OutputDir string `toml:"output_dir"`
	Width     int    `toml:"width" validate:"gt=0"`
	Height    int    `toml:"height" validate:"gt=0"`
}

// ReportConfig controls report generation
type ReportConfig struct {
	Dir string `toml:"dir"`
}

// WatchConfig controls scheduled re-runs in watch mode
type WatchConfig struct {
	Schedule string `toml:"schedule"` // Cron schedule format
}

// LoggingConfig controls the arbor logger
type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "production",
		Tracker: TrackerConfig{
			Type:      "bugzilla",
			URL:       "https://bugzilla.redhat.com",
			Timeout:   "30s",
			RateLimit: 5,
			PageSize:  100,
		},
		Queries: QueriesConfig{
			File: "conf/query.yaml",
		},
		Chart: ChartConfig{
			OutputDir: ".",
			Width:     1024,
			Height:    512,
		},
		Report: ReportConfig{
			Dir: ".",
		},
		Watch: WatchConfig{
			Schedule: "0 * * * *",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFile loads configuration from a single file path
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks the configuration using go-playground/validator tags
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// TimeoutDuration parses the tracker timeout, falling back to 30s
func (t TrackerConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(t.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, queryFile, trackerURL string) {
	if queryFile != "" {
		config.Queries.File = queryFile
	}
	if trackerURL != "" {
		config.Tracker.URL = NormalizeTrackerURL(trackerURL)
	}
}

// NormalizeTrackerURL accepts bare hostnames (the original tool took
// "bugzilla.redhat.com") and prefixes https:// when no scheme is present.
func NormalizeTrackerURL(raw string) string {
	if strings.Contains(raw, "://") {
		return strings.TrimRight(raw, "/")
	}
	return "https://" + strings.TrimRight(raw, "/")
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("BUGLENS_ENV"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("BUGLENS_TRACKER_TYPE"); v != "" {
		config.Tracker.Type = v
	}
	if v := os.Getenv("BUGLENS_TRACKER_URL"); v != "" {
		config.Tracker.URL = NormalizeTrackerURL(v)
	}
	if v := os.Getenv("BUGLENS_TRACKER_TIMEOUT"); v != "" {
		config.Tracker.Timeout = v
	}
	if v := os.Getenv("BUGLENS_TRACKER_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Tracker.RateLimit = n
		}
	}
	if v := os.Getenv("BUGLENS_GITHUB_TOKEN"); v != "" {
		config.Tracker.GitHub.Token = v
	}
	if v := os.Getenv("BUGLENS_QUERY_FILE"); v != "" {
		config.Queries.File = v
	}
	if v := os.Getenv("BUGLENS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("BUGLENS_WATCH_SCHEDULE"); v != "" {
		config.Watch.Schedule = v
	}
}
