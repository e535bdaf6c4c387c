package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the AI Agents Directory server.
type Config struct {
	Port      int             `toml:"port"`
	Version   string          `toml:"version"`
	BaseURL   string          `toml:"base_url"`
	LogLevel  string          `toml:"log_level"`
	DataDir   string          `toml:"data_dir"`
	Dataset   DatasetConfig   `toml:"dataset"`
	Favorites FavoritesConfig `toml:"favorites"`
	IndexNow  IndexNowConfig  `toml:"indexnow"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Metrics   MetricsConfig   `toml:"metrics"`
	CORS      CORSConfig      `toml:"cors"`
}

type DatasetConfig struct {
	// Path to a dataset JSON file. Empty uses the embedded dataset.
	Path string `toml:"path"`
}

// Favorites backends.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
)

type FavoritesConfig struct {
	Backend string `toml:"backend"`
	// Path of the snapshot (memory) or database (bolt) file. Empty derives
	// a file under DataDir; "none" disables memory persistence.
	Path string `toml:"path"`
}

type IndexNowConfig struct {
	Enabled  bool     `toml:"enabled"`
	Key      string   `toml:"key"`
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
	Debounce Duration `toml:"debounce"`
	// PageViews reports viewed agent and category pages.
	PageViews bool `toml:"page_views"`
}

type TelemetryConfig struct {
	Enabled      bool   `toml:"enabled"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	// Insecure sends spans over plaintext gRPC.
	Insecure    bool   `toml:"insecure"`
	ServiceName string `toml:"service_name"`
	Environment string `toml:"environment"`
	// SampleRatio is the fraction of root requests traced, in [0, 1].
	SampleRatio float64 `toml:"sample_ratio"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Duration is a time.Duration written as "2s" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Port:     8080,
		Version:  "1.0.0",
		BaseURL:  "https://ai-agents.30tools.com",
		LogLevel: "info",
		DataDir:  defaultDataDir(),
		Favorites: FavoritesConfig{
			Backend: BackendMemory,
		},
		IndexNow: IndexNowConfig{
			Enabled:   true,
			Key:       "b786ce2423fa4a1182fa2c99ae947657",
			Endpoint:  "https://api.indexnow.org/indexnow",
			Timeout:   Duration(15 * time.Second),
			Debounce:  Duration(2 * time.Second),
			PageViews: false,
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			Insecure:     true,
			ServiceName:  "ai-agents-directory",
			Environment:  "development",
			SampleRatio:  1,
		},
		Metrics: MetricsConfig{Enabled: true},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// Load builds the configuration from defaults, the optional TOML file named
// by AGENTDIR_CONFIG, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("AGENTDIR_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = envInt("AGENTDIR_PORT", c.Port)
	c.Version = envStr("AGENTDIR_VERSION", c.Version)
	c.BaseURL = envStr("AGENTDIR_BASE_URL", c.BaseURL)
	c.LogLevel = envStr("AGENTDIR_LOG_LEVEL", c.LogLevel)
	c.DataDir = envStr("AGENTDIR_DATA_DIR", c.DataDir)

	c.Dataset.Path = envStr("AGENTDIR_DATASET_PATH", c.Dataset.Path)

	c.Favorites.Backend = envStr("AGENTDIR_FAVORITES_BACKEND", c.Favorites.Backend)
	c.Favorites.Path = envStr("AGENTDIR_FAVORITES_PATH", c.Favorites.Path)

	c.IndexNow.Enabled = envBool("AGENTDIR_INDEXNOW_ENABLED", c.IndexNow.Enabled)
	c.IndexNow.Key = envStr("AGENTDIR_INDEXNOW_KEY", c.IndexNow.Key)
	c.IndexNow.Endpoint = envStr("AGENTDIR_INDEXNOW_ENDPOINT", c.IndexNow.Endpoint)
	c.IndexNow.Timeout = Duration(envDuration("AGENTDIR_INDEXNOW_TIMEOUT", c.IndexNow.Timeout.Std()))
	c.IndexNow.Debounce = Duration(envDuration("AGENTDIR_INDEXNOW_DEBOUNCE", c.IndexNow.Debounce.Std()))
	c.IndexNow.PageViews = envBool("AGENTDIR_INDEXNOW_PAGE_VIEWS", c.IndexNow.PageViews)

	c.Telemetry.Enabled = envBool("OTEL_ENABLED", c.Telemetry.Enabled)
	c.Telemetry.OTLPEndpoint = envStr("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	c.Telemetry.Insecure = envBool("AGENTDIR_OTEL_INSECURE", c.Telemetry.Insecure)
	c.Telemetry.ServiceName = envStr("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
	c.Telemetry.Environment = envStr("AGENTDIR_ENV", c.Telemetry.Environment)
	c.Telemetry.SampleRatio = envFloat("OTEL_TRACES_SAMPLER_ARG", c.Telemetry.SampleRatio)

	c.Metrics.Enabled = envBool("AGENTDIR_METRICS_ENABLED", c.Metrics.Enabled)

	if v := os.Getenv("AGENTDIR_CORS_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}
}

// Validate checks values that have no safe fallback.
func (c *Config) Validate() error {
	switch c.Favorites.Backend {
	case BackendMemory, BackendBolt:
	default:
		return fmt.Errorf("invalid favorites backend %q (want %q or %q)", c.Favorites.Backend, BackendMemory, BackendBolt)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	if r := c.Telemetry.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("invalid telemetry sample ratio %v (want 0 to 1)", r)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// FavoritesPath resolves where favorites are persisted. An empty result
// means no persistence.
func (c *Config) FavoritesPath() string {
	switch c.Favorites.Path {
	case "none":
		return ""
	case "":
		if c.DataDir == "" {
			return ""
		}
		if c.Favorites.Backend == BackendBolt {
			return filepath.Join(c.DataDir, "favorites.db")
		}
		return filepath.Join(c.DataDir, "favorites.json")
	default:
		return c.Favorites.Path
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agentdir")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
