package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

// Config holds the typeahead API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Keywords KeywordsConfig `yaml:"keywords"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SuggestConfig holds suggestion engine settings.
type SuggestConfig struct {
	MaxSuggestions        int            `yaml:"max_suggestions"`
	CollaboratorTimeoutMS int            `yaml:"collaborator_timeout_ms"`
	Cache                 CacheConfig    `yaml:"cache"`
	Scoring               domain.Weights `yaml:"scoring"` // zero value = defaults
}

// CacheConfig holds suggestion cache settings.
type CacheConfig struct {
	MaxEntries       int `yaml:"max_entries"`
	TTLMin           int `yaml:"ttl_min"`
	SweepIntervalMin int `yaml:"sweep_interval_min"`
}

// KeywordsConfig holds the static keyword sets. Empty lists fall back to
// the built-in defaults.
type KeywordsConfig struct {
	Trending []string `yaml:"trending"`
	Popular  []string `yaml:"popular"`
	Fallback []string `yaml:"fallback"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Suggest.MaxSuggestions <= 0 {
		c.Suggest.MaxSuggestions = domain.MaxSuggestions
	}
	if c.Suggest.CollaboratorTimeoutMS <= 0 {
		c.Suggest.CollaboratorTimeoutMS = 2000
	}
	if c.Suggest.Cache.MaxEntries <= 0 {
		c.Suggest.Cache.MaxEntries = 1000
	}
	if c.Suggest.Cache.TTLMin <= 0 {
		c.Suggest.Cache.TTLMin = 30
	}
	if c.Suggest.Cache.SweepIntervalMin <= 0 {
		c.Suggest.Cache.SweepIntervalMin = c.Suggest.Cache.TTLMin
	}
	if (c.Suggest.Scoring == domain.Weights{}) {
		c.Suggest.Scoring = domain.DefaultWeights()
	}
	if c.Suggest.Scoring.LengthPenaltyDivisor <= 0 {
		c.Suggest.Scoring.LengthPenaltyDivisor = 10
	}
	if c.Suggest.Scoring.LengthPenaltyCap < 0 {
		c.Suggest.Scoring.LengthPenaltyCap = 5
	}
	if len(c.Keywords.Trending) == 0 {
		c.Keywords.Trending = DefaultTrendingKeywords()
	}
	if len(c.Keywords.Popular) == 0 {
		c.Keywords.Popular = DefaultPopularKeywords()
	}
	if len(c.Keywords.Fallback) == 0 {
		c.Keywords.Fallback = DefaultFallbackSuggestions()
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Suggest.MaxSuggestions > 100 {
		return fmt.Errorf("suggest.max_suggestions must be at most 100, got %d", c.Suggest.MaxSuggestions)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
