package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

// chdir changes the working directory for the duration of the test.
// Equivalent of t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatal(err)
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Suggest.MaxSuggestions != domain.MaxSuggestions {
		t.Errorf("MaxSuggestions = %d, want %d", cfg.Suggest.MaxSuggestions, domain.MaxSuggestions)
	}
	if cfg.Suggest.CollaboratorTimeoutMS != 2000 {
		t.Errorf("CollaboratorTimeoutMS = %d, want 2000", cfg.Suggest.CollaboratorTimeoutMS)
	}
	if cfg.Suggest.Cache.MaxEntries != 1000 || cfg.Suggest.Cache.TTLMin != 30 {
		t.Errorf("cache defaults = %+v", cfg.Suggest.Cache)
	}
	if cfg.Suggest.Cache.SweepIntervalMin != cfg.Suggest.Cache.TTLMin {
		t.Errorf("SweepIntervalMin = %d, want TTL %d", cfg.Suggest.Cache.SweepIntervalMin, cfg.Suggest.Cache.TTLMin)
	}
	if cfg.Suggest.Scoring != domain.DefaultWeights() {
		t.Errorf("Scoring = %+v, want default weights", cfg.Suggest.Scoring)
	}
	if len(cfg.Keywords.Trending) == 0 || len(cfg.Keywords.Popular) == 0 || len(cfg.Keywords.Fallback) == 0 {
		t.Error("keyword defaults not applied")
	}
}

func TestApplyDefaultsKeepsExplicitScoring(t *testing.T) {
	cfg := Config{Suggest: SuggestConfig{Scoring: domain.Weights{Exact: 5000}}}
	cfg.ApplyDefaults()

	if cfg.Suggest.Scoring.Exact != 5000 {
		t.Errorf("Exact = %d, explicit weight overwritten", cfg.Suggest.Scoring.Exact)
	}
	// Divisor guard still applies so scoring never divides by zero.
	if cfg.Suggest.Scoring.LengthPenaltyDivisor <= 0 {
		t.Errorf("LengthPenaltyDivisor = %d", cfg.Suggest.Scoring.LengthPenaltyDivisor)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	valid.ApplyDefaults()
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }},
		{"no database addrs", func(c *Config) { c.Database.Addrs = nil }},
		{"max_suggestions too large", func(c *Config) { c.Suggest.MaxSuggestions = 101 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TA_TEST_ADDR", "redis-prod:6379")
	os.Unsetenv("TA_TEST_MISSING")

	in := []byte("addr: ${TA_TEST_ADDR}\nfallback: ${TA_TEST_MISSING:-redis:6379}\nempty: ${TA_TEST_MISSING}\n")
	got := string(expandEnvVars(in))
	want := "addr: redis-prod:6379\nfallback: redis:6379\nempty: \n"
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
database:
  addrs:
    - "localhost:6379"
suggest:
  max_suggestions: 7
  scoring:
    exact: 2000
keywords:
  trending:
    - "iPhone 15 Pro Max"
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Suggest.MaxSuggestions != 7 {
		t.Errorf("MaxSuggestions = %d, want 7", cfg.Suggest.MaxSuggestions)
	}
	if cfg.Suggest.Scoring.Exact != 2000 {
		t.Errorf("Scoring.Exact = %d, want override from file", cfg.Suggest.Scoring.Exact)
	}
	if len(cfg.Keywords.Trending) != 1 {
		t.Errorf("Trending = %v, want the single configured keyword", cfg.Keywords.Trending)
	}
	// Unconfigured sets still default.
	if len(cfg.Keywords.Fallback) == 0 {
		t.Error("Fallback keywords not defaulted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load("nonexistent"); err == nil {
		t.Error("Load succeeded for a missing config file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("GetEnv = %q, want local", env)
	}
	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("GetEnv = %q, want prod", env)
	}
}
