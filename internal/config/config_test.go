package config

import (
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("HTTP defaults = %+v", cfg.HTTP)
	}
	if cfg.Datasets.KeyPrefix != "findex:dataset:" {
		t.Errorf("KeyPrefix = %q", cfg.Datasets.KeyPrefix)
	}
	if cfg.Engine.Parser.MinTermLength != 2 || cfg.Engine.Parser.MaxTerms != 10 {
		t.Errorf("Parser defaults = %+v", cfg.Engine.Parser)
	}
	if cfg.Engine.Parser.DefaultOperator != "AND" {
		t.Errorf("DefaultOperator = %q", cfg.Engine.Parser.DefaultOperator)
	}
	if cfg.Engine.Fuzzy.Threshold != 60 || cfg.Engine.Fuzzy.MaxDistance != 3 || cfg.Engine.Fuzzy.MinLength != 2 {
		t.Errorf("Fuzzy defaults = %+v", cfg.Engine.Fuzzy)
	}
	if cfg.Engine.Pagination.DefaultPageSize != 20 || cfg.Engine.Pagination.MaxPageSize != 100 {
		t.Errorf("Pagination defaults = %+v", cfg.Engine.Pagination)
	}
	if cfg.Engine.Limits.MaxQueryLength != 1000 || cfg.Engine.Limits.MaxDatasetSize != 100000 || cfg.Engine.Limits.MaxResults != 100 {
		t.Errorf("Limits defaults = %+v", cfg.Engine.Limits)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Engine.Parser.MaxTerms = 5
	cfg.Engine.Fuzzy.Threshold = 80
	cfg.ApplyDefaults()

	if cfg.Engine.Parser.MaxTerms != 5 {
		t.Errorf("MaxTerms = %d, want 5", cfg.Engine.Parser.MaxTerms)
	}
	if cfg.Engine.Fuzzy.Threshold != 80 {
		t.Errorf("Threshold = %d, want 80", cfg.Engine.Fuzzy.Threshold)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.HTTP.Port = 8080
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"bad operator", func(c *Config) { c.Engine.Parser.DefaultOperator = "XOR" }, "default_operator"},
		{"threshold over 100", func(c *Config) { c.Engine.Fuzzy.Threshold = 150 }, "fuzzy.threshold"},
		{
			"default page size over max",
			func(c *Config) { c.Engine.Pagination.DefaultPageSize = 200 },
			"default_page_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv = %q, want local", got)
	}

	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv = %q, want prod", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FINDEX_TEST_SECRET", "s3cret")
	t.Setenv("FINDEX_TEST_EMPTY", "")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "password: ${FINDEX_TEST_SECRET}", "password: s3cret"},
		{"unset variable", "password: ${FINDEX_TEST_MISSING}", "password: "},
		{"default used", "password: ${FINDEX_TEST_MISSING:-fallback}", "password: fallback"},
		{"empty uses default", "password: ${FINDEX_TEST_EMPTY:-fallback}", "password: fallback"},
		{"set wins over default", "password: ${FINDEX_TEST_SECRET:-fallback}", "password: s3cret"},
		{"no variables", "port: 8080", "port: 8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
