// Package config loads the findex service configuration from YAML with
// ${VAR} environment expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the findex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Datasets DatasetsConfig `yaml:"datasets"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatasetsConfig holds the optional named-dataset store settings.
// When Addrs is empty the store is disabled and every search request
// must inline its dataset.
type DatasetsConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EngineConfig holds search engine tunables.
type EngineConfig struct {
	Parser     ParserConfig     `yaml:"parser"`
	Fuzzy      FuzzyConfig      `yaml:"fuzzy"`
	Score      ScoreConfig      `yaml:"score"`
	Pagination PaginationConfig `yaml:"pagination"`
	Cache      CacheConfig      `yaml:"cache"`
	Limits     LimitsConfig     `yaml:"limits"`
}

// ParserConfig holds query parser limits.
type ParserConfig struct {
	MinTermLength   int    `yaml:"min_term_length"`
	MaxTerms        int    `yaml:"max_terms"`
	DefaultOperator string `yaml:"default_operator"` // AND or OR, joins adjacent terms
}

// FuzzyConfig holds fuzzy matching thresholds.
type FuzzyConfig struct {
	Threshold   int `yaml:"threshold"`    // minimum similarity 0-100
	MaxDistance int `yaml:"max_distance"` // maximum edit distance
	MinLength   int `yaml:"min_length"`   // minimum candidate length
}

// ScoreConfig holds relevance factor weights. Zero values fall back to the
// scorer defaults so partial overrides are possible.
type ScoreConfig struct {
	TextMatchWeight  float64 `yaml:"text_match_weight"`
	FuzzyMatchWeight float64 `yaml:"fuzzy_match_weight"`
	ActivityWeight   float64 `yaml:"activity_weight"`
	RecencyWeight    float64 `yaml:"recency_weight"`
	FieldMatchWeight float64 `yaml:"field_match_weight"`
	BehaviorWeight   float64 `yaml:"behavior_weight"`
	MaxScore         float64 `yaml:"max_score"`
	NormalizeScores  bool    `yaml:"normalize_scores"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// CacheConfig holds result and cursor cache settings.
type CacheConfig struct {
	ResultCacheSize int `yaml:"result_cache_size"`
	ResultCacheTTL  int `yaml:"result_cache_ttl_sec"`
	CursorCacheSize int `yaml:"cursor_cache_size"`
	CursorCacheTTL  int `yaml:"cursor_cache_ttl_sec"`
}

// LimitsConfig holds hard request limits.
type LimitsConfig struct {
	MaxQueryLength int `yaml:"max_query_length"`
	MaxDatasetSize int `yaml:"max_dataset_size"`
	MaxResults     int `yaml:"max_results"`
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
	if c.Datasets.KeyPrefix == "" {
		c.Datasets.KeyPrefix = "findex:dataset:"
	}
	if c.Datasets.ReadinessTimeout <= 0 {
		c.Datasets.ReadinessTimeout = 10
	}
	if c.Engine.Parser.MinTermLength <= 0 {
		c.Engine.Parser.MinTermLength = 2
	}
	if c.Engine.Parser.MaxTerms <= 0 {
		c.Engine.Parser.MaxTerms = 10
	}
	if c.Engine.Parser.DefaultOperator == "" {
		c.Engine.Parser.DefaultOperator = "AND"
	}
	if c.Engine.Fuzzy.Threshold <= 0 {
		c.Engine.Fuzzy.Threshold = 60
	}
	if c.Engine.Fuzzy.MaxDistance <= 0 {
		c.Engine.Fuzzy.MaxDistance = 3
	}
	if c.Engine.Fuzzy.MinLength <= 0 {
		c.Engine.Fuzzy.MinLength = 2
	}
	if c.Engine.Pagination.DefaultPageSize <= 0 {
		c.Engine.Pagination.DefaultPageSize = 20
	}
	if c.Engine.Pagination.MaxPageSize <= 0 {
		c.Engine.Pagination.MaxPageSize = 100
	}
	if c.Engine.Cache.ResultCacheSize <= 0 {
		c.Engine.Cache.ResultCacheSize = 100
	}
	if c.Engine.Cache.ResultCacheTTL <= 0 {
		c.Engine.Cache.ResultCacheTTL = 300
	}
	if c.Engine.Cache.CursorCacheSize <= 0 {
		c.Engine.Cache.CursorCacheSize = 1000
	}
	if c.Engine.Cache.CursorCacheTTL <= 0 {
		c.Engine.Cache.CursorCacheTTL = 300
	}
	if c.Engine.Limits.MaxQueryLength <= 0 {
		c.Engine.Limits.MaxQueryLength = 1000
	}
	if c.Engine.Limits.MaxDatasetSize <= 0 {
		c.Engine.Limits.MaxDatasetSize = 100000
	}
	if c.Engine.Limits.MaxResults <= 0 {
		c.Engine.Limits.MaxResults = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Engine.Parser.DefaultOperator {
	case "AND", "OR":
		// ok
	default:
		return fmt.Errorf(
			"engine.parser.default_operator must be \"AND\" or \"OR\", got %q",
			c.Engine.Parser.DefaultOperator,
		)
	}
	if c.Engine.Fuzzy.Threshold > 100 {
		return fmt.Errorf("engine.fuzzy.threshold must be between 1 and 100, got %d",
			c.Engine.Fuzzy.Threshold)
	}
	if c.Engine.Pagination.DefaultPageSize > c.Engine.Pagination.MaxPageSize {
		return fmt.Errorf("engine.pagination.default_page_size (%d) exceeds max_page_size (%d)",
			c.Engine.Pagination.DefaultPageSize, c.Engine.Pagination.MaxPageSize)
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
