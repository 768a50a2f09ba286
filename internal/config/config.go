package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported providers and drivers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Environment variables read once at startup by Load.
const (
	envGeminiAPIKey   = "GEMINI_API_KEY"
	envGeminiModel    = "GEMINI_MODEL"
	envOpenAIAPIKey   = "OPENAI_API_KEY"
	envProvider       = "SEODRAFT_PROVIDER"
	envAPIKey         = "SEODRAFT_API_KEY"
	envModel          = "SEODRAFT_MODEL"
	envScoringModel   = "SEODRAFT_SCORING_MODEL"
	envBaseURL        = "SEODRAFT_BASE_URL"
	envDBDriver       = "SEODRAFT_DB_DRIVER"
	envDBDSN          = "SEODRAFT_DB_DSN"
	envLogLevel       = "SEODRAFT_LOG_LEVEL"
	envTimeoutSeconds = "SEODRAFT_TIMEOUT_SECONDS"
	envPort           = "SEODRAFT_PORT"
	envFile           = "ENV_FILE"
)

// configFiles lists the accepted config file names in lookup order.
var configFiles = []string{"config.json", "config.yaml", "config.yml"}

// Config holds application configuration. It is built once in main and passed
// down explicitly; components never read the environment themselves.
type Config struct {
	Database   DatabaseConfig   `json:"database" yaml:"database"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Pipeline   PipelineConfig   `json:"pipeline" yaml:"pipeline"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Log        LogConfig        `json:"log" yaml:"log"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" yaml:"disabled_tools,omitempty"`
}

// DatabaseConfig describes the relational post store.
type DatabaseConfig struct {
	// Driver is "sqlite" (default, file under the base dir) or "postgres".
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	// DSN is required for postgres. For sqlite it overrides <baseDir>/seodraft.db.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// MaxOpenConns and MaxIdleConns are applied only when non-zero.
	MaxOpenConns int `json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	MaxIdleConns int `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
}

// GenerationConfig describes the generative text API.
type GenerationConfig struct {
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	// ScoringModel defaults to Model when empty.
	ScoringModel string `json:"scoring_model,omitempty" yaml:"scoring_model,omitempty"`
	APIKey       string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// PipelineConfig tunes the generation pipeline.
type PipelineConfig struct {
	// TimeoutSeconds bounds the generation call.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	// PreviewChars is the number of characters returned as preview.
	PreviewChars int `json:"preview_chars,omitempty" yaml:"preview_chars,omitempty"`
}

// Timeout returns the generation deadline as a duration.
func (p PipelineConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Bind string `json:"bind,omitempty" yaml:"bind,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`
}

// LogConfig describes logger settings.
type LogConfig struct {
	Level       string `json:"level,omitempty" yaml:"level,omitempty"`
	Development bool   `json:"development,omitempty" yaml:"development,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DriverSQLite},
		Generation: GenerationConfig{
			Provider: ProviderGemini,
			Model:    "gemini-2.0-flash",
		},
		Pipeline: PipelineConfig{
			TimeoutSeconds: 30,
			PreviewChars:   300,
		},
		Server: ServerConfig{Bind: "127.0.0.1", Port: 8787},
		Log:    LogConfig{Level: "info"},
	}
}

// Load loads configuration from baseDir (config.json, config.yaml or config.yml),
// then applies .env files and environment overrides.
// Returns default config if no file exists.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.seodraft.
func Load(baseDir string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	fileCfg, err := loadFileRaw(FindConfigFile(baseDir))
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), fileCfg)
	cfg.applyEnvOverrides(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile returns the first config file present in baseDir, or "".
func FindConfigFile(baseDir string) string {
	for _, name := range configFiles {
		path := filepath.Join(baseDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadEnvFiles loads ENV_FILE if set, else .env.local then .env from the
// working directory. Existing environment variables are never overwritten.
func loadEnvFiles() error {
	if path := os.Getenv(envFile); path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}

	for _, path := range []string{".env.local", ".env"} {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	return cfg, nil
}

// applyEnvOverrides replaces file/default values with non-empty environment values.
func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if v := getenv(envProvider); v != "" {
		c.Generation.Provider = strings.ToLower(v)
	}

	// Provider-specific keys first, generic key wins.
	switch c.Generation.Provider {
	case ProviderGemini:
		if v := getenv(envGeminiAPIKey); v != "" {
			c.Generation.APIKey = v
		}
		if v := getenv(envGeminiModel); v != "" {
			c.Generation.Model = v
		}
	case ProviderOpenAI:
		if v := getenv(envOpenAIAPIKey); v != "" {
			c.Generation.APIKey = v
		}
	}
	if v := getenv(envAPIKey); v != "" {
		c.Generation.APIKey = v
	}
	if v := getenv(envModel); v != "" {
		c.Generation.Model = v
	}
	if v := getenv(envScoringModel); v != "" {
		c.Generation.ScoringModel = v
	}
	if v := getenv(envBaseURL); v != "" {
		c.Generation.BaseURL = v
	}

	if v := getenv(envDBDriver); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := getenv(envDBDSN); v != "" {
		c.Database.DSN = v
	}

	if v := getenv(envLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(envTimeoutSeconds); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Pipeline.TimeoutSeconds = n
		}
	}
	if v := getenv(envPort); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.Port = n
		}
	}
}

// Validate checks enumerated fields and required combinations.
// A missing API key is not an error here; generation reports NOT_CONFIGURED instead.
func (c *Config) Validate() error {
	switch c.Generation.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("generation.provider must be one of: %s, %s", ProviderGemini, ProviderOpenAI)
	}

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be one of: %s, %s", DriverSQLite, DriverPostgres)
	}

	if c.Pipeline.TimeoutSeconds <= 0 {
		return fmt.Errorf("pipeline.timeout_seconds must be positive")
	}
	return nil
}

// ScoringModelOrDefault returns the model used for scoring, defaulting to the generation model.
func (g GenerationConfig) ScoringModelOrDefault() string {
	if g.ScoringModel != "" {
		return g.ScoringModel
	}
	return g.Model
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Database.Driver = pickString(overlay.Database.Driver, base.Database.Driver)
	result.Database.DSN = pickString(overlay.Database.DSN, base.Database.DSN)
	result.Database.MaxOpenConns = pickInt(overlay.Database.MaxOpenConns, base.Database.MaxOpenConns)
	result.Database.MaxIdleConns = pickInt(overlay.Database.MaxIdleConns, base.Database.MaxIdleConns)

	result.Generation.Provider = strings.ToLower(pickString(overlay.Generation.Provider, base.Generation.Provider))
	result.Generation.Model = pickString(overlay.Generation.Model, base.Generation.Model)
	result.Generation.ScoringModel = pickString(overlay.Generation.ScoringModel, base.Generation.ScoringModel)
	result.Generation.APIKey = pickString(overlay.Generation.APIKey, base.Generation.APIKey)
	result.Generation.BaseURL = pickString(overlay.Generation.BaseURL, base.Generation.BaseURL)

	result.Pipeline.TimeoutSeconds = pickInt(overlay.Pipeline.TimeoutSeconds, base.Pipeline.TimeoutSeconds)
	result.Pipeline.PreviewChars = pickInt(overlay.Pipeline.PreviewChars, base.Pipeline.PreviewChars)

	result.Server.Bind = pickString(overlay.Server.Bind, base.Server.Bind)
	result.Server.Port = pickInt(overlay.Server.Port, base.Server.Port)

	result.Log.Level = pickString(overlay.Log.Level, base.Log.Level)

	// Booleans: overlay wins if true, else base
	result.Log.Development = base.Log.Development || overlay.Log.Development

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickString(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
