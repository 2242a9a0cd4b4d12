package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/knapcmp/knapcmp/internal/algorithm"
)

const (
	defaultInputDir  = "input_files"
	defaultExtension = ".txt"
	defaultDBPath    = "./data/knapcmp.db"
	defaultRedisAddr = "localhost:6379"
	defaultPort      = 8080

	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Output formats understood by the compare command.
const (
	FormatTable   = "table"
	FormatSummary = "summary"
	FormatJSON    = "json"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	InputDir  string          `yaml:"input_dir"`
	Extension string          `yaml:"extension"`
	Mode      string          `yaml:"mode"`
	Format    string          `yaml:"format"`
	DBPath    string          `yaml:"db_path"`
	Port      int             `yaml:"port"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RedisConfig controls the optional solution cache.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig controls the API token bucket. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides. Nil fields were not set.
type CLIOverrides struct {
	ConfigFile string
	InputDir   *string
	Extension  *string
	Mode       *string
	Format     *string
	DBPath     *string
	Port       *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := Default()

	// Apply environment variables
	applyEnvConfig(&cfg)

	// Load from YAML file if specified (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		if err := loadFromFile(overrides.ConfigFile, &cfg); err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		InputDir:  defaultInputDir,
		Extension: defaultExtension,
		Mode:      algorithm.ModeMultiple,
		Format:    FormatTable,
		DBPath:    defaultDBPath,
		Port:      defaultPort,
		Redis: RedisConfig{
			Addr: defaultRedisAddr,
		},
		RateLimit: RateLimitConfig{
			RPS:   defaultRateLimitRPS,
			Burst: defaultRateLimitBurst,
		},
	}
}

// loadFromFile decodes a YAML file on top of cfg; keys absent from the file
// keep their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if dir := strings.TrimSpace(os.Getenv("KNAPCMP_INPUT_DIR")); dir != "" {
		cfg.InputDir = dir
	}
	if ext := strings.TrimSpace(os.Getenv("KNAPCMP_EXTENSION")); ext != "" {
		cfg.Extension = ext
	}
	if mode := strings.TrimSpace(os.Getenv("KNAPCMP_MODE")); mode != "" {
		cfg.Mode = mode
	}
	if db := strings.TrimSpace(os.Getenv("KNAPCMP_DB")); db != "" {
		cfg.DBPath = db
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if value, err := strconv.Atoi(port); err == nil {
			cfg.Port = value
		}
	}

	if enabled := strings.TrimSpace(os.Getenv("REDIS_ENABLED")); enabled != "" {
		cfg.Redis.Enabled = enabled == "true"
	}
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimit.RPS = value
		}
	}
	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimit.Burst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.InputDir != nil {
		cfg.InputDir = *overrides.InputDir
	}
	if overrides.Extension != nil {
		cfg.Extension = *overrides.Extension
	}
	if overrides.Mode != nil {
		cfg.Mode = *overrides.Mode
	}
	if overrides.Format != nil {
		cfg.Format = *overrides.Format
	}
	if overrides.DBPath != nil {
		cfg.DBPath = *overrides.DBPath
	}
	if overrides.Port != nil {
		cfg.Port = *overrides.Port
	}
}

// Validate validates the final configuration.
func (c Config) Validate() error {
	if !algorithm.ValidMode(c.Mode) {
		return fmt.Errorf("mode must be one of %s, %s, %s; got %q",
			algorithm.ModeSingle, algorithm.ModeMultiple, algorithm.ModeAuto, c.Mode)
	}
	switch c.Format {
	case FormatTable, FormatSummary, FormatJSON:
	default:
		return fmt.Errorf("format must be one of %s, %s, %s; got %q", FormatTable, FormatSummary, FormatJSON, c.Format)
	}
	if c.Extension == "" {
		return fmt.Errorf("extension cannot be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}
