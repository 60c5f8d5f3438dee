package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Matching  MatchingConfig
	Cache     CacheConfig
	Transfer  TransferConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the sqlite database location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// MatchingConfig exposes the matching engine's heuristic constants.
// These were tuned empirically against a ~2,500-entry catalog; none of
// them should be assumed optimal at other scales.
type MatchingConfig struct {
	AcceptThreshold       float64 `mapstructure:"accept_threshold"`
	TermScoreCap          float64 `mapstructure:"term_score_cap"`
	VendorMatchBonus      float64 `mapstructure:"vendor_match_bonus"`
	VendorMismatchPenalty float64 `mapstructure:"vendor_mismatch_penalty"`
	ProductTypeBonus      float64 `mapstructure:"product_type_bonus"`
	StrainBonus           float64 `mapstructure:"strain_bonus"`
	ScoreFloor            float64 `mapstructure:"score_floor"`
	MaxCandidates         int     `mapstructure:"max_candidates"`
	BatchSize             int     `mapstructure:"batch_size"`
	EnableDebugLogging    bool    `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	StrainLRUSize int           `mapstructure:"strain_lru_size"`
}

// TransferConfig holds remote manifest fetch configuration
type TransferConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/leafmatch/")

	// Environment variable settings
	v.SetEnvPrefix("LEAFMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.path", "leafmatch.db")

	// Matching defaults (empirically tuned)
	v.SetDefault("matching.accept_threshold", 0.3)
	v.SetDefault("matching.term_score_cap", 0.9)
	v.SetDefault("matching.vendor_match_bonus", 0.30)
	v.SetDefault("matching.vendor_mismatch_penalty", 0.20)
	v.SetDefault("matching.product_type_bonus", 0.20)
	v.SetDefault("matching.strain_bonus", 0.30)
	v.SetDefault("matching.score_floor", 0.1)
	v.SetDefault("matching.max_candidates", 200)
	v.SetDefault("matching.batch_size", 100)
	v.SetDefault("matching.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.strain_lru_size", 512)

	// Transfer defaults
	v.SetDefault("transfer.timeout", "30s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set LEAFMATCH_DATABASE_PATH)")
	}

	m := config.Matching
	for name, value := range map[string]float64{
		"accept_threshold":        m.AcceptThreshold,
		"term_score_cap":          m.TermScoreCap,
		"vendor_match_bonus":      m.VendorMatchBonus,
		"vendor_mismatch_penalty": m.VendorMismatchPenalty,
		"product_type_bonus":      m.ProductTypeBonus,
		"strain_bonus":            m.StrainBonus,
		"score_floor":             m.ScoreFloor,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("matching.%s must be in [0,1], got: %v", name, value)
		}
	}

	if m.MaxCandidates <= 0 {
		return fmt.Errorf("matching.max_candidates must be positive, got: %d", m.MaxCandidates)
	}
	if m.BatchSize <= 0 {
		return fmt.Errorf("matching.batch_size must be positive, got: %d", m.BatchSize)
	}
	if config.Cache.StrainLRUSize <= 0 {
		return fmt.Errorf("cache.strain_lru_size must be positive, got: %d", config.Cache.StrainLRUSize)
	}

	return nil
}
