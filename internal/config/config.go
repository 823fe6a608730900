package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Addr           string
	DBPath         string
	MockMode       bool
	Debug          bool
	ReloadInterval time.Duration // 0 disables the periodic catalog reload
	CacheTTL       time.Duration
	ReapInterval   time.Duration
	GraceWindow    time.Duration
	UATimeout      time.Duration

	Tuning Tuning
}

// Tuning groups the scoring knobs. The defaults are business-tuned values
// carried over from production behavior, not contractual constants; they are
// centralised here so operators can adjust them without a rebuild.
type Tuning struct {
	MatchFloor      float64 // minimum text similarity for a candidate to survive
	ConfidenceFloor float64 // fused score below this means "device unknown, ask for detail"
	TextWeight      float64 // text share of the fused score
	UAWeight        float64 // user-agent share of the fused score
	DistrustPenalty float64 // applied to both contributions on brand disagreement
	TieEpsilon      float64 // fused scores within this range count as tied
	MaxCandidates   int     // cap on surviving text candidates

	BrandPremiumMult float64
	BrandMidMult     float64
	SeverityLowMult  float64
	SeverityHighMult float64
	PriceLowFactor   float64
	PriceHighFactor  float64
}

// DefaultTuning returns the production defaults.
func DefaultTuning() Tuning {
	return Tuning{
		MatchFloor:      0.6,
		ConfidenceFloor: 0.3,
		TextWeight:      0.6,
		UAWeight:        0.4,
		DistrustPenalty: 0.7,
		TieEpsilon:      0.02,
		MaxCandidates:   10,

		BrandPremiumMult: 1.2,
		BrandMidMult:     1.1,
		SeverityLowMult:  0.8,
		SeverityHighMult: 1.3,
		PriceLowFactor:   0.9,
		PriceHighFactor:  1.2,
	}
}

// Load parses command line flags and environment variables to populate
// Config. Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{Tuning: DefaultTuning()}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("DIAG_ADDR", ":8080")
	cfg.DBPath = getEnv("DIAG_DB", "catalog.db")
	cfg.MockMode = getEnvBool("DIAG_MOCK", false)
	cfg.ReloadInterval = getEnvDuration("DIAG_RELOAD_INTERVAL", 5*time.Minute)
	cfg.CacheTTL = getEnvDuration("DIAG_CACHE_TTL", 5*time.Minute)
	cfg.ReapInterval = getEnvDuration("DIAG_CACHE_REAP", time.Minute)
	cfg.GraceWindow = getEnvDuration("DIAG_CATALOG_GRACE", 15*time.Minute)
	cfg.UATimeout = getEnvDuration("DIAG_UA_TIMEOUT", 200*time.Millisecond)

	cfg.Tuning.MatchFloor = getEnvFloat("DIAG_MATCH_FLOOR", cfg.Tuning.MatchFloor)
	cfg.Tuning.ConfidenceFloor = getEnvFloat("DIAG_CONFIDENCE_FLOOR", cfg.Tuning.ConfidenceFloor)
	cfg.Tuning.TextWeight = getEnvFloat("DIAG_TEXT_WEIGHT", cfg.Tuning.TextWeight)
	cfg.Tuning.UAWeight = getEnvFloat("DIAG_UA_WEIGHT", cfg.Tuning.UAWeight)
	cfg.Tuning.DistrustPenalty = getEnvFloat("DIAG_DISTRUST_PENALTY", cfg.Tuning.DistrustPenalty)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite catalog database")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Serve the built-in seed catalog instead of SQLite")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	flag.DurationVar(&cfg.ReloadInterval, "reload", cfg.ReloadInterval, "Catalog reload interval (0 disables)")
	flag.DurationVar(&cfg.CacheTTL, "ttl", cfg.CacheTTL, "Response cache TTL")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
