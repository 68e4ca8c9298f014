package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/recallhq/recall/internal/scheduler"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	DefaultNewLimit    int
	DefaultReviewLimit int
	DisableFuzz        bool

	// Scheduling policy knobs. Parsed here, validated via Policy().
	LearningSteps           string // comma-separated minutes, e.g. "1,10"
	RelearningSteps         string
	GraduatingIntervalDays  float64
	EasyIntervalDays        float64
	IntervalModifier        float64
	HardIntervalMultiplier  float64
	EasyBonus               float64
	LapseNewIntervalPercent float64
	LapseEasePenalty        int
	MinimumEaseFactor       int
	MaximumEaseFactor       int
	MaximumIntervalDays     int
	InitialEaseFactor       int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	def := scheduler.DefaultPolicy()
	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:recall.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		DefaultNewLimit:    envIntOr("DEFAULT_NEW_LIMIT", 20),
		DefaultReviewLimit: envIntOr("DEFAULT_REVIEW_LIMIT", 200),
		DisableFuzz:        envBoolOr("DISABLE_FUZZ", false),

		LearningSteps:           envOr("LEARNING_STEPS_MINUTES", joinInts(def.LearningStepsMinutes)),
		RelearningSteps:         envOr("RELEARNING_STEPS_MINUTES", joinInts(def.RelearningStepsMinutes)),
		GraduatingIntervalDays:  envFloatOr("GRADUATING_INTERVAL_DAYS", def.GraduatingIntervalDays),
		EasyIntervalDays:        envFloatOr("EASY_INTERVAL_DAYS", def.EasyIntervalDays),
		IntervalModifier:        envFloatOr("INTERVAL_MODIFIER", def.IntervalModifier),
		HardIntervalMultiplier:  envFloatOr("HARD_INTERVAL_MULTIPLIER", def.HardIntervalMultiplier),
		EasyBonus:               envFloatOr("EASY_BONUS", def.EasyBonus),
		LapseNewIntervalPercent: envFloatOr("LAPSE_NEW_INTERVAL_PERCENT", def.LapseNewIntervalPercent),
		LapseEasePenalty:        envIntOr("LAPSE_EASE_PENALTY", def.LapseEasePenalty),
		MinimumEaseFactor:       envIntOr("MINIMUM_EASE_FACTOR", def.MinimumEaseFactor),
		MaximumEaseFactor:       envIntOr("MAXIMUM_EASE_FACTOR", def.MaximumEaseFactor),
		MaximumIntervalDays:     envIntOr("MAXIMUM_INTERVAL_DAYS", def.MaximumIntervalDays),
		InitialEaseFactor:       envIntOr("INITIAL_EASE_FACTOR", def.InitialEaseFactor),
	}
}

// Validate checks the non-policy configuration, collecting every violation.
// Policy constraints are checked by Policy().
func (c Config) Validate() error {
	var errs []string

	if c.Addr == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not a recognized level", c.LogLevel))
	}
	if c.DefaultNewLimit < 0 {
		errs = append(errs, "DEFAULT_NEW_LIMIT cannot be negative")
	}
	if c.DefaultReviewLimit < 0 {
		errs = append(errs, "DEFAULT_REVIEW_LIMIT cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Policy builds and validates the scheduling policy. Any violated constraint
// is fatal; the policy is never repaired silently.
func (c Config) Policy() (scheduler.Policy, error) {
	learning, err := parseSteps(c.LearningSteps)
	if err != nil {
		return scheduler.Policy{}, fmt.Errorf("LEARNING_STEPS_MINUTES: %w", err)
	}
	relearning, err := parseSteps(c.RelearningSteps)
	if err != nil {
		return scheduler.Policy{}, fmt.Errorf("RELEARNING_STEPS_MINUTES: %w", err)
	}

	p := scheduler.Policy{
		LearningStepsMinutes:    learning,
		RelearningStepsMinutes:  relearning,
		GraduatingIntervalDays:  c.GraduatingIntervalDays,
		EasyIntervalDays:        c.EasyIntervalDays,
		IntervalModifier:        c.IntervalModifier,
		HardIntervalMultiplier:  c.HardIntervalMultiplier,
		EasyBonus:               c.EasyBonus,
		LapseNewIntervalPercent: c.LapseNewIntervalPercent,
		LapseEasePenalty:        c.LapseEasePenalty,
		MinimumEaseFactor:       c.MinimumEaseFactor,
		MaximumEaseFactor:       c.MaximumEaseFactor,
		MaximumIntervalDays:     c.MaximumIntervalDays,
		InitialEaseFactor:       c.InitialEaseFactor,
	}
	if err := p.Validate(); err != nil {
		return scheduler.Policy{}, err
	}
	return p, nil
}

func parseSteps(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	steps := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid step %q", part)
		}
		steps = append(steps, v)
	}
	return steps, nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
