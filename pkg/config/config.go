package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config governs the scheduler CLI and the engine it drives.
type Config struct {
	Env string

	Log       LogConfig
	Scheduler SchedulerConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig carries the engine.Options defaults (§6.1) and the
// calendar shape (§3) when the input doesn't override them.
type SchedulerConfig struct {
	PeriodsPerDay             int
	DaysPerWeek               int
	MaxOptimizationIterations int
	UseILP                    bool
	SolveTimeout              time.Duration
}

// Load reads configuration the way the teacher's pkg/config does: a .env
// file (best-effort), environment variables, then defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		PeriodsPerDay:             v.GetInt("PERIODS_PER_DAY"),
		DaysPerWeek:               v.GetInt("DAYS_PER_WEEK"),
		MaxOptimizationIterations: v.GetInt("MAX_OPTIMIZATION_ITERATIONS"),
		UseILP:                    v.GetBool("USE_ILP"),
		SolveTimeout:              parseDuration(v.GetString("SOLVE_TIMEOUT"), 30*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PERIODS_PER_DAY", 8)
	v.SetDefault("DAYS_PER_WEEK", 5)
	v.SetDefault("MAX_OPTIMIZATION_ITERATIONS", 500)
	v.SetDefault("USE_ILP", true)
	v.SetDefault("SOLVE_TIMEOUT", "30s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
