package qsearch

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type ExecutionMode string

const (
	ModeExact    ExecutionMode = "exact"
	ModeSampling ExecutionMode = "sampling"
)

/*
Config carries every knob of the solver. NewConfig gives the defaults,
LoadConfig layers an optional config file and QSEARCH_* environment
variables on top of them.
*/
type Config struct {
	Tolerance          float64
	Mode               ExecutionMode
	Shots              int
	Seed               uint64
	Workers            int
	BatchSize          int
	PrecisionTolerance float64
	GrowthRate         float64
	LogLevel           string
}

func NewConfig() *Config {
	return &Config{
		Tolerance:          0.05,
		Mode:               ModeExact,
		Shots:              8192,
		Seed:               1,
		Workers:            4,
		BatchSize:          1024,
		PrecisionTolerance: 1e-6,
		GrowthRate:         DefaultGrowthRate,
		LogLevel:           "info",
	}
}

/*
LoadConfig reads path when it is not empty, then applies environment
overrides such as QSEARCH_MODE=sampling or QSEARCH_SHOTS=4096. Keys missing
from both keep their NewConfig value. The result is validated.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetDefault("tolerance", defaults.Tolerance)
	v.SetDefault("mode", string(defaults.Mode))
	v.SetDefault("shots", defaults.Shots)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("batch_size", defaults.BatchSize)
	v.SetDefault("precision_tolerance", defaults.PrecisionTolerance)
	v.SetDefault("growth_rate", defaults.GrowthRate)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix("QSEARCH")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Tolerance:          v.GetFloat64("tolerance"),
		Mode:               ExecutionMode(v.GetString("mode")),
		Shots:              v.GetInt("shots"),
		Seed:               v.GetUint64("seed"),
		Workers:            v.GetInt("workers"),
		BatchSize:          v.GetInt("batch_size"),
		PrecisionTolerance: v.GetFloat64("precision_tolerance"),
		GrowthRate:         v.GetFloat64("growth_rate"),
		LogLevel:           v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		errs = append(errs, fmt.Errorf("tolerance must be in (0, 1), got %g", c.Tolerance))
	}

	switch c.Mode {
	case ModeExact, ModeSampling:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}

	if c.Mode == ModeSampling && c.Shots < 1 {
		errs = append(errs, fmt.Errorf("shots must be positive, got %d", c.Shots))
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}

	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", c.BatchSize))
	}

	if c.PrecisionTolerance <= 0 {
		errs = append(errs, fmt.Errorf("precision_tolerance must be positive, got %g", c.PrecisionTolerance))
	}

	if c.GrowthRate <= 1 {
		errs = append(errs, fmt.Errorf("growth_rate must exceed 1, got %g", c.GrowthRate))
	}

	return errors.Join(errs...)
}

// Executor returns the executor the mode selects.
func (c *Config) Executor() Executor {
	if c.Mode == ModeSampling {
		return SamplingExecutor{
			Shots:     c.Shots,
			BatchSize: c.BatchSize,
			Workers:   c.Workers,
			Seed:      c.Seed,
		}
	}

	return ExactExecutor{}
}
