package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mkazmier/best-test/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Sampler SamplerConfig
	Output  OutputConfig
}

// SamplerConfig holds sampling defaults
type SamplerConfig struct {
	NSamples    int
	NTune       int
	Parallelism int
	Seed        int64
}

// OutputConfig holds plot and export output settings
type OutputConfig struct {
	Dir        string
	PlotFormat string
}

// Load reads configuration from environment variables, with a .env file
// as an optional source, and validates it
func Load() (*Config, error) {
	// Best-effort: absence of a .env file is not an error
	_ = godotenv.Load()

	config := &Config{}

	samplerConfig, err := loadSamplerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sampler configuration")
	}
	config.Sampler = *samplerConfig

	outputConfig, err := loadOutputConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load output configuration")
	}
	config.Output = *outputConfig

	return config, nil
}

func loadSamplerConfig() (*SamplerConfig, error) {
	nsamples, err := getEnvInt("BEST_NSAMPLES", 2000)
	if err != nil {
		return nil, err
	}
	if nsamples <= 0 {
		return nil, errors.ConfigInvalid("BEST_NSAMPLES must be > 0")
	}

	ntune, err := getEnvInt("BEST_NTUNE", 0)
	if err != nil {
		return nil, err
	}
	if ntune < 0 {
		return nil, errors.ConfigInvalid("BEST_NTUNE must be >= 0")
	}

	parallelism, err := getEnvInt("BEST_PARALLELISM", 1)
	if err != nil {
		return nil, err
	}
	if parallelism < 1 {
		return nil, errors.ConfigInvalid("BEST_PARALLELISM must be >= 1")
	}

	seed, err := getEnvInt64("BEST_SEED", 0)
	if err != nil {
		return nil, err
	}

	return &SamplerConfig{
		NSamples:    nsamples,
		NTune:       ntune,
		Parallelism: parallelism,
		Seed:        seed,
	}, nil
}

func loadOutputConfig() (*OutputConfig, error) {
	format := getEnv("BEST_PLOT_FORMAT", "png")
	if format != "png" && format != "svg" {
		return nil, errors.ConfigInvalid("BEST_PLOT_FORMAT must be png or svg")
	}

	return &OutputConfig{
		Dir:        getEnv("BEST_OUTPUT_DIR", "best-output"),
		PlotFormat: format,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return n, nil
}
