package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the effective commit-review configuration. Interval and timeout
// fields are in seconds, matching the file format.
type Config struct {
	RepoPath      string `yaml:"repo_path"`
	PollInterval  int    `yaml:"poll_interval" validate:"min=0"`
	FetchEvery    int    `yaml:"fetch_every" validate:"min=0,max=100"`
	Provider      string `yaml:"provider" validate:"required,oneof=ollama lmstudio anthropic"`
	Model         string `yaml:"model" validate:"required"`
	Workers       int    `yaml:"workers" validate:"min=0,max=16"`
	QueueSize     int    `yaml:"queue_size" validate:"min=0,max=1024"`
	ReviewTimeout int    `yaml:"review_timeout" validate:"min=0"`
	MaxDiffBytes  int    `yaml:"max_diff_bytes" validate:"min=0"`
	ReviewCurrent bool   `yaml:"review_current"`
}

// Default returns a Config with all defaults applied. The default provider
// and model match a stock local Ollama install.
func Default() Config {
	return Config{
		RepoPath:      ".",
		PollInterval:  30,
		FetchEvery:    1,
		Provider:      "ollama",
		Model:         "llama3.2",
		Workers:       1,
		QueueSize:     16,
		ReviewTimeout: 60,
		MaxDiffBytes:  500000,
	}
}

// PollIntervalDuration returns the poll interval as a duration.
func (c Config) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// ReviewTimeoutDuration returns the review call timeout as a duration.
func (c Config) ReviewTimeoutDuration() time.Duration {
	return time.Duration(c.ReviewTimeout) * time.Second
}

// Load reads the config file at path over the defaults, applies environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	mergeEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault searches the standard locations and loads the first config
// file found. With no file present it returns defaults plus environment
// overrides. Search order: ./commit-review.yaml,
// ~/.config/commit-review/config.yaml.
func LoadDefault() (Config, error) {
	candidates := []string{"commit-review.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "commit-review", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := Default()
	mergeEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("COMMIT_REVIEW_REPO"); v != "" {
		cfg.RepoPath = v
	}
	if v := os.Getenv("COMMIT_REVIEW_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("COMMIT_REVIEW_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("COMMIT_REVIEW_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollInterval = n
		}
	}
	if v := os.Getenv("COMMIT_REVIEW_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReviewTimeout = n
		}
	}
}
