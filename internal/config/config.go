package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// WipeCfg controls the overwrite engine. All values are fixed for the
// lifetime of a run; components receive the config by pointer and never
// mutate it.
type WipeCfg struct {
	Rounds         int   `yaml:"rounds" json:"rounds"`                     // Overwrite-and-rename rounds per file
	Passes         int   `yaml:"passes" json:"passes"`                     // Full-length overwrite passes per round
	MaxConcurrent  int   `yaml:"max_concurrent" json:"max_concurrent"`     // Files processed in parallel
	MinBufferBytes int64 `yaml:"min_buffer_bytes" json:"min_buffer_bytes"` // Files at or below this are written in one chunk
	MaxBufferBytes int64 `yaml:"max_buffer_bytes" json:"max_buffer_bytes"` // Upper bound on a single write buffer
}

type PrometheusCfg struct {
	Port int `yaml:"port" json:"port"` // 0 disables the metrics server
}

type LoggingCfg struct {
	RotationDays int `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type ResourceLimits struct {
	MaxCPUPercent float64 `yaml:"max_cpu_percent" json:"max_cpu_percent"` // 0 disables CPU throttling
}

type Config struct {
	Wipe           WipeCfg        `yaml:"wipe" json:"wipe"`
	Prometheus     PrometheusCfg  `yaml:"prometheus" json:"prometheus"`
	Logging        LoggingCfg     `yaml:"logging" json:"logging"`
	ResourceLimits ResourceLimits `yaml:"resource_limits" json:"resource_limits"`
	DatabasePath   string         `yaml:"database_path" json:"database_path"`     // SQLite wipe history; empty disables
	ProtectedPaths []string       `yaml:"protected_paths" json:"protected_paths"` // Extra paths the safety validator blocks
}

// Defaults match the documented behavior: 3 rounds of 3 passes, at most 10
// files in flight, write buffers between 1 MiB and 16 MiB.
const (
	DefaultRounds        = 3
	DefaultPasses        = 3
	DefaultMaxConcurrent = 10
	DefaultMinBuffer     = 1 << 20
	DefaultMaxBuffer     = 16 << 20
)

var (
	errNonPositiveRounds = errors.New("wipe.rounds must be positive")
	errNonPositivePasses = errors.New("wipe.passes must be positive")
	errBufferBounds      = errors.New("wipe.min_buffer_bytes must not exceed wipe.max_buffer_bytes")
)

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	// Always valid by construction.
	_ = cfg.validateAndDefault()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the file when it exists and falls back to the
// built-in defaults when it does not. Any other error is fatal.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	if c.Wipe.Rounds < 0 {
		return errNonPositiveRounds
	}
	if c.Wipe.Passes < 0 {
		return errNonPositivePasses
	}

	if c.Wipe.Rounds == 0 {
		c.Wipe.Rounds = DefaultRounds
	}
	if c.Wipe.Passes == 0 {
		c.Wipe.Passes = DefaultPasses
	}
	if c.Wipe.MaxConcurrent <= 0 {
		c.Wipe.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.Wipe.MinBufferBytes <= 0 {
		c.Wipe.MinBufferBytes = DefaultMinBuffer
	}
	if c.Wipe.MaxBufferBytes <= 0 {
		c.Wipe.MaxBufferBytes = DefaultMaxBuffer
	}
	if c.Wipe.MinBufferBytes > c.Wipe.MaxBufferBytes {
		return errBufferBounds
	}

	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30
	}

	// Prometheus.Port defaults to 0 (disabled): siler is a one-shot tool,
	// the metrics endpoint only makes sense for long wipes an operator
	// wants to watch.
	return nil
}

func (c *Config) PrometheusAddress() string {
	return fmt.Sprintf(":%d", c.Prometheus.Port)
}
