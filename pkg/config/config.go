package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Radio backends
const (
	RadioHCI      = "hci"
	RadioLoopback = "loopback"
)

// SensorConfig shapes the simulated ranging sensor
type SensorConfig struct {
	MinMM        uint16        `yaml:"min_mm" default:"30"`
	MaxMM        uint16        `yaml:"max_mm" default:"1200"`
	Period       time.Duration `yaml:"period" default:"4s"`
	TimingBudget time.Duration `yaml:"timing_budget" default:"33ms"`
	FailBoot     bool          `yaml:"fail_boot"`
}

// FaceConfig controls the terminal avatar
type FaceConfig struct {
	Color bool `yaml:"color" default:"true"`
}

// Config holds application configuration
type Config struct {
	LogLevel       string        `yaml:"log_level" default:"info"`
	DeviceName     string        `yaml:"device_name" default:"M5AtomS3"`
	TickInterval   time.Duration `yaml:"tick_interval" default:"10ms"`
	SampleInterval time.Duration `yaml:"sample_interval" default:"100ms"`
	PromptText     string        `yaml:"prompt_text" default:"Press to start"`
	PromptTextSize int           `yaml:"prompt_text_size" default:"2"`
	Radio          string        `yaml:"radio" default:"hci"`
	HCIDevice      int           `yaml:"hci_device"`
	Sensor         SensorConfig  `yaml:"sensor"`
	Face           FaceConfig    `yaml:"face"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg; keys absent from data keep their current values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample_interval must be positive, got %s", c.SampleInterval)
	}
	if c.Sensor.MinMM >= c.Sensor.MaxMM {
		return fmt.Errorf("sensor.min_mm (%d) must be below sensor.max_mm (%d)", c.Sensor.MinMM, c.Sensor.MaxMM)
	}
	switch c.Radio {
	case RadioHCI, RadioLoopback:
	default:
		return fmt.Errorf("unknown radio %q (must be %s or %s)", c.Radio, RadioHCI, RadioLoopback)
	}
	return nil
}

// NewLogger creates a configured logger instance
func (c *Config) NewLogger() *logrus.Logger {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger := logrus.New()
	logger.SetLevel(level)

	// Use structured logging format
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}
