package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the service looks for its YAML configuration.
const DefaultPath = "./config/config.yaml"

// EnvPrefix prefixes every environment override, e.g. SIMSERVER_SERVER_ADDR.
const EnvPrefix = "SIMSERVER_"

type ServerConfiguration struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MetricsConfiguration struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type LogConfiguration struct {
	Level string `yaml:"level"`
	// File is appended to; empty means stderr.
	File string `yaml:"file"`
}

type SimilarityConfiguration struct {
	// Weights of 1-, 2- and 3-grams, in that order.
	Weights []float64 `yaml:"weights"`
	// EmptyLevels is "renormalize" or "zero".
	EmptyLevels   string `yaml:"empty_levels"`
	DefaultMetric string `yaml:"default_metric"`
	// MaxTextLength limits each text in runes, 0 disables the check.
	MaxTextLength int   `yaml:"max_text_length"`
	MaxBodyBytes  int64 `yaml:"max_body_bytes"`
}

// Configuration is the full service configuration.
type Configuration struct {
	Server     ServerConfiguration     `yaml:"server"`
	Metrics    MetricsConfiguration    `yaml:"metrics"`
	Log        LogConfiguration        `yaml:"log"`
	Similarity SimilarityConfiguration `yaml:"similarity"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Configuration {
	return &Configuration{
		Server: ServerConfiguration{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfiguration{
			Enabled: true,
			Addr:    ":2112",
		},
		Log: LogConfiguration{
			Level: "info",
			File:  "app.log",
		},
		Similarity: SimilarityConfiguration{
			Weights:       []float64{4, 2, 1},
			EmptyLevels:   "renormalize",
			DefaultMetric: "ngram",
			MaxTextLength: 0,
			MaxBodyBytes:  10 * 1024 * 1024,
		},
	}
}

// LoadConfig decodes a YAML file on top of the receiver's values.
func (c *Configuration) LoadConfig(filename string) (*Configuration, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := *c
	config.Similarity.Weights = append([]float64(nil), c.Similarity.Weights...)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return &config, nil
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists), a .env file in the working directory and SIMSERVER_* variables.
// A missing file at DefaultPath is not an error; a missing explicit path is.
func Load(path string) (*Configuration, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	loaded, err := cfg.LoadConfig(path)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) applyEnv() error {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Metrics.Addr = getEnv("METRICS_ADDR", c.Metrics.Addr)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	c.Similarity.EmptyLevels = getEnv("EMPTY_LEVELS", c.Similarity.EmptyLevels)
	c.Similarity.DefaultMetric = getEnv("DEFAULT_METRIC", c.Similarity.DefaultMetric)

	var err error
	if c.Metrics.Enabled, err = getEnvBool("METRICS_ENABLED", c.Metrics.Enabled); err != nil {
		return err
	}
	if c.Similarity.MaxTextLength, err = getEnvInt("MAX_TEXT_LENGTH", c.Similarity.MaxTextLength); err != nil {
		return err
	}
	if c.Server.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks values that would otherwise fail at startup.
func (c *Configuration) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	if c.Similarity.MaxTextLength < 0 {
		return fmt.Errorf("similarity.max_text_length must not be negative")
	}
	if c.Similarity.MaxBodyBytes <= 0 {
		return fmt.Errorf("similarity.max_body_bytes must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return i, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return d, nil
}
