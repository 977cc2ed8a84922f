package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the top-level YAML configuration for diffguard.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HttpClient HttpClient `yaml:"http_client"`
	Review     Review     `yaml:"review"`
	Advisor    Advisor    `yaml:"advisor"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type HttpClient struct {
	Debug            bool            `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TlsClientConfig  TlsClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TlsClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Review holds the operational defaults of the review engine. Every value is
// overridable from the command line; zero values fall back to the defaults below.
type Review struct {
	ConcurrencyCap      int           `yaml:"concurrency_cap"`
	DiffChunkBudget     int           `yaml:"diff_chunk_budget"`
	ConfidenceThreshold float64       `yaml:"confidence_threshold"`
	MaxIterations       int           `yaml:"max_iterations"`
	ScannerTimeout      time.Duration `yaml:"scanner_timeout"`
	RunTimeout          time.Duration `yaml:"run_timeout"`
}

// Advisor configures the optional completion-service client. An empty URL
// disables the advisor entirely; the engine then runs rule-based only.
type Advisor struct {
	URL      string        `yaml:"url"`
	Model    string        `yaml:"model"`
	TokenEnv string        `yaml:"token_env"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Review defaults applied by DefaultReviewConfig.
const (
	DefaultConcurrencyCap      = 4
	DefaultDiffChunkBudget     = 5000
	DefaultConfidenceThreshold = 0.50
	DefaultMaxIterations       = 3
	DefaultScannerTimeout      = 30 * time.Second
	DefaultRunTimeout          = 5 * time.Minute
)

// DefaultReviewConfig returns the review section populated with defaults.
func DefaultReviewConfig() Review {
	return Review{
		ConcurrencyCap:      DefaultConcurrencyCap,
		DiffChunkBudget:     DefaultDiffChunkBudget,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		MaxIterations:       DefaultMaxIterations,
		ScannerTimeout:      DefaultScannerTimeout,
		RunTimeout:          DefaultRunTimeout,
	}
}

// DefaultHTTPConfig returns a base configuration for HTTP clients with default values.
func DefaultHTTPConfig() HttpClient {
	return HttpClient{
		RetryCount:       5,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 5 * time.Second,
		Timeout:          30 * time.Second,
	}
}

// ValidateConfigPath checks that the given path exists and is a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads a config file when present. A missing file is not an error:
// the caller gets a config populated with defaults so the tool runs unconfigured.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{Review: DefaultReviewConfig(), HttpClient: DefaultHTTPConfig()}

	if configPath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}
	applyReviewDefaults(&cfg.Review)
	return cfg, nil
}

func applyReviewDefaults(r *Review) {
	def := DefaultReviewConfig()
	r.ConcurrencyCap = SetThen(r.ConcurrencyCap, def.ConcurrencyCap)
	r.DiffChunkBudget = SetThen(r.DiffChunkBudget, def.DiffChunkBudget)
	r.ConfidenceThreshold = SetThen(r.ConfidenceThreshold, def.ConfidenceThreshold)
	r.MaxIterations = SetThen(r.MaxIterations, def.MaxIterations)
	r.ScannerTimeout = SetThen(r.ScannerTimeout, def.ScannerTimeout)
	r.RunTimeout = SetThen(r.RunTimeout, def.RunTimeout)
}
