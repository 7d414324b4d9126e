package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// CONFIG — Tunable knobs, YAML-loadable
// ============================================================================
// Thresholds here are policy, not law: the display row cutoff and result
// cap are empirically chosen defaults that deployments may tune. The API
// key is read from the environment only — never from a config file.
// ============================================================================

// APIKeyEnv is the environment variable holding the model API key.
const APIKeyEnv = "GEMINI_API_KEY"

// Config collects every tunable the core exposes.
type Config struct {
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`

	ResolveTimeout time.Duration `yaml:"resolveTimeout"`
	ChartTimeout   time.Duration `yaml:"chartTimeout"`

	MaxResultRows int `yaml:"maxResultRows"`
	RowThreshold  int `yaml:"rowThreshold"`
	PreviewRows   int `yaml:"previewRows"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Model:          "gemini-2.0-flash",
		ResolveTimeout: 10 * time.Second,
		ChartTimeout:   20 * time.Second,
		MaxResultRows:  20,
		RowThreshold:   20,
		PreviewRows:    5,
	}
}

// Load reads a YAML config file over the defaults.
// Unset fields keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.withDefaults(), nil
}

// UnmarshalYAML decodes the config, accepting Go duration strings
// ("5s", "1m30s") for the timeout fields.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type raw struct {
		Model    string `yaml:"model"`
		Endpoint string `yaml:"endpoint"`

		ResolveTimeout string `yaml:"resolveTimeout"`
		ChartTimeout   string `yaml:"chartTimeout"`

		MaxResultRows int `yaml:"maxResultRows"`
		RowThreshold  int `yaml:"rowThreshold"`
		PreviewRows   int `yaml:"previewRows"`
	}

	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}

	if r.Model != "" {
		c.Model = r.Model
	}
	if r.Endpoint != "" {
		c.Endpoint = r.Endpoint
	}
	if r.ResolveTimeout != "" {
		d, err := time.ParseDuration(r.ResolveTimeout)
		if err != nil {
			return fmt.Errorf("invalid resolveTimeout: %w", err)
		}
		c.ResolveTimeout = d
	}
	if r.ChartTimeout != "" {
		d, err := time.ParseDuration(r.ChartTimeout)
		if err != nil {
			return fmt.Errorf("invalid chartTimeout: %w", err)
		}
		c.ChartTimeout = d
	}
	if r.MaxResultRows != 0 {
		c.MaxResultRows = r.MaxResultRows
	}
	if r.RowThreshold != 0 {
		c.RowThreshold = r.RowThreshold
	}
	if r.PreviewRows != 0 {
		c.PreviewRows = r.PreviewRows
	}
	return nil
}

// APIKey returns the model API key from the environment.
func APIKey() string { return os.Getenv(APIKeyEnv) }

func (c Config) withDefaults() Config {
	def := Default()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = def.ResolveTimeout
	}
	if c.ChartTimeout <= 0 {
		c.ChartTimeout = def.ChartTimeout
	}
	if c.MaxResultRows <= 0 {
		c.MaxResultRows = def.MaxResultRows
	}
	if c.RowThreshold <= 0 {
		c.RowThreshold = def.RowThreshold
	}
	if c.PreviewRows <= 0 {
		c.PreviewRows = def.PreviewRows
	}
	return c
}
