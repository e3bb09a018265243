package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

// Environment variables that override the config file
const (
	EnvDatabasePath = "FSMINSPECT_DB"
	EnvLogLevel     = "FSMINSPECT_LOG_LEVEL"
)

// Config holds all fsminspect configuration.
type Config struct {
	Policy  PolicyConfig  `yaml:"policy"`
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
}

// PolicyConfig is the tolerance rule set. Millimetre values are kept as
// strings so they reach decimal arithmetic without passing through float64.
type PolicyConfig struct {
	NominalToleranceMm   string `yaml:"nominal_tolerance_mm"`
	EdgeToleranceMm      string `yaml:"edge_tolerance_mm"`
	EdgeZoneMm           string `yaml:"edge_zone_mm"`
	SmallHoleMaxMm       string `yaml:"small_hole_max_mm"`
	SmallHoleUpperMm     string `yaml:"small_hole_upper_mm"`
	LargeHoleUpperMm     string `yaml:"large_hole_upper_mm"`
	SlotUpperMm          string `yaml:"slot_upper_mm"`
	SlotHeightConvention string `yaml:"slot_height_convention"` // first-token, min-max
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// StorageConfig configures the report archive.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	// Archive stores every evaluated report when true
	Archive bool `yaml:"archive"`
}

// DefaultConfig returns the canonical policy, info logging to stderr and an
// archive under .fsminspect in the working directory.
func DefaultConfig() *Config {
	p := entities.DefaultTolerancePolicy()
	return &Config{
		Policy: PolicyConfig{
			NominalToleranceMm:   p.NominalToleranceMm.String(),
			EdgeToleranceMm:      p.EdgeToleranceMm.String(),
			EdgeZoneMm:           p.EdgeZoneMm.String(),
			SmallHoleMaxMm:       p.SmallHoleMaxMm.String(),
			SmallHoleUpperMm:     p.SmallHoleUpperMm.String(),
			LargeHoleUpperMm:     p.LargeHoleUpperMm.String(),
			SlotUpperMm:          p.SlotUpperMm.String(),
			SlotHeightConvention: string(p.SlotHeightConvention),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(".fsminspect", "reports.db"),
		},
	}
}

// Load reads the config at path. A missing file yields the defaults;
// environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Marshal encodes the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv(EnvDatabasePath); path != "" {
		c.Storage.DatabasePath = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the policy and logging sections.
func (c *Config) Validate() error {
	if _, err := c.Policy.ToPolicy(); err != nil {
		return err
	}

	validLevel := false
	for _, l := range validLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, validLogLevels)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}

	if c.Storage.Archive && c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.archive is enabled but storage.database_path is empty")
	}

	return nil
}

// ToPolicy parses the policy section. Empty values fall back to the canonical rule.
func (p PolicyConfig) ToPolicy() (entities.TolerancePolicy, error) {
	policy := entities.DefaultTolerancePolicy()

	fields := []struct {
		name  string
		raw   string
		value *decimal.Decimal
	}{
		{"nominal_tolerance_mm", p.NominalToleranceMm, &policy.NominalToleranceMm},
		{"edge_tolerance_mm", p.EdgeToleranceMm, &policy.EdgeToleranceMm},
		{"edge_zone_mm", p.EdgeZoneMm, &policy.EdgeZoneMm},
		{"small_hole_max_mm", p.SmallHoleMaxMm, &policy.SmallHoleMaxMm},
		{"small_hole_upper_mm", p.SmallHoleUpperMm, &policy.SmallHoleUpperMm},
		{"large_hole_upper_mm", p.LargeHoleUpperMm, &policy.LargeHoleUpperMm},
		{"slot_upper_mm", p.SlotUpperMm, &policy.SlotUpperMm},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return policy, fmt.Errorf("invalid policy.%s: %q", f.name, f.raw)
		}
		*f.value = d
	}
	if p.SlotHeightConvention != "" {
		policy.SlotHeightConvention = entities.SlotHeightConvention(p.SlotHeightConvention)
	}

	if err := policy.Validate(); err != nil {
		return policy, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}
