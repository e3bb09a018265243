package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate: %v", err)
	}

	policy, err := cfg.Policy.ToPolicy()
	if err != nil {
		t.Fatalf("ToPolicy: %v", err)
	}
	if diff := cmp.Diff(entities.DefaultTolerancePolicy(), policy, decimalEqual); diff != "" {
		t.Errorf("default policy mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsminspect.yaml")
	content := `policy:
  edge_zone_mm: 250
  slot_height_convention: min-max
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDatabasePath, "/var/lib/fsminspect/archive.db")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DatabasePath != "/var/lib/fsminspect/archive.db" {
		t.Errorf("Expected env database path, got %s", cfg.Storage.DatabasePath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected env log level to win over file, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Expected unset format to keep default, got %s", cfg.Logging.Format)
	}

	policy, err := cfg.Policy.ToPolicy()
	if err != nil {
		t.Fatalf("ToPolicy: %v", err)
	}
	if !policy.EdgeZoneMm.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected edge zone 250, got %s", policy.EdgeZoneMm)
	}
	if policy.SlotHeightConvention != entities.SlotMinMaxHeight {
		t.Errorf("Expected min-max convention, got %s", policy.SlotHeightConvention)
	}
	if !policy.SmallHoleUpperMm.Equal(decimal.RequireFromString("0.4")) {
		t.Errorf("Expected untouched small hole allowance 0.4, got %s", policy.SmallHoleUpperMm)
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvDatabasePath, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "nested", "fsminspect.yaml")
	cfg := DefaultConfig()
	cfg.Policy.SmallHoleMaxMm = "10.75"
	cfg.Storage.Archive = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(c *Config)
		expectError string
	}{
		{"bad number", func(c *Config) { c.Policy.EdgeToleranceMm = "wide" }, `invalid policy.edge_tolerance_mm: "wide"`},
		{"negative tolerance", func(c *Config) { c.Policy.NominalToleranceMm = "-1" }, "invalid policy: nominal tolerance must be positive"},
		{"bad convention", func(c *Config) { c.Policy.SlotHeightConvention = "largest" }, "unknown slot height convention"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level: loud"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "invalid log format: xml"},
		{"archive without path", func(c *Config) { c.Storage.Archive = true; c.Storage.DatabasePath = "" }, "database_path is empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}
