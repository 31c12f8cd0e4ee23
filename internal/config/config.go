// Package config builds the process-wide configuration once at startup.
// Core packages never read ambient environment state; they receive this
// struct (or a slice of it) through their constructors.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
)

// Config represents the complete application configuration.
type Config struct {
	// CredsPath points at the Google service-account JSON key. The key file
	// lives outside the repository and is never committed.
	CredsPath string `yaml:"creds_path" envconfig:"CREDS_PATH"`

	// SpreadsheetID identifies the Google Sheet used as the datastore.
	SpreadsheetID string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`

	// WorksheetTitle selects the tab to read and append. Empty targets the
	// first worksheet.
	WorksheetTitle string `yaml:"worksheet_title" envconfig:"WORKSHEET_TITLE"`

	// ExportDir is where analysis result files are written.
	ExportDir string `yaml:"export_dir" envconfig:"EXPORT_DIR" default:"."`

	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/property-tracker.log"`
}

// Load builds the configuration from environment variables (prefix PT_) and
// an optional YAML file. Environment values take precedence over the file.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PT", &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from environment", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, apperrors.NewConfigError(
					fmt.Sprintf("failed to load config file %s", configFile), err)
			}
			cfg = merge(*fileCfg, cfg)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile reads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// merge overlays env config on file config; env wins wherever it is set.
func merge(fileCfg, envCfg Config) Config {
	if envCfg.CredsPath == "" {
		envCfg.CredsPath = fileCfg.CredsPath
	}
	if envCfg.SpreadsheetID == "" {
		envCfg.SpreadsheetID = fileCfg.SpreadsheetID
	}
	if envCfg.WorksheetTitle == "" {
		envCfg.WorksheetTitle = fileCfg.WorksheetTitle
	}
	if fileCfg.ExportDir != "" && envCfg.ExportDir == "." {
		envCfg.ExportDir = fileCfg.ExportDir
	}
	if fileCfg.Logging.Level != "" && envCfg.Logging.Level == "info" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Output != "" && envCfg.Logging.Output == "console" {
		envCfg.Logging.Output = fileCfg.Logging.Output
	}
	if fileCfg.Logging.FilePath != "" {
		envCfg.Logging.FilePath = fileCfg.Logging.FilePath
	}
	return envCfg
}

// applyDefaults fills values that need runtime lookups.
func (c *Config) applyDefaults() error {
	if c.CredsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return apperrors.NewConfigError("cannot resolve home directory for default credentials path", err)
		}
		c.CredsPath = filepath.Join(home, ".secrets", "property-tracker-creds.json")
	}
	return nil
}

// Validate fails fast on configuration the tool cannot run without.
func (c *Config) Validate() error {
	if c.SpreadsheetID == "" {
		return apperrors.NewConfigError(
			"spreadsheet id is required: set PT_SPREADSHEET_ID or spreadsheet_id in the config file", nil)
	}
	if _, err := os.Stat(c.CredsPath); err != nil {
		return apperrors.NewConfigError(
			fmt.Sprintf("credentials file not found: %s (set PT_CREDS_PATH to your service-account key)", c.CredsPath), err)
	}
	return nil
}
