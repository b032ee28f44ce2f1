// =============================================================================
// CBL to JSON Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// built-in default, so running without any configuration file is normal.
//
// LOOKUP ORDER:
//   1. The path given with --config (must exist)
//   2. ./cblconv.yaml in the working directory
//   3. $XDG_CONFIG_HOME/cblconv/config.yaml (and the other XDG config dirs)
//   4. Built-in defaults
//
// Command-line flags override anything loaded here.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// LocalConfigFile is looked up in the working directory.
	LocalConfigFile = "cblconv.yaml"

	// XDGConfigFile is looked up relative to the XDG config directories.
	XDGConfigFile = "cblconv/config.yaml"

	// DefaultOutputFile is written when no output path is given.
	DefaultOutputFile = "output.json"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFile is the JSON output path when none is given on the command
	// line. "-" writes to stdout.
	// Default: "output.json"
	OutputFile string `yaml:"output_file"`

	// SpecVersion is the target schema version. Empty selects the current
	// version.
	SpecVersion string `yaml:"spec_version"`

	// Indent is the JSON indentation string. Use "none" for compact output.
	// Default: "  " (two spaces)
	Indent string `yaml:"indent"`

	// XLSXReport, when set, is the path of a spreadsheet summary written
	// next to the JSON output.
	XLSXReport string `yaml:"xlsx_report"`

	// =========================================================================
	// VALIDATION SETTINGS
	// =========================================================================

	// Strict makes an issue-count mismatch in the source list fatal.
	// Default: false
	Strict bool `yaml:"strict"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects "console" (human readable) or "json" log lines.
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `yaml:"-"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// Load resolves and loads the configuration.
//
// PARAMETERS:
//   - explicitPath: The --config flag value. When non-empty the file must
//     exist; otherwise the lookup order above is used.
//
// RETURNS:
//   - The loaded configuration with defaults applied.
//   - An error if a file was found but cannot be read, parsed or validated.
func Load(explicitPath string) (*MainConfig, error) {
	path := explicitPath
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return Default(), nil
	}
	return LoadMainConfig(path)
}

// LoadMainConfig loads the configuration from a YAML file.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse the YAML.
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(&config)
	config.Source = configPath

	// Validate the configuration.
	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if info, err := os.Stat(LocalConfigFile); err == nil && !info.IsDir() {
		return LocalConfigFile
	}

	xdg.Reload()
	if path, err := xdg.SearchConfigFile(XDGConfigFile); err == nil {
		return path
	}

	return ""
}

// XDGConfigPath is where a user-level configuration file is expected.
func XDGConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, XDGConfigFile)
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputFile == "" {
		config.OutputFile = DefaultOutputFile
	}
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	var errs []error

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", config.LogLevel))
	}

	switch config.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q is not one of console, json", config.LogFormat))
	}

	if strings.TrimSpace(config.Indent) != "" && config.Indent != "none" {
		errs = append(errs, fmt.Errorf("indent must be whitespace or \"none\", got %q", config.Indent))
	}

	return errors.Join(errs...)
}

// JSONIndent returns the indent to pass to the JSON encoder.
func (c *MainConfig) JSONIndent() string {
	if c.Indent == "none" {
		return ""
	}
	return c.Indent
}
