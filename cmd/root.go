// =============================================================================
// CBL to JSON Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All subcommands are
// attached to it from their own init functions.
//
// COBRA CLI STRUCTURE:
//   rootCmd (cblconv)
//   ├── convertCmd     (cblconv convert)
//   ├── currentSpecCmd (cblconv current-spec)
//   ├── inspectCmd     (cblconv inspect)
//   ├── migrateCmd     (cblconv migrate)
//   └── versionCmd     (cblconv version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file, if any
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/config"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path given with --config. Empty means the default lookup.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig is the configuration loaded before any subcommand runs.
var mainConfig = config.Default()

// log is the logger configured from mainConfig.
var log = zerolog.Nop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cblconv",
	Short: "CBL to JSON Converter - Convert ComicRack reading lists to versioned JSON",
	Long: `cblconv converts legacy ComicRack reading lists (.cbl XML files) into JSON
documents following a versioned reading-list schema.

Example Usage:
  cblconv current-spec                                  # Print the current schema version
  cblconv convert --file "Spider-Man.cbl"               # Write output.json
  cblconv convert --file "Spider-Man.cbl" list.json     # Write list.json
  cblconv convert --file "Spider-Man.cbl" -             # Write to stdout
  cblconv inspect --file "Spider-Man.cbl"               # Show the parsed list
  cblconv migrate --file list.json migrated.json        # Re-emit an existing document`,

	// Errors are printed once by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a configuration file (default ./"+config.LocalConfigFile+", then "+config.XDGConfigPath()+")",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the configuration and sets up the logger.
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	mainConfig = loaded

	log = logger.Init(mainConfig.LogFormat, mainConfig.LogLevel, verbose)
	if mainConfig.Source != "" {
		log.Debug().Str("file", mainConfig.Source).Msg("loaded configuration")
	}
	return nil
}
