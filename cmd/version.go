// =============================================================================
// CBL to JSON Converter - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   cblconv version
//
// OUTPUT:
//   CBL to JSON Converter
//   Version:      1.0.0
//   Build Date:   2026-01-01
//   Spec Version: 1.0-draft
//   Go Version:   go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/converter"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/CBL-to-JSON-conversion/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// =============================================================================
// VERSION COMMAND DEFINITION
// =============================================================================

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, schema version and Go runtime version.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "CBL to JSON Converter")
		fmt.Fprintf(out, "Version:      %s\n", Version)
		fmt.Fprintf(out, "Build Date:   %s\n", BuildDate)
		fmt.Fprintf(out, "Spec Version: %s\n", converter.CurrentSpecVersion)
		fmt.Fprintf(out, "Go Version:   %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
