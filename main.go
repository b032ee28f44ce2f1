// =============================================================================
// CBL to JSON Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the CBL to JSON Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   cblconv current-spec    - Print the current schema version
//   cblconv convert         - Convert a CBL file to JSON
//   cblconv inspect         - Show the contents of a CBL file
//   cblconv migrate         - Re-emit a converted document
//   cblconv version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/                    : CLI command definitions (Cobra)
//   - internal/cbl            : Legacy CBL parser
//   - internal/specs          : Schema version registry and JSON codec
//   - internal/specs/draft    : The 1.0-draft schema
//   - internal/converter      : Conversion pipeline
//   - internal/validation     : Data-quality checks on parsed lists
//   - internal/xlsxreport     : Optional spreadsheet report
//   - internal/config         : YAML configuration
//   - internal/logger         : zerolog setup
//   - internal/types          : Shared error kinds
//   - pkg/utils               : File handling
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/CBL-to-JSON-conversion/cmd"
)

func main() {
	cmd.Execute()
}
