// =============================================================================
// CBL to JSON Converter - Current Spec Command
// =============================================================================
//
// COMMAND USAGE:
//   cblconv current-spec
//
// OUTPUT:
//   1.0-draft
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/converter"
)

// currentSpecCmd prints the schema version used by default.
var currentSpecCmd = &cobra.Command{
	Use:   "current-spec",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), converter.CurrentSpecVersion)
	},
}

func init() {
	rootCmd.AddCommand(currentSpecCmd)
}
