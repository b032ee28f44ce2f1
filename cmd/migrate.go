// =============================================================================
// CBL to JSON Converter - Migrate Command
// =============================================================================
//
// This file defines the 'migrate' command, which re-emits a previously
// converted JSON document in a target schema version. Unlike 'convert', the
// document keeps its UniqueId.
//
// COMMAND USAGE:
//   cblconv migrate --file <json> [--spec-version <version>] [output]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/converter"
)

// migrateFile is the JSON document to migrate.
var migrateFile string

// migrateSpecVersion is the target schema version.
var migrateSpecVersion string

// migrateCmd represents the 'migrate' command.
var migrateCmd = &cobra.Command{
	Use:   "migrate --file <json> [output]",
	Short: "Re-emit a converted document in another schema version",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFile(migrateFile); err != nil {
			return err
		}

		output := mainConfig.OutputFile
		if len(args) == 1 {
			output = args[0]
		}

		conv := converter.New(converter.DefaultRegistry(nil), cmd.OutOrStdout(), log)
		_, err := conv.Migrate(migrateFile, output, resolveVersion(migrateSpecVersion), mainConfig.JSONIndent())
		return err
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVarP(&migrateFile, "file", "f", "", "Path to the JSON document to migrate")
	migrateCmd.Flags().StringVar(&migrateSpecVersion, "spec-version", "", "Target schema version (default "+converter.CurrentSpecVersion.String()+")")
	migrateCmd.MarkFlagRequired("file")
}
