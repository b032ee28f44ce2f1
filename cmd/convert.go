// =============================================================================
// CBL to JSON Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which runs the full conversion
// pipeline on one CBL file.
//
// COMMAND USAGE:
//   cblconv convert --file <path> [--spec-version <version>] [output]
//
// FLAGS:
//   --file          : The CBL file to convert (required)
//   --spec-version  : Target schema version (default: current version)
//   --xlsx          : Also write an XLSX review report to this path
//   --report        : Write the XLSX report next to the JSON output
//   --strict        : Fail when NumIssues does not match the number of books
//
// ARGUMENTS:
//   output          : JSON output path (default: output.json, "-" for stdout)
//
// =============================================================================

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/converter"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputFile is the CBL file to convert.
var inputFile string

// convertSpecVersion is the target schema version.
var convertSpecVersion string

// xlsxReport is the optional XLSX report path.
var xlsxReport string

// siblingReport names the XLSX report after the JSON output.
var siblingReport bool

// strict makes an issue-count mismatch fatal.
var strict bool

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert --file <path> [output]",
	Short: "Convert a CBL file to a JSON document",
	Long: `The convert command reads a legacy CBL reading list, converts it into the
requested schema version and writes the JSON document.

The output path defaults to output.json (or output_file from the configuration
file). Use "-" to write the document to stdout.

Every run mints a new UniqueId for the document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Path to the CBL file to convert")
	convertCmd.Flags().StringVar(&convertSpecVersion, "spec-version", "", "Target schema version (default "+converter.CurrentSpecVersion.String()+")")
	convertCmd.Flags().StringVar(&xlsxReport, "xlsx", "", "Also write an XLSX report to this path")
	convertCmd.Flags().BoolVar(&siblingReport, "report", false, "Also write an XLSX report next to the JSON output (list.json -> list.xlsx)")
	convertCmd.MarkFlagsMutuallyExclusive("xlsx", "report")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Fail when NumIssues does not match the number of books")
	convertCmd.MarkFlagRequired("file")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert resolves flags against the configuration and runs the converter.
func runConvert(cmd *cobra.Command, args []string) error {
	// The input must exist before any conversion work starts.
	if err := requireFile(inputFile); err != nil {
		return err
	}

	output := mainConfig.OutputFile
	if len(args) == 1 {
		output = args[0]
	}

	opts := converter.Options{
		InputPath:  inputFile,
		OutputPath: output,
		Version:    resolveVersion(convertSpecVersion),
		Indent:     mainConfig.JSONIndent(),
		XLSXReport: mainConfig.XLSXReport,
		Strict:     strict || mainConfig.Strict,
	}
	switch {
	case xlsxReport != "":
		opts.XLSXReport = xlsxReport
	case siblingReport:
		opts.XLSXReport = reportPath(inputFile, output)
	}

	conv := converter.New(converter.DefaultRegistry(nil), cmd.OutOrStdout(), log)
	_, err := conv.Run(opts)
	return err
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveVersion returns the --spec-version flag value, then the configured
// version. Empty means the current version.
func resolveVersion(flag string) specs.Version {
	if flag != "" {
		return specs.Version(flag)
	}
	return specs.Version(mainConfig.SpecVersion)
}

// reportPath names the XLSX report after the output file, or after the
// input file when the output goes to stdout.
func reportPath(input, output string) string {
	if output == utils.StdoutPath {
		return utils.SiblingPath(input, ".xlsx")
	}
	return utils.SiblingPath(output, ".xlsx")
}

// requireFile fails with types.ErrNotFound unless path is an existing
// regular file.
func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return types.NotFound(path, err)
	}
	if info.IsDir() {
		return types.NotFound(path, os.ErrNotExist)
	}
	return nil
}
