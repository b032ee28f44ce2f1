// =============================================================================
// CBL to JSON Converter - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which parses a CBL file and prints
// what was read without converting or writing anything.
//
// COMMAND USAGE:
//   cblconv inspect --file <path>
//
// OUTPUT:
//   A table of the books in source order, followed by any validation findings.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/cbl"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/validation"
)

// inspectFile is the CBL file to inspect.
var inspectFile string

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect --file <path>",
	Short: "Show the contents of a CBL file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireFile(inspectFile); err != nil {
			return err
		}

		list, err := cbl.ParseFile(inspectFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderList(out, list)

		findings := validation.Validate(list, validation.Options{Strict: mainConfig.Strict})
		if len(findings.Errors) > 0 {
			fmt.Fprintln(out)
			fmt.Fprint(out, validation.FormatErrors(findings.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "Path to the CBL file to inspect")
	inspectCmd.MarkFlagRequired("file")
}

// renderList prints list as a table.
func renderList(out io.Writer, list *cbl.ReadingList) {
	fmt.Fprintf(out, "%s\n", list.Name)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Series", "Number", "Volume", "Year", "Database"})

	for i, issue := range list.Issues {
		t.AppendRow(table.Row{
			i + 1,
			issue.Series,
			issue.Number,
			optionalInt(issue.Volume),
			optionalInt(issue.Year),
			databaseLabel(issue.Database),
		})
	}

	t.AppendFooter(table.Row{"", "Declared", list.NumIssues, "", "Found", len(list.Issues)})
	t.Render()
}

// optionalInt renders the absent-value sentinel as an empty cell.
func optionalInt(v int) string {
	if v == cbl.Sentinel {
		return ""
	}
	return strconv.Itoa(v)
}

func databaseLabel(db *cbl.Database) string {
	if db == nil {
		return ""
	}
	return fmt.Sprintf("%s:%s/%s", db.Name, db.Series, db.Issue)
}
