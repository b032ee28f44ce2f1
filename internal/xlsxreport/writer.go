// =============================================================================
// CBL to JSON Converter - XLSX Report Writer
// =============================================================================
//
// This module writes a spreadsheet summary of a converted 1.0-draft document
// so a reading list can be reviewed (and the placeholder fields filled in by
// hand) without reading JSON.
//
// WORKBOOK LAYOUT:
//
//   Sheet "List"                        Sheet "Issues"
//   | Field      | Value          |     | # | Series | Start Year | Number | Databases       |
//   |------------|----------------|     |---|--------|------------|--------|-----------------|
//   | Name       | Spider-Man ... |     | 1 | ASM    | 1963       | 1      |                 |
//   | Version    | 1.0-draft      |     | 2 | ASM    | 1965       | 14     | Comicvine:2/100 |
//   | Unique ID  | 6c9b...        |
//   | Start Year | 1963           |
//   | End Year   | 1965           |
//   | Issues     | 2              |
//
// =============================================================================

package xlsxreport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs/draft"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

// =============================================================================
// SHEET NAMES AND COLUMNS
// =============================================================================

const (
	// ListSheet holds one row per list-level field.
	ListSheet = "List"

	// IssuesSheet holds one row per issue.
	IssuesSheet = "Issues"
)

// issueHeaders are the column headers of IssuesSheet.
var issueHeaders = []interface{}{"#", "Series", "Start Year", "Number", "Type", "Cover Date", "Databases"}

// =============================================================================
// REPORT GENERATION
// =============================================================================

// Save writes a workbook from Build to path.
//
// RETURNS:
//   - A *types.Error of kind ErrWriteFailure if the workbook cannot be saved.
func Save(f *excelize.File, path string) error {
	if err := f.SaveAs(path); err != nil {
		return types.WriteFailure(path, err)
	}
	return nil
}

// Build creates the workbook in memory. The caller closes it.
func Build(doc *draft.Spec) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ListSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(IssuesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeListSheet(f, doc, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeIssuesSheet(f, doc, bold); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// writeListSheet writes the list-level details as field/value rows.
func writeListSheet(f *excelize.File, doc *draft.Spec, headerStyle int) error {
	details := doc.ListDetails
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Name", details.Name},
		{"Version", doc.FileDetails.Version.String()},
		{"Unique ID", doc.FileDetails.UniqueID},
		{"Start Year", details.StartYear},
		{"End Year", details.EndYear},
		{"Publisher", details.Publisher},
		{"Imprint", details.Imprint},
		{"Type", details.Type},
		{"Issues", len(doc.Issues)},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ListSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", ListSheet, i+1, err)
		}
	}

	if err := f.SetCellStyle(ListSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(ListSheet, "A", "B", 24)
}

// writeIssuesSheet writes one row per issue, in list order.
func writeIssuesSheet(f *excelize.File, doc *draft.Spec, headerStyle int) error {
	if err := f.SetSheetRow(IssuesSheet, "A1", &issueHeaders); err != nil {
		return fmt.Errorf("failed to write %s header: %w", IssuesSheet, err)
	}

	for i, issue := range doc.Issues {
		row := []interface{}{
			i + 1,
			issue.SeriesName,
			issue.SeriesStartYear,
			issue.IssueNum,
			issue.IssueType,
			issue.CoverDate,
			formatDatabases(issue.Databases),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(IssuesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", IssuesSheet, i+2, err)
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(issueHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(IssuesSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(IssuesSheet, "B", "B", 36)
}

// formatDatabases renders references as "Name:SeriesId/IssueId; ...".
func formatDatabases(databases []draft.Database) string {
	parts := make([]string, len(databases))
	for i, db := range databases {
		parts[i] = fmt.Sprintf("%s:%s/%s", db.Name, db.SeriesID, db.IssueID)
	}
	return strings.Join(parts, "; ")
}
