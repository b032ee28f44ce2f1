package xlsxreport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/cbl"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/specs/draft"
	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

func sampleDoc() *draft.Spec {
	list := &cbl.ReadingList{
		Name:      "Spider-Man Chronology",
		NumIssues: 2,
		Issues: []cbl.Issue{
			{Series: "Amazing Spider-Man", Number: "1", Year: 1963},
			{
				Series: "Amazing Spider-Man", Number: "14", Year: 1965,
				Database: &cbl.Database{Name: "Comicvine", Series: "2", Issue: "100"},
			},
		},
	}
	return draft.New(func() string { return "report-id" }).FromLegacy(list).(*draft.Spec)
}

func buildAndSave(doc *draft.Spec, path string) error {
	f, err := Build(doc)
	if err != nil {
		return err
	}
	defer f.Close()
	return Save(f, path)
}

func TestBuildAndSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, buildAndSave(sampleDoc(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ListSheet, IssuesSheet}, f.GetSheetList())

	rows, err := f.GetRows(ListSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Spider-Man Chronology"}, rows[1])
	assert.Equal(t, []string{"Unique ID", "report-id"}, rows[3])
	assert.Equal(t, []string{"Start Year", "1963"}, rows[4])
	assert.Equal(t, []string{"End Year", "1965"}, rows[5])

	issues, err := f.GetRows(IssuesSheet)
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, "Series", issues[0][1])
	assert.Equal(t, []string{"1", "Amazing Spider-Man", "1963", "1"}, issues[1])
	assert.Equal(t, "Comicvine:2/100", issues[2][6])
}

func TestSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := buildAndSave(sampleDoc(), filepath.Join(blocker, "report.xlsx"))
	assert.ErrorIs(t, err, types.ErrWriteFailure)
}

func TestFormatDatabases(t *testing.T) {
	assert.Equal(t, "", formatDatabases(nil))
	assert.Equal(t, "cv:1/2; gcd:a/b", formatDatabases([]draft.Database{
		{Name: "cv", SeriesID: "1", IssueID: "2"},
		{Name: "gcd", SeriesID: "a", IssueID: "b"},
	}))
}
