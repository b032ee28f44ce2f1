package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

const sampleCBL = `<?xml version="1.0"?>
<ReadingList>
  <Name>Spider-Man Chronology</Name>
  <NumIssues>2</NumIssues>
  <Books>
    <Book Series="Amazing Fantasy" Number="15" Volume="1962" Year="1962" />
    <Book Series="Amazing Spider-Man" Number="1" Volume="1963" Year="1963">
      <Database Name="cv" Series="2127" Issue="6686" />
    </Book>
  </Books>
</ReadingList>`

// workspace moves the test into an empty directory with no user config and
// writes the sample list there.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "xdg-dirs"))
	require.NoError(t, os.WriteFile("list.cbl", []byte(sampleCBL), 0o644))
	return dir
}

// execute runs the CLI with args, starting from pristine flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func readDocument(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func uniqueID(doc map[string]interface{}) string {
	return doc["FileDetails"].(map[string]interface{})["UniqueId"].(string)
}

func TestCurrentSpec(t *testing.T) {
	workspace(t)

	out, err := execute(t, "current-spec")
	require.NoError(t, err)
	assert.Equal(t, "1.0-draft\n", out)
}

func TestVersion(t *testing.T) {
	workspace(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "CBL to JSON Converter")
	assert.Contains(t, out, "Spec Version: 1.0-draft")
}

func TestConvertDefaultOutput(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl")
	require.NoError(t, err)

	doc := readDocument(t, "output.json")
	details := doc["FileDetails"].(map[string]interface{})
	assert.Equal(t, "1.0-draft", details["Version"])
	assert.Len(t, uniqueID(doc), 36)

	list := doc["ListDetails"].(map[string]interface{})
	assert.Equal(t, "Spider-Man Chronology", list["Name"])
	assert.EqualValues(t, 1962, list["StartYear"])
	assert.EqualValues(t, 1963, list["EndYear"])
	assert.Len(t, doc["Issues"], 2)
}

func TestConvertExplicitOutputAndVersion(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl", "--spec-version", "1.0-draft", "lists/spidey.json")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("lists", "spidey.json"))
	assert.NoFileExists(t, "output.json")
}

func TestConvertToStdout(t *testing.T) {
	workspace(t)

	out, err := execute(t, "convert", "--file", "list.cbl", "-")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "Issues")
}

func TestConvertMissingFile(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "nope.cbl")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoFileExists(t, "output.json")
}

func TestConvertRequiresFileFlag(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestConvertUnsupportedVersion(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl", "--spec-version", "9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported spec version")
	assert.NoFileExists(t, "output.json")
}

func TestConvertUsesConfigFile(t *testing.T) {
	workspace(t)
	config := "output_file: from-config.json\nindent: none\nxlsx_report: report.xlsx\n"
	require.NoError(t, os.WriteFile("cblconv.yaml", []byte(config), 0o644))

	_, err := execute(t, "convert", "--file", "list.cbl")
	require.NoError(t, err)

	data, err := os.ReadFile("from-config.json")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n  ")
	assert.FileExists(t, "report.xlsx")
}

func TestConvertStrictMismatch(t *testing.T) {
	workspace(t)
	short := `<ReadingList><Name>Short</Name><NumIssues>3</NumIssues><Books /></ReadingList>`
	require.NoError(t, os.WriteFile("short.cbl", []byte(short), 0o644))

	_, err := execute(t, "convert", "--file", "short.cbl", "--strict")
	assert.ErrorIs(t, err, types.ErrMalformed)

	_, err = execute(t, "convert", "--file", "short.cbl")
	assert.NoError(t, err)
}

func TestInspect(t *testing.T) {
	workspace(t)

	out, err := execute(t, "inspect", "--file", "list.cbl")
	require.NoError(t, err)
	assert.Contains(t, out, "Spider-Man Chronology")
	assert.Contains(t, out, "Amazing Fantasy")
	assert.Contains(t, out, "cv:2127/6686")
	assert.NoFileExists(t, "output.json")
}

func TestMigrateKeepsUniqueID(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl", "first.json")
	require.NoError(t, err)
	_, err = execute(t, "migrate", "--file", "first.json", "second.json")
	require.NoError(t, err)

	assert.Equal(t, uniqueID(readDocument(t, "first.json")), uniqueID(readDocument(t, "second.json")))
}

func TestConvertMintsFreshUniqueID(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl", "a.json")
	require.NoError(t, err)
	_, err = execute(t, "convert", "--file", "list.cbl", "b.json")
	require.NoError(t, err)

	assert.NotEqual(t, uniqueID(readDocument(t, "a.json")), uniqueID(readDocument(t, "b.json")))
}

func TestConvertReportNextToOutput(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl", "--report", filepath.Join("out", "spidey.json"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("out", "spidey.json"))
	assert.FileExists(t, filepath.Join("out", "spidey.xlsx"))
}

func TestConvertReportAndXLSXConflict(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl", "--report", "--xlsx", "r.xlsx")
	require.Error(t, err)
	assert.NoFileExists(t, "output.json")
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "list.xlsx"), reportPath("in.cbl", filepath.Join("out", "list.json")))
	assert.Equal(t, filepath.Join("lists", "in.xlsx"), reportPath(filepath.Join("lists", "in.cbl"), "-"))
}

func TestSpecVersionFlagsAreIndependent(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	require.NoError(t, convertCmd.Flags().Set("spec-version", "9.9"))
	assert.Equal(t, "9.9", convertSpecVersion)
	assert.Equal(t, "", migrateSpecVersion)
	assert.Equal(t, "", migrateCmd.Flags().Lookup("spec-version").Value.String())
}

func TestMigrateUnsupportedVersionAfterConvert(t *testing.T) {
	workspace(t)

	_, err := execute(t, "convert", "--file", "list.cbl", "first.json")
	require.NoError(t, err)

	_, err = execute(t, "migrate", "--file", "first.json", "--spec-version", "9.9", "second.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported spec version")
	assert.NoFileExists(t, "second.json")
}

func TestConfigFlagHelpNamesUserConfig(t *testing.T) {
	usage := rootCmd.PersistentFlags().Lookup("config").Usage
	assert.Contains(t, usage, "cblconv.yaml")
	assert.Contains(t, usage, filepath.Join("cblconv", "config.yaml"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
