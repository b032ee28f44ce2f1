package utils

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

func writeString(fm *FileManager, path, content string) error {
	return fm.Write(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

func TestWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	fm := NewFileManager(io.Discard)

	require.NoError(t, writeString(fm, path, `{"a":1}`))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestWriteTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("much longer previous content"), 0o644))

	require.NoError(t, writeString(NewFileManager(io.Discard), path, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")

	require.NoError(t, writeString(NewFileManager(io.Discard), path, "x"))
	assert.FileExists(t, path)
}

func TestWriteToStdout(t *testing.T) {
	var stdout bytes.Buffer

	require.NoError(t, writeString(NewFileManager(&stdout), StdoutPath, "hello"))
	assert.Equal(t, "hello", stdout.String())
}

func TestWriteFailureOnDirectoryTarget(t *testing.T) {
	dir := t.TempDir()

	err := writeString(NewFileManager(io.Discard), dir, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrWriteFailure)
}

func TestWriteFailureFromProducer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	boom := errors.New("boom")

	err := NewFileManager(io.Discard).Write(path, func(w io.Writer) error {
		io.WriteString(w, `{"partial":`)
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrWriteFailure)
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path)
}

func TestDiscard(t *testing.T) {
	fm := NewFileManager(io.Discard)
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeString(fm, path, "{}"))

	require.NoError(t, fm.Discard(path))
	assert.NoFileExists(t, path)

	require.NoError(t, fm.Discard(path))
	require.NoError(t, fm.Discard(StdoutPath))
}

func TestSiblingPath(t *testing.T) {
	assert.Equal(t, filepath.Join("lists", "Spider-Man.json"), SiblingPath(filepath.Join("lists", "Spider-Man.cbl"), ".json"))
	assert.Equal(t, "noext.xlsx", SiblingPath("noext", "xlsx"))
}

func TestDisplayPath(t *testing.T) {
	assert.Equal(t, "<stdout>", DisplayPath(StdoutPath))
	assert.Equal(t, `"out.json"`, DisplayPath("out.json"))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}
