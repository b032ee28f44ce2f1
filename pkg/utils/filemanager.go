// =============================================================================
// CBL to JSON Converter - File Manager Utilities
// =============================================================================
//
// This module provides the file operations around a conversion run:
//   - Writing the converted document (create, write fully, close)
//   - Writing to stdout when the output path is "-"
//   - Reading a previously written document back
//   - Creating missing parent directories of the output path
//   - Discarding an output when a later step of the run fails
//   - Deriving sibling output names (e.g. "list.cbl" -> "list.json")
//
// Every write failure is reported as types.ErrWriteFailure. The file handle
// is released on every exit path, and a file that could not be written
// completely is removed again.
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/CBL-to-JSON-conversion/internal/types"
)

// StdoutPath selects standard output as the write target.
const StdoutPath = "-"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes conversion outputs.
type FileManager struct {
	// Stdout receives output when the path is StdoutPath.
	Stdout io.Writer

	// CreateParentDirs creates missing parent directories before writing.
	CreateParentDirs bool

	// FileMode is the permission used for new files.
	FileMode os.FileMode
}

// NewFileManager creates a FileManager writing "-" to stdout.
func NewFileManager(stdout io.Writer) *FileManager {
	return &FileManager{
		Stdout:           stdout,
		CreateParentDirs: true,
		FileMode:         0o644,
	}
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// WriteFunc streams content to w.
type WriteFunc func(w io.Writer) error

// Write creates path and streams content into it through write.
//
// PARAMETERS:
//   - path: The output file, or StdoutPath.
//   - write: Produces the content.
//
// RETURNS:
//   - A *types.Error of kind ErrWriteFailure if the file cannot be created,
//     written, flushed or closed.
func (fm *FileManager) Write(path string, write WriteFunc) (err error) {
	if path == StdoutPath {
		if err := write(fm.Stdout); err != nil {
			return types.WriteFailure("<stdout>", err)
		}
		return nil
	}

	if fm.CreateParentDirs {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return types.WriteFailure(path, err)
			}
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fm.FileMode)
	if err != nil {
		return types.WriteFailure(path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = types.WriteFailure(path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	writer := bufio.NewWriter(file)
	if err := write(writer); err != nil {
		return types.WriteFailure(path, err)
	}
	if err := writer.Flush(); err != nil {
		return types.WriteFailure(path, err)
	}

	return nil
}

// Discard removes a file written earlier in a run that failed later on.
// StdoutPath and missing files are ignored.
func (fm *FileManager) Discard(path string) error {
	if path == StdoutPath {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// =============================================================================
// INPUT READING
// =============================================================================

// ReadFile opens path, reads it fully and closes it. Any failure is reported
// as types.ErrNotFound.
func ReadFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, types.NotFound(path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, types.NotFound(path, err)
	}
	return data, nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// SiblingPath replaces the extension of inputPath with ext.
//
// Example:
//   SiblingPath("lists/Spider-Man.cbl", ".json") -> "lists/Spider-Man.json"
func SiblingPath(inputPath, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + ext
}

// DisplayPath formats a write target for messages.
func DisplayPath(path string) string {
	if path == StdoutPath {
		return "<stdout>"
	}
	return fmt.Sprintf("%q", path)
}
