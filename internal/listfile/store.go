// Package listfile manages the generated .xcfilelist files that hold a copy
// phase's input and output paths, one per line.
//
// Files are kept read-only between writes to mark them as generated.
package listfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// FolderName is the folder, relative to the project directory, holding list files.
const FolderName = "xcfilelists"

// Extension is the list file extension.
const Extension = ".xcfilelist"

// Separator joins paths inside a list file, and contents in append mode.
const Separator = "\n"

// InputFileName returns the input list file name for a target.
func InputFileName(targetName string) string {
	return targetName + "-inputPaths" + Extension
}

// OutputFileName returns the output list file name for a target.
func OutputFileName(targetName string) string {
	return targetName + "-outputPaths" + Extension
}

// IOError reports a failed filesystem operation on a list file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Store reads and writes list files.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Folder returns the list file folder for projectDir.
func Folder(projectDir string) string {
	return filepath.Join(projectDir, FolderName)
}

// EnsureFolder creates the list file folder inside projectDir if needed.
func (s *Store) EnsureFolder(projectDir string) (string, error) {
	folder := Folder(projectDir)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", &IOError{Op: "create folder", Path: folder, Err: err}
	}
	return folder, nil
}

// Reconcile makes folder/filename hold content and reports whether the file
// was created or changed. In append mode the file keeps its current content
// and content is added after a separator.
func (s *Store) Reconcile(folder, filename, content string, appendMode bool) (bool, error) {
	path := filepath.Join(folder, filename)

	current, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return false, &IOError{Op: "create", Path: path, Err: err}
		}
		if err := setReadOnly(path); err != nil {
			return false, err
		}
		s.logger.Info("list file added", "file", filename)
		return true, nil
	}
	if err != nil {
		return false, &IOError{Op: "read", Path: path, Err: err}
	}

	next := content
	if appendMode {
		next = string(current) + Separator + content
	}
	if next == string(current) {
		s.logger.Debug("list file unchanged", "file", filename)
		return false, nil
	}

	err = withWritable(path, func() error {
		return os.WriteFile(path, []byte(next), 0o644)
	})
	if err != nil {
		return false, err
	}
	s.logger.Info("list file updated", "file", filename, "append", appendMode)
	return true, nil
}

// ReadLines returns the non-empty lines of folder/filename.
// A missing file yields no lines and no error.
func (s *Store) ReadLines(folder, filename string) ([]string, error) {
	path := filepath.Join(folder, filename)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return lo.Compact(strings.Split(string(data), Separator)), nil
}

// withWritable makes path writable for the duration of fn and restores the
// read-only mode afterwards, also when fn fails.
func withWritable(path string, fn func() error) (err error) {
	info, err := os.Stat(path)
	if err != nil {
		return &IOError{Op: "stat", Path: path, Err: err}
	}
	if err := os.Chmod(path, info.Mode().Perm()|0o200); err != nil {
		return &IOError{Op: "make writable", Path: path, Err: err}
	}
	defer func() {
		if rerr := setReadOnly(path); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if werr := fn(); werr != nil {
		return &IOError{Op: "write", Path: path, Err: werr}
	}
	return nil
}

func setReadOnly(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &IOError{Op: "stat", Path: path, Err: err}
	}
	if err := os.Chmod(path, info.Mode().Perm()&^0o222); err != nil {
		return &IOError{Op: "make read-only", Path: path, Err: err}
	}
	return nil
}
