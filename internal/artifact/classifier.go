package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// ErrArtifactsDirectoryMissing is returned when the frameworks directory does
// not exist or cannot be read.
var ErrArtifactsDirectoryMissing = errors.New("frameworks directory not found")

// staticArchiveMarker is what `file` prints for a static library archive.
const staticArchiveMarker = "current ar archive"

// InspectionError reports a failed inspection of a framework binary.
type InspectionError struct {
	Path string
	Err  error
}

func (e *InspectionError) Error() string {
	return fmt.Sprintf("failed to inspect %s: %v", e.Path, e.Err)
}

func (e *InspectionError) Unwrap() error {
	return e.Err
}

// Report is the raw output of inspecting one binary.
type Report struct {
	// FileType is the file-type description, e.g. the output of `file`.
	FileType string
	// Architectures is the architecture report line, e.g. the output of `lipo -info`.
	Architectures string
}

// Inspector inspects a framework binary.
type Inspector interface {
	Inspect(ctx context.Context, binaryPath string) (Report, error)
}

// Config holds classifier configuration.
type Config struct {
	// Inspector inspects binaries (defaults to an ExecInspector)
	Inspector Inspector
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Classifier discovers and classifies framework bundles.
type Classifier struct {
	inspector Inspector
	logger    *slog.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(cfg Config) *Classifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	inspector := cfg.Inspector
	if inspector == nil {
		inspector = NewExecInspector()
	}
	return &Classifier{
		inspector: inspector,
		logger:    logger,
	}
}

// Discover classifies every framework bundle directly inside dir.
// Bundles are returned in directory listing order (sorted by name).
func (c *Classifier) Discover(ctx context.Context, dir string) ([]Artifact, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrArtifactsDirectoryMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactsDirectoryMissing, dir, err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), BundleSuffix) || !isDir(dir, entry) {
			continue
		}

		a, err := c.classify(ctx, dir, entry.Name())
		if err != nil {
			return nil, err
		}
		c.logger.Debug("classified framework",
			"name", a.Name,
			"linking", a.Linking,
			"architectures", a.ArchitectureList())
		artifacts = append(artifacts, a)
	}

	return artifacts, nil
}

// DynamicOnly returns the dynamically linked frameworks inside dir.
func (c *Classifier) DynamicOnly(ctx context.Context, dir string) ([]Artifact, error) {
	artifacts, err := c.Discover(ctx, dir)
	if err != nil {
		return nil, err
	}
	return lo.Filter(artifacts, func(a Artifact, _ int) bool {
		return a.IsDynamic()
	}), nil
}

func (c *Classifier) classify(ctx context.Context, dir, bundleName string) (Artifact, error) {
	binary := filepath.Join(dir, bundleName, BinaryName(bundleName))

	report, err := c.inspector.Inspect(ctx, binary)
	if err != nil {
		var inspectionErr *InspectionError
		if errors.As(err, &inspectionErr) {
			return Artifact{}, err
		}
		return Artifact{}, &InspectionError{Path: binary, Err: err}
	}

	return Artifact{
		Name:          bundleName,
		Architectures: ArchitecturesFromReport(report.Architectures),
		Linking:       LinkingFromFileType(report.FileType),
	}, nil
}

// LinkingFromFileType classifies a file-type description.
func LinkingFromFileType(description string) Linking {
	if strings.Contains(description, staticArchiveMarker) {
		return LinkingStatic
	}
	return LinkingDynamic
}

// ArchitecturesFromReport parses a lipo architecture report.
// Only the text after the last ": " is considered, and unknown tokens are skipped.
func ArchitecturesFromReport(report string) []Architecture {
	if i := strings.LastIndex(report, ": "); i >= 0 {
		report = report[i+2:]
	}

	var archs []Architecture
	for _, token := range strings.Fields(report) {
		if a, ok := ParseArchitecture(token); ok {
			archs = append(archs, a)
		}
	}
	return archs
}

// isDir follows symlinks so that linked framework bundles are discovered.
func isDir(dir string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}
