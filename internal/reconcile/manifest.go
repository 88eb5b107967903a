package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/leapstack-labs/framecopy/internal/xcodeproj"
)

// Manifest is the part of a project manifest the reconciler uses.
type Manifest interface {
	Path() string
	Targets(productType, name string) []*xcodeproj.NativeTarget
	AddObject(e xcodeproj.Element)
	Write() error
}

// Opener opens the manifest of a .xcodeproj folder.
type Opener func(path string) (Manifest, error)

// OpenProject opens a manifest from disk.
func OpenProject(path string) (Manifest, error) {
	p, err := xcodeproj.Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindManifests returns the .xcodeproj folders directly inside projectDir,
// sorted by name. With names, every project whose name (without extension)
// is listed is returned; without, only the first one.
func FindManifests(projectDir string, names []string) ([]string, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory %s: %w", projectDir, err)
	}

	var found []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasSuffix(name, xcodeproj.ProjectExtension) {
			continue
		}
		if len(names) > 0 && !lo.Contains(names, strings.TrimSuffix(name, xcodeproj.ProjectExtension)) {
			continue
		}
		found = append(found, filepath.Join(projectDir, name))
	}

	if len(names) == 0 && len(found) > 1 {
		found = found[:1]
	}
	return found, nil
}
