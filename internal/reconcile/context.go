// Package reconcile keeps the copy-frameworks phase of Xcode application
// targets in sync with the dynamic frameworks found on disk.
//
// Synchronize writes the desired paths into each selected target, either
// inline in the phase or through list files. Verify compares the same
// desired paths against the current configuration and reports what is
// missing without changing anything.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/framecopy/internal/paths"
)

// Format selects where a phase keeps its paths.
type Format string

// Persistence formats.
const (
	// FormatInline stores paths in the phase's inputPaths and outputPaths.
	FormatInline Format = "file"
	// FormatListed stores paths in .xcfilelist files referenced by the phase.
	FormatListed Format = "list"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatInline:
		return FormatInline, nil
	case FormatListed:
		return FormatListed, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be %q or %q", s, FormatInline, FormatListed)
	}
}

// Context is the input of one reconciliation run.
type Context struct {
	// ProjectDir contains the .xcodeproj folders and the frameworks directories.
	ProjectDir string
	// ScriptName is the name of the managed shell script phase.
	ScriptName string
	Format     Format
	// TargetName filters application targets (case-insensitive). Empty selects all.
	TargetName string
	// ProjectNames filters manifests by name without extension.
	// Empty selects the first manifest in the project directory.
	ProjectNames []string
	// FrameworksDirs are frameworks directories relative to ProjectDir, in order.
	FrameworksDirs []string
	// Platform is the Build/<platform> folder (defaults to iOS).
	Platform string
	// AppendToExisting appends list file contents to what is already on disk.
	AppendToExisting bool
	// LinkedOnly restricts paths to frameworks the target links.
	LinkedOnly bool
}

func (c Context) platform() string {
	if c.Platform == "" {
		return paths.DefaultPlatform
	}
	return c.Platform
}

// TargetFilterError is returned when a target name filter matches no
// application target.
type TargetFilterError struct {
	Name string
}

func (e *TargetFilterError) Error() string {
	return fmt.Sprintf("there is no target with %s name", e.Name)
}

// NoTargetsError is returned when a manifest has no application targets.
type NoTargetsError struct {
	Name string
}

func (e *NoTargetsError) Error() string {
	if e.Name == "" {
		return "there are no application targets"
	}
	return fmt.Sprintf("there are no application targets with %q name", e.Name)
}
