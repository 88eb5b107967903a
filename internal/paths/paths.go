// Package paths renders framework names into the build-setting paths declared
// by a copy-frameworks phase.
package paths

import (
	"path/filepath"

	"github.com/leapstack-labs/framecopy/internal/artifact"
)

// Build setting macros.
const (
	SourceRoot          = "$(SRCROOT)"
	BuiltFrameworksPath = "$(BUILT_PRODUCTS_DIR)/$(FRAMEWORKS_FOLDER_PATH)"
)

// DefaultPlatform is the Build/<platform> folder Carthage writes iOS products to.
const DefaultPlatform = "iOS"

// Kind selects the prefix a path is rendered with.
// It is either Input or Output.
type Kind interface {
	Prefix() string
	isKind()
}

// Input renders paths to the framework sources inside the frameworks directory.
type Input struct {
	FrameworksDir string
	Platform      string
}

// Prefix returns $(SRCROOT)/<frameworks dir>/Build/<platform>/.
func (k Input) Prefix() string {
	return SourceRoot + "/" + BuildDir(k.FrameworksDir, k.Platform) + "/"
}

func (Input) isKind() {}

// Output renders paths to the frameworks folder of the built product.
type Output struct{}

// Prefix returns $(BUILT_PRODUCTS_DIR)/$(FRAMEWORKS_FOLDER_PATH)/.
func (Output) Prefix() string {
	return BuiltFrameworksPath + "/"
}

func (Output) isKind() {}

// Paths renders one path per artifact, preserving order.
func Paths(artifacts []artifact.Artifact, kind Kind) []string {
	prefix := kind.Prefix()
	out := make([]string, len(artifacts))
	for i, a := range artifacts {
		out[i] = prefix + a.Name
	}
	return out
}

// BuildDir returns <frameworks dir>/Build/<platform> using forward slashes.
func BuildDir(frameworksDir, platform string) string {
	if platform == "" {
		platform = DefaultPlatform
	}
	return frameworksDir + "/Build/" + platform
}

// ArtifactsDir returns the on-disk directory holding the frameworks built for
// platform inside projectDir.
func ArtifactsDir(projectDir, frameworksDir, platform string) string {
	return filepath.Join(projectDir, filepath.FromSlash(BuildDir(frameworksDir, platform)))
}
