// Package artifact discovers prebuilt framework bundles on disk and classifies
// them by architecture and linking kind.
//
// Only dynamically linked frameworks need to be copied into an application
// bundle at build time; static ones are absorbed by the linker. DynamicOnly is
// the entry point used by the reconciler for that reason.
package artifact

import (
	"path/filepath"
	"strings"
)

// Linking describes how a framework binary is linked into the application.
type Linking string

// Linking kinds.
const (
	LinkingStatic  Linking = "static"
	LinkingDynamic Linking = "dynamic"
)

// Architecture is a CPU architecture token reported by lipo.
type Architecture string

// Known architectures. Tokens outside this set are dropped during parsing.
const (
	ArchI386   Architecture = "i386"
	ArchX86_64 Architecture = "x86_64"
	ArchARMv7  Architecture = "armv7"
	ArchARMv7s Architecture = "armv7s"
	ArchARM64  Architecture = "arm64"
	ArchARM64e Architecture = "arm64e"
)

var knownArchitectures = map[Architecture]struct{}{
	ArchI386:   {},
	ArchX86_64: {},
	ArchARMv7:  {},
	ArchARMv7s: {},
	ArchARM64:  {},
	ArchARM64e: {},
}

// ParseArchitecture returns the architecture for token and whether it is known.
func ParseArchitecture(token string) (Architecture, bool) {
	a := Architecture(token)
	_, ok := knownArchitectures[a]
	return a, ok
}

// BundleSuffix is the directory suffix identifying a framework bundle.
const BundleSuffix = ".framework"

// Artifact is a classified framework bundle.
type Artifact struct {
	// Name is the bundle directory name, including the extension (Foo.framework).
	Name          string         `json:"name"`
	Architectures []Architecture `json:"architectures"`
	Linking       Linking        `json:"linking"`
}

// IsDynamic reports whether the artifact must be copied at build time.
func (a Artifact) IsDynamic() bool {
	return a.Linking == LinkingDynamic
}

// ArchitectureList joins the architectures for display.
func (a Artifact) ArchitectureList() string {
	parts := make([]string, len(a.Architectures))
	for i, arch := range a.Architectures {
		parts[i] = string(arch)
	}
	return strings.Join(parts, ", ")
}

// BinaryName strips the bundle extension from a bundle name.
func BinaryName(bundleName string) string {
	return strings.TrimSuffix(bundleName, filepath.Ext(bundleName))
}
