package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/framecopy/internal/artifact"
)

// MakeFrameworks creates empty framework bundles (with a placeholder binary)
// inside dir, creating dir if needed.
func MakeFrameworks(t testing.TB, dir string, bundles ...string) {
	t.Helper()

	for _, bundle := range bundles {
		bundleDir := filepath.Join(dir, bundle)
		if err := os.MkdirAll(bundleDir, 0o755); err != nil {
			t.Fatalf("failed to create bundle %s: %v", bundle, err)
		}
		binary := filepath.Join(bundleDir, artifact.BinaryName(bundle))
		if err := os.WriteFile(binary, []byte("binary"), 0o644); err != nil {
			t.Fatalf("failed to create binary for %s: %v", bundle, err)
		}
	}
	if len(bundles) == 0 {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}
}

// DynamicReport is what file/lipo print for a dynamic framework binary.
func DynamicReport(archs ...string) artifact.Report {
	return artifact.Report{
		FileType:      "Mach-O universal binary with dynamically linked shared library",
		Architectures: lipoReport(archs),
	}
}

// StaticReport is what file/lipo print for a static framework binary.
func StaticReport(archs ...string) artifact.Report {
	return artifact.Report{
		FileType:      "current ar archive random library",
		Architectures: lipoReport(archs),
	}
}

func lipoReport(archs []string) string {
	if len(archs) == 1 {
		return "Non-fat file: binary is architecture: " + archs[0]
	}
	return "Architectures in the fat file: binary are: " + strings.Join(archs, " ")
}

// FakeInspector returns scripted reports keyed by binary name.
// Unknown binaries are reported as dynamic arm64.
type FakeInspector struct {
	Reports map[string]artifact.Report
	Errors  map[string]error

	mu    sync.Mutex
	calls []string
}

// Inspect implements artifact.Inspector.
func (f *FakeInspector) Inspect(_ context.Context, binaryPath string) (artifact.Report, error) {
	name := filepath.Base(binaryPath)

	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if err, ok := f.Errors[name]; ok {
		return artifact.Report{}, err
	}
	if r, ok := f.Reports[name]; ok {
		return r, nil
	}
	return DynamicReport("arm64"), nil
}

// Calls returns the binary names inspected so far, in order.
func (f *FakeInspector) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
