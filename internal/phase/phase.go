// Package phase reads and writes the copy-frameworks shell script phase of a
// native target, in either of its two persistence formats: paths inline in
// the phase, or paths kept in list files the phase references.
package phase

import (
	"log/slog"
	"slices"

	"github.com/leapstack-labs/framecopy/internal/xcodeproj"
)

// CopyFrameworksScript is the script body of every phase framecopy manages.
const CopyFrameworksScript = "/usr/local/bin/carthage copy-frameworks"

// Registry registers newly created objects with the manifest that will
// serialize them.
type Registry interface {
	AddObject(e xcodeproj.Element)
}

// Find returns the first shell script phase of target named scriptName,
// or nil. Names are compared exactly.
func Find(target *xcodeproj.NativeTarget, scriptName string) *xcodeproj.ShellScriptBuildPhase {
	for _, p := range target.ShellScriptBuildPhases() {
		if p.Name() == scriptName {
			return p
		}
	}
	return nil
}

// Writer creates and updates copy-frameworks phases.
type Writer struct {
	registry   Registry
	scriptName string
	logger     *slog.Logger
}

// NewWriter returns a writer managing phases named scriptName.
func NewWriter(registry Registry, scriptName string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{
		registry:   registry,
		scriptName: scriptName,
		logger:     logger,
	}
}

// UpdateInline makes the phase declare in and out as inline paths.
// A nil phase is created, appended to target and registered.
// It reports whether anything changed.
func (w *Writer) UpdateInline(target *xcodeproj.NativeTarget, p *xcodeproj.ShellScriptBuildPhase, in, out []string) bool {
	if p == nil {
		p = w.create(target)
		p.SetInputPaths(in)
		p.SetOutputPaths(out)
		return true
	}

	changed := w.updateScript(p)
	if !slices.Equal(p.InputPaths(), in) {
		p.SetInputPaths(in)
		changed = true
	}
	if !slices.Equal(p.OutputPaths(), out) {
		p.SetOutputPaths(out)
		changed = true
	}
	w.logChange(target, p, changed)
	return changed
}

// UpdateListed makes the phase reference exactly the given input and output
// list files. A nil phase is created, appended to target and registered.
// It reports whether anything changed.
func (w *Writer) UpdateListed(target *xcodeproj.NativeTarget, p *xcodeproj.ShellScriptBuildPhase, inList, outList string) bool {
	wantIn := []string{inList}
	wantOut := []string{outList}

	if p == nil {
		p = w.create(target)
		p.SetInputFileListPaths(wantIn)
		p.SetOutputFileListPaths(wantOut)
		return true
	}

	changed := w.updateScript(p)
	if current, _ := p.InputFileListPaths(); !slices.Equal(current, wantIn) {
		p.SetInputFileListPaths(wantIn)
		changed = true
	}
	if current, _ := p.OutputFileListPaths(); !slices.Equal(current, wantOut) {
		p.SetOutputFileListPaths(wantOut)
		changed = true
	}
	w.logChange(target, p, changed)
	return changed
}

func (w *Writer) create(target *xcodeproj.NativeTarget) *xcodeproj.ShellScriptBuildPhase {
	p := xcodeproj.NewShellScriptBuildPhase(w.scriptName, CopyFrameworksScript)
	w.registry.AddObject(p)
	target.AppendBuildPhase(p)
	w.logger.Debug("phase created", "target", target.Name(), "phase", w.scriptName, "id", p.ID())
	return p
}

func (w *Writer) updateScript(p *xcodeproj.ShellScriptBuildPhase) bool {
	if p.ShellScript() == CopyFrameworksScript {
		return false
	}
	p.SetShellScript(CopyFrameworksScript)
	return true
}

func (w *Writer) logChange(target *xcodeproj.NativeTarget, p *xcodeproj.ShellScriptBuildPhase, changed bool) {
	if changed {
		w.logger.Debug("phase updated", "target", target.Name(), "phase", p.Name())
	}
}
