package xcodeproj

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ShellScriptBuildPhase is a PBXShellScriptBuildPhase.
type ShellScriptBuildPhase struct {
	id  string
	obj Object
}

// NewShellScriptBuildPhase creates an unregistered shell script phase.
// Register it with Project.AddObject and attach it with
// NativeTarget.AppendBuildPhase.
func NewShellScriptBuildPhase(name, script string) *ShellScriptBuildPhase {
	return &ShellScriptBuildPhase{
		id: NewObjectID(),
		obj: Object{
			"isa":                                isaShellScriptPhase,
			"buildActionMask":                    defaultBuildMask,
			"files":                              []any{},
			"inputFileListPaths":                 []any{},
			"inputPaths":                         []any{},
			"name":                               name,
			"outputFileListPaths":                []any{},
			"outputPaths":                        []any{},
			"runOnlyForDeploymentPostprocessing": defaultPostprocessing,
			"shellPath":                          defaultShellPath,
			"shellScript":                        script,
		},
	}
}

// ID returns the object identifier.
func (b *ShellScriptBuildPhase) ID() string { return b.id }

// Object returns the raw object.
func (b *ShellScriptBuildPhase) Object() Object { return b.obj }

// Name returns the phase name.
func (b *ShellScriptBuildPhase) Name() string { return b.obj.string("name") }

// ShellScript returns the script body.
func (b *ShellScriptBuildPhase) ShellScript() string { return b.obj.string("shellScript") }

// SetShellScript replaces the script body.
func (b *ShellScriptBuildPhase) SetShellScript(script string) { b.obj["shellScript"] = script }

// InputPaths returns the inline input paths.
func (b *ShellScriptBuildPhase) InputPaths() []string { return b.obj.strings("inputPaths") }

// SetInputPaths replaces the inline input paths.
func (b *ShellScriptBuildPhase) SetInputPaths(p []string) { b.obj.setStrings("inputPaths", p) }

// OutputPaths returns the inline output paths.
func (b *ShellScriptBuildPhase) OutputPaths() []string { return b.obj.strings("outputPaths") }

// SetOutputPaths replaces the inline output paths.
func (b *ShellScriptBuildPhase) SetOutputPaths(p []string) { b.obj.setStrings("outputPaths", p) }

// InputFileListPaths returns the input file list references.
// The boolean is false when the phase does not declare the key at all.
func (b *ShellScriptBuildPhase) InputFileListPaths() ([]string, bool) {
	return b.obj.strings("inputFileListPaths"), b.obj.has("inputFileListPaths")
}

// SetInputFileListPaths replaces the input file list references.
func (b *ShellScriptBuildPhase) SetInputFileListPaths(p []string) {
	b.obj.setStrings("inputFileListPaths", p)
}

// OutputFileListPaths returns the output file list references.
// The boolean is false when the phase does not declare the key at all.
func (b *ShellScriptBuildPhase) OutputFileListPaths() ([]string, bool) {
	return b.obj.strings("outputFileListPaths"), b.obj.has("outputFileListPaths")
}

// SetOutputFileListPaths replaces the output file list references.
func (b *ShellScriptBuildPhase) SetOutputFileListPaths(p []string) {
	b.obj.setStrings("outputFileListPaths", p)
}

// NewObjectID returns a random 24-character uppercase hex identifier,
// the format Xcode uses for object keys.
func NewObjectID() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:12]))
}
