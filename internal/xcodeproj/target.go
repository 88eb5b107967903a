package xcodeproj

import "path"

// NativeTarget is a PBXNativeTarget.
type NativeTarget struct {
	id      string
	obj     Object
	project *Project
}

// ID returns the object identifier.
func (t *NativeTarget) ID() string { return t.id }

// Object returns the raw object.
func (t *NativeTarget) Object() Object { return t.obj }

// Name returns the target name.
func (t *NativeTarget) Name() string { return t.obj.string("name") }

// ProductType returns the product type identifier.
func (t *NativeTarget) ProductType() string { return t.obj.string("productType") }

// BuildPhaseIDs returns the identifiers of the target's build phases, in order.
func (t *NativeTarget) BuildPhaseIDs() []string {
	return t.obj.strings("buildPhases")
}

// ShellScriptBuildPhases returns the target's shell script phases, in order.
func (t *NativeTarget) ShellScriptBuildPhases() []*ShellScriptBuildPhase {
	var phases []*ShellScriptBuildPhase
	for _, id := range t.BuildPhaseIDs() {
		if obj := t.project.object(id); obj.isa() == isaShellScriptPhase {
			phases = append(phases, &ShellScriptBuildPhase{id: id, obj: obj})
		}
	}
	return phases
}

// AppendBuildPhase appends a registered phase to the target's build phases.
func (t *NativeTarget) AppendBuildPhase(e Element) {
	t.obj.append("buildPhases", e.ID())
}

// LinkedFrameworks returns the file names of the frameworks linked by the
// target's frameworks build phase, in phase order.
func (t *NativeTarget) LinkedFrameworks() []string {
	var names []string
	for _, id := range t.BuildPhaseIDs() {
		phase := t.project.object(id)
		if phase.isa() != isaFrameworksPhase {
			continue
		}
		for _, fileID := range phase.strings("files") {
			buildFile := t.project.object(fileID)
			if buildFile.isa() != isaBuildFile {
				continue
			}
			ref := t.project.object(buildFile.string("fileRef"))
			if ref.isa() != isaFileReference {
				continue
			}
			name := ref.string("name")
			if name == "" {
				name = path.Base(ref.string("path"))
			}
			names = append(names, name)
		}
	}
	return names
}

// AddLinkedFramework links a framework file reference in the target's
// frameworks build phase, creating the phase if needed.
func (t *NativeTarget) AddLinkedFramework(frameworkPath string) {
	p := t.project

	var phase Object
	for _, id := range t.BuildPhaseIDs() {
		if obj := p.object(id); obj.isa() == isaFrameworksPhase {
			phase = obj
			break
		}
	}
	if phase == nil {
		phase = Object{
			"isa":                                isaFrameworksPhase,
			"buildActionMask":                    defaultBuildMask,
			"files":                              []any{},
			"runOnlyForDeploymentPostprocessing": defaultPostprocessing,
		}
		id := NewObjectID()
		p.objects[id] = map[string]any(phase)
		t.obj.append("buildPhases", id)
	}

	refID := NewObjectID()
	p.objects[refID] = map[string]any{
		"isa":               isaFileReference,
		"lastKnownFileType": "wrapper.framework",
		"name":              path.Base(frameworkPath),
		"path":              frameworkPath,
		"sourceTree":        "<group>",
	}
	fileID := NewObjectID()
	p.objects[fileID] = map[string]any{
		"isa":     isaBuildFile,
		"fileRef": refID,
	}
	phase.append("files", fileID)
}
