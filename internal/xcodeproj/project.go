// Package xcodeproj reads and writes Xcode project manifests (project.pbxproj).
//
// A manifest is an OpenStep property list whose "objects" dictionary maps
// 24-character identifiers to typed objects (targets, build phases, file
// references). This package exposes the handful of object kinds framecopy
// needs as thin views over that dictionary, so that unknown keys survive a
// read/write cycle untouched.
package xcodeproj

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"howett.net/plist"
)

// ProjectExtension is the folder extension of an Xcode project.
const ProjectExtension = ".xcodeproj"

// ManifestFileName is the manifest inside the project folder.
const ManifestFileName = "project.pbxproj"

const manifestHeader = "// !$*UTF8*$!\n"

// ProductTypeApplication is the product type of application targets.
const ProductTypeApplication = "com.apple.product-type.application"

// ErrManifestNotFound is returned when a project folder has no manifest.
var ErrManifestNotFound = errors.New("project manifest not found")

// Object is a raw manifest object.
type Object map[string]any

// Element is an object that can be registered in a project.
type Element interface {
	ID() string
	Object() Object
}

// Project is a parsed project manifest.
type Project struct {
	path    string
	root    map[string]any
	objects map[string]any
}

// Open parses <path>/project.pbxproj, where path is the .xcodeproj folder.
func Open(path string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(path, ManifestFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read project %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse parses manifest data. path is used when the project is written back.
func Parse(path string, data []byte) (*Project, error) {
	var root map[string]any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}

	objects, ok := root["objects"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to parse project %s: missing objects dictionary", path)
	}

	return &Project{
		path:    path,
		root:    root,
		objects: objects,
	}, nil
}

// New returns an empty project rooted at path.
func New(path string) *Project {
	objects := map[string]any{}
	rootID := NewObjectID()
	objects[rootID] = map[string]any{
		"isa":     "PBXProject",
		"targets": []any{},
	}
	return &Project{
		path: path,
		root: map[string]any{
			"archiveVersion": "1",
			"classes":        map[string]any{},
			"objectVersion":  "50",
			"objects":        objects,
			"rootObject":     rootID,
		},
		objects: objects,
	}
}

// Path returns the .xcodeproj folder path.
func (p *Project) Path() string {
	return p.path
}

// Name returns the project name without extension.
func (p *Project) Name() string {
	return strings.TrimSuffix(filepath.Base(p.path), ProjectExtension)
}

// Marshal serializes the manifest.
func (p *Project) Marshal() ([]byte, error) {
	data, err := plist.MarshalIndent(p.root, plist.OpenStepFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode project %s: %w", p.path, err)
	}
	out := make([]byte, 0, len(manifestHeader)+len(data)+1)
	out = append(out, manifestHeader...)
	out = append(out, data...)
	return append(out, '\n'), nil
}

// Write writes the manifest back to <path>/project.pbxproj.
func (p *Project) Write() error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.path, 0o750); err != nil {
		return fmt.Errorf("failed to create project folder %s: %w", p.path, err)
	}
	if err := os.WriteFile(filepath.Join(p.path, ManifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write project %s: %w", p.path, err)
	}
	return nil
}

// AddObject registers e in the objects dictionary so it is serialized.
func (p *Project) AddObject(e Element) {
	p.objects[e.ID()] = map[string]any(e.Object())
}

// object returns the object with id, or nil.
func (p *Project) object(id string) Object {
	obj, _ := p.objects[id].(map[string]any)
	return obj
}

// NativeTargets returns the native targets in project order.
// Targets not listed by the root PBXProject object follow, sorted by ID.
func (p *Project) NativeTargets() []*NativeTarget {
	var targets []*NativeTarget
	seen := map[string]bool{}

	if rootID, ok := p.root["rootObject"].(string); ok {
		for _, id := range p.object(rootID).strings("targets") {
			if obj := p.object(id); obj.isa() == isaNativeTarget {
				targets = append(targets, &NativeTarget{id: id, obj: obj, project: p})
				seen[id] = true
			}
		}
	}

	var rest []string
	for id := range p.objects {
		if !seen[id] && p.object(id).isa() == isaNativeTarget {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		targets = append(targets, &NativeTarget{id: id, obj: p.object(id), project: p})
	}

	return targets
}

// Targets returns native targets of productType whose name matches name
// case-insensitively. An empty name matches every target of that type.
func (p *Project) Targets(productType, name string) []*NativeTarget {
	var out []*NativeTarget
	for _, t := range p.NativeTargets() {
		if t.ProductType() != productType {
			continue
		}
		if name != "" && !strings.EqualFold(t.Name(), name) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// AddNativeTarget creates a native target and lists it on the root object.
func (p *Project) AddNativeTarget(name, productType string) *NativeTarget {
	t := &NativeTarget{
		id: NewObjectID(),
		obj: Object{
			"isa":          isaNativeTarget,
			"name":         name,
			"productName":  name,
			"productType":  productType,
			"buildPhases":  []any{},
			"dependencies": []any{},
		},
		project: p,
	}
	p.AddObject(t)

	if rootID, ok := p.root["rootObject"].(string); ok {
		if root := p.object(rootID); root != nil {
			root.append("targets", t.id)
		}
	}
	return t
}

const (
	isaNativeTarget       = "PBXNativeTarget"
	isaShellScriptPhase   = "PBXShellScriptBuildPhase"
	isaFrameworksPhase    = "PBXFrameworksBuildPhase"
	isaBuildFile          = "PBXBuildFile"
	isaFileReference      = "PBXFileReference"
	defaultShellPath      = "/bin/sh"
	defaultBuildMask      = "2147483647"
	defaultPostprocessing = "0"
)

func (o Object) isa() string {
	return o.string("isa")
}

func (o Object) string(key string) string {
	s, _ := o[key].(string)
	return s
}

// strings returns the string elements of an array value.
// A missing key yields nil.
func (o Object) strings(key string) []string {
	raw, ok := o[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (o Object) has(key string) bool {
	_, ok := o[key]
	return ok
}

func (o Object) setStrings(key string, values []string) {
	raw := make([]any, len(values))
	for i, v := range values {
		raw[i] = v
	}
	o[key] = raw
}

func (o Object) append(key, value string) {
	raw, _ := o[key].([]any)
	o[key] = append(raw, value)
}
