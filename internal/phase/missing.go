package phase

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/leapstack-labs/framecopy/internal/xcodeproj"
)

// Finding is a desired path that a target's phase does not declare.
type Finding struct {
	Target string `json:"target"`
	Path   string `json:"path"`
}

func (f Finding) String() string {
	return fmt.Sprintf("error: Missing %s in %s target", f.Path, f.Target)
}

// MissingInline reports the desired inline paths the phase lacks, inputs first.
// A nil phase yields no findings.
func MissingInline(target string, p *xcodeproj.ShellScriptBuildPhase, in, out []string) []Finding {
	if p == nil {
		return nil
	}
	return findings(target, missing(in, p.InputPaths()), missing(out, p.OutputPaths()))
}

// ListReader reads the lines of a list file.
type ListReader func(filename string) ([]string, error)

// ListedSource describes the list files a target is expected to reference.
type ListedSource struct {
	// InputRef and OutputRef are the references the phase must declare.
	InputRef  string
	OutputRef string
	// InputFile and OutputFile are the list file names passed to Read.
	InputFile  string
	OutputFile string
	Read       ListReader
}

// MissingListed reports what the phase lacks when paths live in list files.
//
// Inputs and outputs are checked independently. When the phase does not
// declare a direction's expected list reference, the reference itself is
// reported and that direction's paths are not compared. A nil phase yields
// no findings.
func MissingListed(target string, p *xcodeproj.ShellScriptBuildPhase, src ListedSource, in, out []string) ([]Finding, error) {
	if p == nil {
		return nil, nil
	}

	inDeclared, _ := p.InputFileListPaths()
	outDeclared, _ := p.OutputFileListPaths()

	var refs []string
	inMissing, err := missingListed(inDeclared, src.InputRef, src.InputFile, src.Read, in, &refs)
	if err != nil {
		return nil, err
	}
	outMissing, err := missingListed(outDeclared, src.OutputRef, src.OutputFile, src.Read, out, &refs)
	if err != nil {
		return nil, err
	}

	return findings(target, refs, inMissing, outMissing), nil
}

// missingListed compares one direction. An undeclared ref is appended to refs.
func missingListed(declared []string, ref, file string, read ListReader, desired []string, refs *[]string) ([]string, error) {
	if !lo.Contains(declared, ref) {
		*refs = append(*refs, ref)
		return nil, nil
	}
	lines, err := read(file)
	if err != nil {
		return nil, err
	}
	return missing(desired, lines), nil
}

// missing returns the elements of desired absent from actual, in desired order.
func missing(desired, actual []string) []string {
	return lo.Without(desired, actual...)
}

func findings(target string, groups ...[]string) []Finding {
	var out []Finding
	for _, paths := range groups {
		for _, path := range paths {
			out = append(out, Finding{Target: target, Path: path})
		}
	}
	return out
}
