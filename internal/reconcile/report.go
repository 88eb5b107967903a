package reconcile

import (
	"errors"

	"github.com/leapstack-labs/framecopy/internal/phase"
)

// Notices printed when a run had nothing to do.
const (
	NothingToUpdate = "Nothing to update."
	NothingToLint   = "Nothing to lint."
)

// Outcome is the terminal state of one manifest.
type Outcome string

// Outcomes.
const (
	OutcomeUpdated  Outcome = "updated"
	OutcomeNoChange Outcome = "no-change"
	OutcomeFailed   Outcome = "failed"
)

// ManifestResult is what happened to one manifest.
type ManifestResult struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	// UpdatedTargets lists targets whose phase was created or changed.
	UpdatedTargets []string `json:"updated_targets,omitempty"`
	// UpdatedFiles lists list files that were created or changed.
	UpdatedFiles []string        `json:"updated_files,omitempty"`
	Findings     []phase.Finding `json:"findings,omitempty"`
	Notice       string          `json:"notice,omitempty"`
	Err          error           `json:"-"`
	Error        string          `json:"error,omitempty"`
}

func (r *ManifestResult) fail(err error) {
	r.Outcome = OutcomeFailed
	r.Err = err
	r.Error = err.Error()
}

// Report is the result of a run.
type Report struct {
	// Notice is set when the run had nothing to do.
	Notice    string           `json:"notice,omitempty"`
	Manifests []ManifestResult `json:"manifests"`
}

// Findings returns all verify findings, in manifest order.
func (r *Report) Findings() []phase.Finding {
	var out []phase.Finding
	for _, m := range r.Manifests {
		out = append(out, m.Findings...)
	}
	return out
}

// Updated reports whether any manifest or list file changed.
func (r *Report) Updated() bool {
	for _, m := range r.Manifests {
		if m.Outcome == OutcomeUpdated {
			return true
		}
	}
	return false
}

// Err joins the errors of failed manifests.
func (r *Report) Err() error {
	var errs []error
	for _, m := range r.Manifests {
		if m.Err != nil {
			errs = append(errs, m.Err)
		}
	}
	return errors.Join(errs...)
}
