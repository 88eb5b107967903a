package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/framecopy/internal/cli/output"
	"github.com/leapstack-labs/framecopy/internal/reconcile"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	FrameworksDirs []string
	Strict         bool // Fail when paths are missing
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [frameworks-dirs...]",
		Short: "Report frameworks missing from the copy-frameworks phase",
		Long: `Compare the paths the discovered dynamic frameworks need with what the
copy-frameworks phase of each application target declares, and print one
line per missing path. Nothing is written.

Each finding is printed as "error: Missing <path> in <target> target", which
Xcode shows as a build error when lint runs inside a script phase. Use
--strict to also exit with a non-zero status.`,
		Example: `  # Lint every application target
  framecopy lint

  # Fail the build when something is missing
  framecopy lint --strict

  # Machine-readable findings
  framecopy lint -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.FrameworksDirs = args
			return runLint(cmd, opts)
		},
	}

	addReconcileFlags(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with an error when paths are missing")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	rc, err := cmdCtx.ReconcileContext(opts.FrameworksDirs)
	if err != nil {
		return err
	}

	report, err := cmdCtx.Reconciler().Verify(cmd.Context(), rc)
	if report != nil {
		if rerr := renderLint(cmdCtx.Renderer, report); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		return err
	}

	if n := len(report.Findings()); opts.Strict && n > 0 {
		return fmt.Errorf("%d missing path(s) in copy-frameworks phase", n)
	}
	return nil
}

func renderLint(r *output.Renderer, report *reconcile.Report) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			*reconcile.Report
			Findings any `json:"findings"`
		}{report, report.Findings()})
	}

	// Findings are printed verbatim so Xcode recognizes the error: prefix.
	findings := report.Findings()
	for _, f := range findings {
		if r.EffectiveMode() == output.ModeText {
			r.Println(r.Styles().Error.Render(f.String()))
			continue
		}
		r.Println(f.String())
	}

	for _, m := range report.Manifests {
		if m.Notice != "" {
			r.Warning(m.Notice)
		}
	}

	switch {
	case report.Notice != "":
		r.Muted(report.Notice)
	case len(findings) == 0 && report.Err() == nil:
		r.Success("No missing frameworks")
	}
	return nil
}
