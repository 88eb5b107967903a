package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/framecopy/internal/cli/output"
	"github.com/leapstack-labs/framecopy/internal/reconcile"
)

// UpdateOptions holds options for the update command.
type UpdateOptions struct {
	FrameworksDirs []string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	opts := &UpdateOptions{}
	cmd := &cobra.Command{
		Use:   "update [frameworks-dirs...]",
		Short: "Write the copy-frameworks phase of application targets",
		Long: `Discover the dynamic frameworks in each frameworks directory and write the
paths they need into the copy-frameworks script phase of every selected
application target.

The phase is created when missing and only touched when its paths differ,
so running update repeatedly is safe. With --format list the paths are kept
in xcfilelists/<target>-inputPaths.xcfilelist and -outputPaths.xcfilelist,
and the phase references those files instead.`,
		Example: `  # Update the Carthage phase of every application target
  framecopy update

  # Inline paths, a single target, two frameworks directories
  framecopy update Carthage Vendor -f file -t App

  # Keep what is already in the list files and append new paths
  framecopy update --append`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.FrameworksDirs = args
			return runUpdate(cmd, opts)
		},
	}

	addReconcileFlags(cmd)
	cmd.Flags().Bool("append", false, "Append to existing list files instead of replacing them")

	return cmd
}

func runUpdate(cmd *cobra.Command, opts *UpdateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	rc, err := cmdCtx.ReconcileContext(opts.FrameworksDirs)
	if err != nil {
		return err
	}

	report, err := cmdCtx.Reconciler().Synchronize(cmd.Context(), rc)
	if report != nil {
		if rerr := renderUpdate(cmdCtx.Renderer, rc, report); rerr != nil {
			return rerr
		}
	}
	return err
}

func renderUpdate(r *output.Renderer, rc reconcile.Context, report *reconcile.Report) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(report)
	}

	for _, m := range report.Manifests {
		for _, file := range m.UpdatedFiles {
			r.StatusLine(relativeTo(rc.ProjectDir, file), "success", "was successfully updated")
		}
		for _, target := range m.UpdatedTargets {
			r.Success(fmt.Sprintf("Script %s in target %s was successfully updated", rc.ScriptName, target))
		}
		if m.Notice != "" {
			r.Warning(m.Notice)
		}
		if m.Err != nil {
			r.StatusLine(relativeTo(rc.ProjectDir, m.Path), "failed", m.Err.Error())
		}
	}

	if report.Notice != "" {
		r.Muted(report.Notice)
	}
	return nil
}

// relativeTo shortens path for display when it lives under dir.
func relativeTo(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
