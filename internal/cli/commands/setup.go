package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/framecopy/internal/artifact"
	"github.com/leapstack-labs/framecopy/internal/cli/config"
	"github.com/leapstack-labs/framecopy/internal/cli/output"
	"github.com/leapstack-labs/framecopy/internal/listfile"
	"github.com/leapstack-labs/framecopy/internal/reconcile"
)

// newInspector builds the binary inspector. Tests replace it with a fake.
var newInspector = func() artifact.Inspector {
	return artifact.NewExecInspector()
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config stored by the
// root command, loading it from the command's flags when run standalone.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig("", cmd.Flags())
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// Classifier returns a framework classifier.
func (c *CommandContext) Classifier() *artifact.Classifier {
	return artifact.NewClassifier(artifact.Config{
		Inspector: newInspector(),
		Logger:    c.Logger,
	})
}

// Reconciler returns a reconciler wired to the on-disk project.
func (c *CommandContext) Reconciler() *reconcile.Reconciler {
	return reconcile.New(reconcile.Config{
		Classifier: c.Classifier(),
		Store:      listfile.NewStore(c.Logger),
		Logger:     c.Logger,
	})
}

// ReconcileContext builds the reconciliation input. Positional arguments,
// when present, replace the configured frameworks directories.
func (c *CommandContext) ReconcileContext(frameworksDirs []string) (reconcile.Context, error) {
	format, err := reconcile.ParseFormat(c.Cfg.Format)
	if err != nil {
		return reconcile.Context{}, err
	}

	dirs := c.Cfg.FrameworksDirs
	if len(frameworksDirs) > 0 {
		dirs = frameworksDirs
	}

	return reconcile.Context{
		ProjectDir:       c.Cfg.ProjectDir,
		ScriptName:       c.Cfg.Script,
		Format:           format,
		TargetName:       c.Cfg.Target,
		ProjectNames:     c.Cfg.ProjectNames,
		FrameworksDirs:   dirs,
		Platform:         c.Cfg.Platform,
		AppendToExisting: c.Cfg.Append,
		LinkedOnly:       c.Cfg.LinkedOnly,
	}, nil
}

// addProjectFlags registers the flags shared by every command that reads
// the project directory.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("project-dir", "p", "", "Directory containing the .xcodeproj (default: $PROJECT_DIR or current directory)")
	cmd.Flags().String("platform", "", "Build/<platform> folder inside each frameworks directory (default: iOS)")
}

// addReconcileFlags registers the flags shared by update and lint.
func addReconcileFlags(cmd *cobra.Command) {
	addProjectFlags(cmd)
	cmd.Flags().StringP("script", "s", "", "Name of the copy-frameworks script phase (default: Carthage)")
	cmd.Flags().StringP("format", "f", "", "Where paths are stored: file (inline) or list (xcfilelists)")
	cmd.Flags().StringP("target", "t", "", "Application target name (default: $TARGET_NAME or all)")
	cmd.Flags().StringSlice("project-names", nil, "Project names to process (default: the first project found)")
	cmd.Flags().Bool("linked-only", false, "Only include frameworks the target links")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(reconcile.FormatInline), string(reconcile.FormatListed)}, cobra.ShellCompDirectiveNoFileComp
	})
}
