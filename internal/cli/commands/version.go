package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the framecopy version with the commit and date it was built from.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "framecopy v%s (commit %s, built %s)\n", info.Version, info.GitCommit, info.BuildDate)
			_, _ = fmt.Fprintln(out, "Keeps the Xcode copy-frameworks phase in sync with Carthage builds")
		},
	}
}
