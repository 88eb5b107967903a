package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/framecopy/internal/artifact"
	"github.com/leapstack-labs/framecopy/internal/cli/output"
	"github.com/leapstack-labs/framecopy/internal/paths"
)

// InfoOptions holds options for the info command.
type InfoOptions struct {
	FrameworksDirs []string
}

// FrameworksInfo lists the frameworks of one frameworks directory.
type FrameworksInfo struct {
	Directory  string              `json:"directory"`
	Path       string              `json:"path"`
	Frameworks []artifact.Artifact `json:"frameworks"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	opts := &InfoOptions{}
	cmd := &cobra.Command{
		Use:   "info [frameworks-dirs...]",
		Short: "Show linking and architectures of discovered frameworks",
		Long: `List every framework bundle in each frameworks directory with its linking
kind (static or dynamic) and the architectures its binary contains.
Only dynamic frameworks are copied by the update command.`,
		Example: `  # Frameworks built by Carthage for iOS
  framecopy info

  # tvOS frameworks as JSON
  framecopy info --platform tvOS -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.FrameworksDirs = args
			return runInfo(cmd, opts)
		},
	}

	addProjectFlags(cmd)

	return cmd
}

func runInfo(cmd *cobra.Command, opts *InfoOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	dirs := cmdCtx.Cfg.FrameworksDirs
	if len(opts.FrameworksDirs) > 0 {
		dirs = opts.FrameworksDirs
	}

	classifier := cmdCtx.Classifier()
	infos := make([]FrameworksInfo, 0, len(dirs))
	for _, dir := range dirs {
		path := paths.ArtifactsDir(cmdCtx.Cfg.ProjectDir, dir, cmdCtx.Cfg.Platform)
		found, err := classifier.Discover(cmd.Context(), path)
		if err != nil {
			return err
		}
		infos = append(infos, FrameworksInfo{Directory: dir, Path: path, Frameworks: found})
	}

	return renderInfo(cmdCtx.Renderer, infos)
}

func renderInfo(r *output.Renderer, infos []FrameworksInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	for _, info := range infos {
		r.Header(2, info.Directory)
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(output.FormatKeyValue("Path", info.Path))
			r.Println("")
		} else {
			r.Muted(info.Path)
		}
		if len(info.Frameworks) == 0 {
			r.Muted("No frameworks found")
			continue
		}

		rows := make([]table.Row, 0, len(info.Frameworks))
		for _, a := range info.Frameworks {
			rows = append(rows, table.Row{a.Name, string(a.Linking), a.ArchitectureList()})
		}
		r.Table(table.Row{"Name", "Linking", "Architectures"}, rows)
	}
	return nil
}
