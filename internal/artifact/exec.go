package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecInspector inspects binaries with the platform `file` and `lipo` tools.
type ExecInspector struct {
	FileTool string
	LipoTool string
}

// NewExecInspector returns an inspector using the tools found on PATH.
func NewExecInspector() *ExecInspector {
	return &ExecInspector{
		FileTool: "file",
		LipoTool: "lipo",
	}
}

// Inspect runs `file <path>` and `lipo -info <path>`.
func (i *ExecInspector) Inspect(ctx context.Context, binaryPath string) (Report, error) {
	fileType, err := run(ctx, i.FileTool, binaryPath)
	if err != nil {
		return Report{}, &InspectionError{Path: binaryPath, Err: err}
	}

	archs, err := run(ctx, i.LipoTool, "-info", binaryPath)
	if err != nil {
		return Report{}, &InspectionError{Path: binaryPath, Err: err}
	}

	return Report{
		FileType:      fileType,
		Architectures: archs,
	}, nil
}

func run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
