package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{
			name: "release build",
			info: BuildInfo{Version: "1.2.3", GitCommit: "abc1234", BuildDate: "2026-10-01"},
			want: "framecopy v1.2.3 (commit abc1234, built 2026-10-01)\n",
		},
		{
			name: "dev build",
			info: BuildInfo{Version: "dev", GitCommit: "unknown", BuildDate: "unknown"},
			want: "framecopy vdev (commit unknown, built unknown)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{})

			require.NoError(t, cmd.Execute())
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "copy-frameworks")
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
}
