package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty project directory with no build
// settings or FRAMECOPY_* variables leaking in from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)

	for _, key := range []string{
		EnvProjectDir, EnvTargetName,
		EnvPrefix + "PROJECT_DIR", EnvPrefix + "SCRIPT", EnvPrefix + "FORMAT",
		EnvPrefix + "TARGET", EnvPrefix + "FRAMEWORKS_DIRS", EnvPrefix + "PROJECT_NAMES",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("project-dir", "p", "", "")
	fs.StringP("script", "s", "", "")
	fs.StringP("format", "f", "", "")
	fs.StringP("target", "t", "", "")
	fs.StringSlice("project-names", nil, "")
	fs.String("platform", "", "")
	fs.Bool("append", false, "")
	fs.Bool("linked-only", false, "")
	fs.Bool("strict", false, "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectDir)
	assert.Equal(t, DefaultScript, cfg.Script)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Empty(t, cfg.Target)
	assert.Empty(t, cfg.ProjectNames)
	assert.Equal(t, []string{DefaultFrameworksDir}, cfg.FrameworksDirs)
	assert.Equal(t, DefaultPlatform, cfg.Platform)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.False(t, cfg.Append)
	assert.Empty(t, cfg.ConfigFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolate(t)
	content := `script: Embed Frameworks
format: file
frameworks_dirs:
  - Carthage
  - Vendor
project_names: [App]
linked_only: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "framecopy.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "framecopy.yaml"), cfg.ConfigFile)
	assert.Equal(t, "Embed Frameworks", cfg.Script)
	assert.Equal(t, "file", cfg.Format)
	assert.Equal(t, []string{"Carthage", "Vendor"}, cfg.FrameworksDirs)
	assert.Equal(t, []string{"App"}, cfg.ProjectNames)
	assert.True(t, cfg.LinkedOnly)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("platform: tvOS\n"), 0o644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "tvOS", cfg.Platform)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("script: [unclosed\n"), 0o644))

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Env(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "framecopy.yaml"), []byte("script: FromFile\nformat: file\n"), 0o644))

	t.Setenv("FRAMECOPY_SCRIPT", "FromEnv")
	t.Setenv("FRAMECOPY_FRAMEWORKS_DIRS", "Carthage, Vendor")
	t.Setenv("FRAMECOPY_APPEND", "true")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "FromEnv", cfg.Script)
	assert.Equal(t, "file", cfg.Format)
	assert.Equal(t, []string{"Carthage", "Vendor"}, cfg.FrameworksDirs)
	assert.True(t, cfg.Append)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FRAMECOPY_SCRIPT", "FromEnv")
	t.Setenv("FRAMECOPY_TARGET", "EnvTarget")

	project := t.TempDir()
	flags := newFlagSet(t, "-s", "FromFlag", "-p", project, "--project-names", "App,Widget", "--strict")

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "FromFlag", cfg.Script)
	assert.Equal(t, "EnvTarget", cfg.Target)
	assert.Equal(t, project, cfg.ProjectDir)
	assert.Equal(t, []string{"App", "Widget"}, cfg.ProjectNames)
}

func TestLoadConfig_BuildSettings(t *testing.T) {
	dir := isolate(t)
	project := t.TempDir()
	dotenv := "PROJECT_DIR=" + project + "\nTARGET_NAME=App\nOTHER=ignored\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, BuildSettingsFile), []byte(dotenv), 0o644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, project, cfg.ProjectDir)
	assert.Equal(t, "App", cfg.Target)

	t.Setenv(EnvTargetName, "FromXcode")
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "FromXcode", cfg.Target)

	_, isSet := os.LookupEnv("OTHER")
	assert.False(t, isSet, ".env values must not leak into the process environment")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Script:         "Carthage",
			Format:         "list",
			FrameworksDirs: []string{"Carthage"},
			OutputFormat:   "auto",
			LogFormat:      "text",
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "uppercase format", mutate: func(c *Config) { c.Format = "FILE" }},
		{name: "empty script", mutate: func(c *Config) { c.Script = " " }, errSubstr: "script name is required"},
		{name: "bad format", mutate: func(c *Config) { c.Format = "yaml" }, errSubstr: "invalid format"},
		{name: "no frameworks dirs", mutate: func(c *Config) { c.FrameworksDirs = nil }, errSubstr: "frameworks directory"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "html" }, errSubstr: "invalid output"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, errSubstr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx), "fallback logger must not be nil")
	assert.Nil(t, FromContext(ctx))

	cfg := &Config{Script: "Carthage"}
	assert.Same(t, cfg, FromContext(WithConfig(ctx, cfg)))
}
