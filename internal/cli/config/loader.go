package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store the loaded config in context.
type configKey struct{}

// listKeys are keys whose environment values are comma-separated lists.
var listKeys = map[string]bool{
	"project_names":   true,
	"frameworks_dirs": true,
}

// flagKeys maps command-line flags to config keys. Flags not listed here
// (--config, --strict) are command options, not configuration.
var flagKeys = map[string]string{
	"project-dir":   "project_dir",
	"script":        "script",
	"format":        "format",
	"target":        "target",
	"project-names": "project_names",
	"platform":      "platform",
	"append":        "append",
	"linked-only":   "linked_only",
	"verbose":       "verbose",
	"output":        "output",
	"log-format":    "log_format",
}

// LoadConfig loads configuration from defaults, the config file, the
// environment and flags. cfgFile may be empty to search the project directory.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	projectDir, settings, err := resolveProjectDir(flags)
	if err != nil {
		return nil, err
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"project_dir":     projectDir,
		"script":          DefaultScript,
		"format":          DefaultFormat,
		"target":          settings[EnvTargetName],
		"project_names":   []string{},
		"frameworks_dirs": []string{DefaultFrameworksDir},
		"platform":        DefaultPlatform,
		"append":          false,
		"linked_only":     false,
		"verbose":         false,
		"output":          DefaultOutput,
		"log_format":      DefaultLogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file
	cfgFile = findConfigFile(cfgFile, projectDir)
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Load environment variables (FRAMECOPY_ prefix)
	// Transform: FRAMECOPY_FRAMEWORKS_DIRS=Carthage,Vendor -> frameworks_dirs
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = cfgFile

	if cfg.ProjectDir, err = filepath.Abs(cfg.ProjectDir); err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	cfg.ProjectNames = splitList(strings.Join(cfg.ProjectNames, ","))
	cfg.FrameworksDirs = splitList(strings.Join(cfg.FrameworksDirs, ","))

	return &cfg, nil
}

// resolveProjectDir picks the project directory and reads the build
// settings exported next to it.
// Priority:
//  1. Explicit --project-dir flag
//  2. FRAMECOPY_PROJECT_DIR
//  3. PROJECT_DIR from the environment or the .env file in the working directory
//  4. Current working directory
func resolveProjectDir(flags *pflag.FlagSet) (string, map[string]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	explicit := ""
	if flags != nil && flags.Changed("project-dir") {
		explicit, _ = flags.GetString("project-dir")
	}
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + EnvProjectDir)
	}

	base := cwd
	if explicit != "" {
		base = explicit
	}
	settings, err := readBuildSettings(base)
	if err != nil {
		return "", nil, err
	}

	switch {
	case explicit != "":
		return explicit, settings, nil
	case settings[EnvProjectDir] != "":
		return settings[EnvProjectDir], settings, nil
	default:
		return cwd, settings, nil
	}
}

// readBuildSettings returns PROJECT_DIR and TARGET_NAME from the process
// environment, falling back to the .env file in dir.
func readBuildSettings(dir string) (map[string]string, error) {
	settings := map[string]string{}

	path := filepath.Join(dir, BuildSettingsFile)
	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		for _, key := range []string{EnvProjectDir, EnvTargetName} {
			settings[key] = values[key]
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read build settings %s: %w", path, err)
	}

	for _, key := range []string{EnvProjectDir, EnvTargetName} {
		if v := os.Getenv(key); v != "" {
			settings[key] = v
		}
	}
	return settings, nil
}

// findConfigFile returns explicit, or the first config file found in dir.
func findConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig returns ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored by WithConfig, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(configKey{}).(*Config)
	return cfg
}
