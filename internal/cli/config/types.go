// Package config provides configuration management for the framecopy CLI.
//
// Values are layered, highest precedence first: command-line flags,
// FRAMECOPY_* environment variables, framecopy.yaml in the project
// directory, and built-in defaults. Xcode build settings exported to a .env
// file in the project directory seed the PROJECT_DIR and TARGET_NAME
// defaults so the tool behaves the same inside and outside a build phase.
package config

// Config holds all CLI configuration options.
type Config struct {
	ProjectDir     string   `koanf:"project_dir"`
	Script         string   `koanf:"script"`
	Format         string   `koanf:"format"`
	Target         string   `koanf:"target"`
	ProjectNames   []string `koanf:"project_names"`
	FrameworksDirs []string `koanf:"frameworks_dirs"`
	Platform       string   `koanf:"platform"`
	Append         bool     `koanf:"append"`
	LinkedOnly     bool     `koanf:"linked_only"`
	Verbose        bool     `koanf:"verbose"`
	OutputFormat   string   `koanf:"output"`
	LogFormat      string   `koanf:"log_format"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultScript        = "Carthage"
	DefaultFormat        = "list"
	DefaultFrameworksDir = "Carthage"
	DefaultPlatform      = "iOS"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat     = "text"
)

// LogFormatJSON selects JSON diagnostic logs.
const LogFormatJSON = "json"

// EnvPrefix prefixes framecopy's own environment variables.
const EnvPrefix = "FRAMECOPY_"

// Xcode build settings read from the environment or the .env file.
const (
	EnvProjectDir = "PROJECT_DIR"
	EnvTargetName = "TARGET_NAME"
)

// BuildSettingsFile holds exported build settings in the project directory.
const BuildSettingsFile = ".env"

// ConfigFileNames are searched in the project directory, in order.
var ConfigFileNames = []string{"framecopy.yaml", "framecopy.yml"}
