package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	validFormats    = []string{"file", "list"}
	validOutputs    = []string{"auto", "text", "markdown", "json"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Script) == "" {
		return fmt.Errorf("script name is required")
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Format)) {
		return fmt.Errorf("invalid format %q (expected %s)", c.Format, strings.Join(validFormats, "|"))
	}
	if len(c.FrameworksDirs) == 0 {
		return fmt.Errorf("at least one frameworks directory is required")
	}
	if !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (expected %s)", c.OutputFormat, strings.Join(validOutputs, "|"))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (expected %s)", c.LogFormat, strings.Join(validLogFormats, "|"))
	}
	return nil
}
