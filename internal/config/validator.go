package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	// Script file must exist
	if c.Input.ScriptFile == "" {
		errs = append(errs, "input.script_file must be specified")
	} else if _, err := os.Stat(c.Input.ScriptFile); os.IsNotExist(err) {
		errs = append(errs, fmt.Sprintf("script file not found: %s", c.Input.ScriptFile))
	}

	// Log level must be valid
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level))
	}

	// Stats export requires stats to be enabled
	if c.Stats.ExportFile != "" && !c.Stats.Enabled {
		errs = append(errs, "stats.export_file is set but stats.enabled is false")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
