package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the ticket booth CLI.
type Config struct {
	Input   InputConfig   `yaml:"input"   mapstructure:"input"`
	Output  OutputConfig  `yaml:"output"  mapstructure:"output"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Stats   StatsConfig   `yaml:"stats"   mapstructure:"stats"`
}

type InputConfig struct {
	ScriptFile string `yaml:"script_file" mapstructure:"script_file"`
}

type OutputConfig struct {
	File string `yaml:"file" mapstructure:"file"`
	Echo bool   `yaml:"echo" mapstructure:"echo"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"   mapstructure:"level"`
	File    string `yaml:"file"    mapstructure:"file"`
	Console bool   `yaml:"console" mapstructure:"console"`
}

type StatsConfig struct {
	Enabled    bool   `yaml:"enabled"     mapstructure:"enabled"`
	ExportFile string `yaml:"export_file" mapstructure:"export_file"`
}

// SetDefaults configures default values for the configuration.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.echo", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("stats.enabled", false)
}

// Load reads configuration from a YAML file and returns a Config.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadWithViper reads configuration using an existing viper instance (for CLI flag binding).
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// OutputFile returns the configured output file, defaulting to
// "<script>_output_file.txt" next to the input script.
func (c *Config) OutputFile() string {
	if c.Output.File != "" {
		return c.Output.File
	}
	base := c.Input.ScriptFile
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base + "_output_file.txt"
}

// Summary returns a human-readable summary of the configuration.
func (c *Config) Summary() string {
	var sb strings.Builder
	sb.WriteString("Configuration:\n")
	sb.WriteString(fmt.Sprintf("  Script:     %s\n", c.Input.ScriptFile))
	sb.WriteString(fmt.Sprintf("  Output:     %s\n", c.OutputFile()))
	sb.WriteString(fmt.Sprintf("  Echo:       %v\n", c.Output.Echo))
	sb.WriteString(fmt.Sprintf("  Log level:  %s\n", c.Logging.Level))
	sb.WriteString(fmt.Sprintf("  Stats:      enabled=%v\n", c.Stats.Enabled))
	return sb.String()
}
