// Package config provides configuration loading for hipify. Shape and
// validation pattern are grounded on the teacher's own viper-based loader
// (internal/config/loader.go), retargeted from the analyzer-pipeline
// domain to this translator's rename/metrics/resource settings.
package config

import "errors"

// Config is the top-level configuration struct for hipify.
type Config struct {
	Rename    RenameConfig    `mapstructure:"rename"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Resources ResourcesConfig `mapstructure:"resources"`
}

// RenameConfig controls discovery of user-supplied rename-table
// extensions (-extra-mappings), a setting the original has no equivalent
// for since its tables are compiled in with no extension point.
type RenameConfig struct {
	ExtensionPaths []string `mapstructure:"extension_paths"`
}

// MetricsConfig controls the optional -metrics-addr Prometheus endpoint;
// the -metrics-addr flag, when given, takes precedence over ListenAddr.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig holds the process logger's level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// ResourcesConfig overrides the runtime-header text the original bakes in
// as a literal compile-time string, and the resource-directory analogue
// the original passes to the front end as `HIPIFY_CLANG_RES`. RuntimeHeader
// replaces the header text the dispatcher inserts. ResourceDir is loaded
// with the rest of the configuration but nothing reads it: the tree-sitter
// front end takes no resource directory and receives no such argument.
type ResourcesConfig struct {
	RuntimeHeader string `mapstructure:"runtime_header"`
	ResourceDir   string `mapstructure:"resource_dir"`
}

// ErrInvalidMetricsAddr reports a listen_addr that failed basic sanity
// checking (currently: must not be a bare number missing its colon).
var ErrInvalidMetricsAddr = errors.New("metrics.listen_addr must be of the form [host]:port")

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Metrics.ListenAddr != "" && !hasColon(c.Metrics.ListenAddr) {
		return ErrInvalidMetricsAddr
	}

	return nil
}

func hasColon(s string) bool {
	for _, r := range s {
		if r == ':' {
			return true
		}
	}

	return false
}
