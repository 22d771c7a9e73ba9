package projectstart

import "github.com/wikimedia-sverige/project-start/internal/runtimeconfig"

// Config exports the tool configuration for consumers of the projectstart
// package.
type Config = runtimeconfig.Config

// WikiConfig exports the wiki page building settings.
type WikiConfig = runtimeconfig.WikiConfig

// PhabConfig exports the Phabricator connection settings.
type PhabConfig = runtimeconfig.PhabConfig

// GoalsLayout exports the goal spreadsheet layout settings.
type GoalsLayout = runtimeconfig.GoalsLayout

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// DefaultConfig returns the built-in defaults applied before a configuration
// file is read.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
