// Package config holds flag state shared across CLI commands.
package config

// RootConfig carries the persistent flags every subcommand can see.
type RootConfig struct {
	ConfigPath string
	DBPath     string
}
