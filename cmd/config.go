package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stowaway configuration",
	Long: `Provides commands for managing the configuration file.

The configuration describes the container: its id, the client used to drive
it, the staging directory and manifest inside it, and the encryption binary.
Every field can be overridden with a STOWAWAY_<FIELD> environment variable,
and the container id and runtime with --container and --runtime.

Examples:
  # Write the default configuration for container pman
  stowaway config init --container pman

  # Show the effective configuration
  stowaway config show
  stowaway config show --json`,
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}
