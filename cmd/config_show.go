package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container"
	"github.com/PolarWolf314/stowaway/internal/utils"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Displays the configuration a job would run with: defaults, the config
file, then environment variables and flags.

Examples:
  stowaway config show
  stowaway config show --json
  STOWAWAY_RUNTIME=podman stowaway config show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		if configShowJSON {
			output, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		return outputConfigText(cfg)
	},
}

func outputConfigText(cfg configs.Config) error {
	path := configFile
	if path == "" {
		path = configs.ConfigPath()
	}
	source := path
	if !utils.FileExists(path) {
		source = "defaults, no file at " + path
	}

	fmt.Println(color.CyanString("Configuration") + " (" + source + "):")
	fmt.Println()

	value := func(s string) string {
		if s == "" {
			return color.RedString("(not set)")
		}
		return color.GreenString(s)
	}

	clearCommand := "built-in"
	if len(cfg.ClearCommand) > 0 {
		clearCommand = strings.Join(cfg.ClearCommand, " ")
	}
	timeout := cfg.ExecTimeout
	if timeout == "" {
		timeout = "none"
	}

	fmt.Printf("  %-24s %s\n", "Container:", value(cfg.EnvironmentID))
	fmt.Printf("  %-24s %s\n", "Runtime:", value(cfg.Runtime))
	fmt.Printf("  %-24s %s\n", "Staging directory:", value(cfg.StagingDir))
	fmt.Printf("  %-24s %s\n", "Manifest:", value(cfg.ManifestPath))
	fmt.Printf("  %-24s %s\n", "Transform command:", value(cfg.TransformCommand))
	fmt.Printf("  %-24s %s\n", "Clear command:", color.GreenString(clearCommand))
	fmt.Printf("  %-24s %s\n", "Encrypted extension:", value(cfg.EncryptedExt))
	fmt.Printf("  %-24s %s\n", "Delete encrypted source:", color.GreenString(fmt.Sprintf("%t", cfg.DeleteEncryptedSource)))
	fmt.Printf("  %-24s %s\n", "Exec timeout:", color.GreenString(timeout))

	fmt.Println()
	if err := cfg.Validate(); err != nil {
		fmt.Println(color.YellowString("⚠") + " " + err.Error())
	}
	if cfg.Runtime != "" {
		if err := container.NewCLI(cfg.Runtime, Logger).Available(); err != nil {
			fmt.Println(color.YellowString("⚠") + " " + err.Error())
		}
	}
	return nil
}
