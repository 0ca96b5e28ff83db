package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/ui"
	"github.com/PolarWolf314/stowaway/internal/utils"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Writes the default configuration to the config file, applying any
STOWAWAY_* variables and --container/--runtime flags.

An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		path := configFile
		if path == "" {
			path = configs.ConfigPath()
		}

		if utils.FileExists(path) && !configInitForce {
			fmt.Println(ui.Lines(
				ui.Warning.Sprint("⚠")+" Config file already exists at "+ui.Path.Sprint(path),
				ui.Hint("Use "+ui.Code.Sprint("--force")+" to overwrite it"),
			))
			return nil
		}

		cfg := configs.Default()
		configs.ApplyOverrides(&cfg, configs.NewViper(cmd.Flags()))
		Logger.Debugf("Writing config %+v", cfg)

		if err := configs.SaveFile(path, cfg); err != nil {
			return Logger.ErrorfAndReturn("Failed to write config: %v", err)
		}

		lines := []string{ui.Done("Config written to " + ui.Path.Sprint(path))}
		if err := cfg.Validate(); err != nil {
			lines = append(lines, ui.Hint("Before the first job: "+err.Error()))
		}
		fmt.Println(ui.Lines(lines...))
		return nil
	},
}
