package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/stowaway/internal/ui"
	"github.com/PolarWolf314/stowaway/internal/workflows"
)

var cleanDryRun bool

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "show what would be done without making changes")
}

func resetCleanCommandState() {
	cleanDryRun = false
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Recover the container and working directory after an interrupted job",
	Long: `Returns the container and the working directory to a clean state.

A job that was killed can leave the manifest copy in the working directory
(which blocks the next job), staged files in the container, and the
container running. clean removes the manifest copy, starts the container,
clears its staging directory and manifest, and stops it.

Use --dry-run to preview what would be done.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clean command")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		wd, err := workingDir()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Cleaning container...")
		defer cleanup()

		result, err := workflows.Clean(cmd.Context(), workflows.CleanOptions{
			Config:     cfg,
			Runtime:    newRuntime(cfg),
			WorkingDir: wd,
			DryRun:     cleanDryRun,
			Logger:     Logger,
		})
		if err != nil {
			spinner.FinalMSG = formatDispatchError(err, cfg, nil)
			return &reportedError{err: err}
		}

		if result.DryRun {
			lines := []string{"[dry-run] Would:"}
			if result.StrayManifest != "" {
				lines = append(lines, "  - remove "+ui.Path.Sprint(result.StrayManifest))
			}
			lines = append(lines,
				fmt.Sprintf("  - start %s", ui.Highlight.Sprint(cfg.EnvironmentID)),
				fmt.Sprintf("  - run %s", ui.Code.Sprint(strings.Join(result.ClearCommand, " "))),
				fmt.Sprintf("  - stop %s", ui.Highlight.Sprint(cfg.EnvironmentID)),
				"",
				"No changes made.",
			)
			spinner.FinalMSG = ui.Lines(lines...)
			return nil
		}

		lines := []string{}
		if result.RemovedManifest {
			lines = append(lines, ui.Done("Removed stray "+ui.Path.Sprint(result.StrayManifest)))
		}
		lines = append(lines, ui.Done("Container "+ui.Highlight.Sprint(cfg.EnvironmentID)+" cleared and stopped"))
		spinner.FinalMSG = ui.Lines(lines...)
		return nil
	},
}
