package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/stowaway/internal/manifest"
	"github.com/PolarWolf314/stowaway/internal/secrets"
	"github.com/PolarWolf314/stowaway/internal/ui"
	"github.com/PolarWolf314/stowaway/internal/workflows"
)

var reportFile string

func init() {
	RootCmd.Flags().StringVar(&reportFile, "report", "", "write a YAML job report to this file")
}

func resetDispatchState() {
	reportFile = ""
}

func runDispatch(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting dispatch")

	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Println(ui.Fail(err.Error()))
		return &reportedError{err: err}
	}
	wd, err := workingDir()
	if err != nil {
		return err
	}
	Logger.Debugf("Working directory: %s, environment: %s via %s", wd, cfg.EnvironmentID, cfg.Runtime)

	spinner, cleanup := startSpinner(workflows.StateInit.Describe())
	defer cleanup()

	var states []workflows.State
	opts := workflows.DispatchOptions{
		Config:     cfg,
		Runtime:    newRuntime(cfg),
		Args:       args,
		WorkingDir: wd,
		Logger:     Logger,
		Prompter: func(ctx context.Context, prompt string) ([]byte, error) {
			var secret []byte
			err := pauseSpinner(spinner, func() error {
				var err error
				secret, err = secrets.TerminalPrompter(ctx, prompt)
				return err
			})
			return secret, err
		},
		Progress: func(s workflows.State) {
			states = append(states, s)
			setSpinnerMessage(spinner, s.Describe())
		},
	}

	result, err := workflows.Dispatch(cmd.Context(), opts)

	if reportFile != "" {
		if reportErr := writeReport(reportFile, newJobReport(cfg, result, states, err)); reportErr != nil {
			Logger.Warnf("Failed to write report: %v", reportErr)
		}
	}

	if err != nil {
		spinner.FinalMSG = formatDispatchError(err, cfg, result)
		return &reportedError{err: err}
	}

	spinner.FinalMSG = formatDispatchSuccess(result)
	return nil
}

func formatDispatchSuccess(result *workflows.DispatchResult) string {
	input := filepath.Base(result.InputPath)
	dest := filepath.Base(result.DestinationPath)

	verb := "Decrypted"
	if result.Artifact.Kind == manifest.Encrypted {
		verb = "Encrypted"
	}

	lines := []string{ui.Done(fmt.Sprintf("%s %s into %s", verb, ui.Path.Sprint(input), ui.Path.Sprint(result.DestinationPath)))}
	if result.SourceDeleted {
		lines = append(lines, ui.Hint("Deleted "+ui.Path.Sprint(input)))
	}
	Logger.Debugf("Job %s wrote %s (blake2b %s)", result.JobID, dest, result.Digest)
	return ui.Lines(lines...)
}
