package cmd

import (
	"context"
	"errors"

	"github.com/PolarWolf314/stowaway/internal/configs"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
	"github.com/PolarWolf314/stowaway/internal/ui"
	"github.com/PolarWolf314/stowaway/internal/workflows"
)

// reportedError marks an error whose message has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// formatDispatchError returns the one message shown for each failure category.
// result is nil for commands other than dispatch.
func formatDispatchError(err error, cfg configs.Config, result *workflows.DispatchResult) string {
	var execErr *kerrors.ExecError

	switch {
	case errors.Is(err, context.Canceled):
		return ui.Lines(
			ui.Fail("Interrupted"),
			interruptedHint(result),
		)

	case errors.Is(err, kerrors.ErrStrayManifest):
		return ui.Lines(
			ui.Fail("Error occurred, "+ui.Path.Sprint(cfg.ManifestFileName())+" already exists in the working directory"),
			ui.Hint("A previous job was interrupted. Run "+ui.Code.Sprint("stowaway clean")+" to recover"),
		)

	case errors.Is(err, kerrors.ErrMissingPath):
		return ui.Lines(
			ui.Fail("No path given"),
			ui.Hint("Usage: "+ui.Code.Sprint("stowaway <path> [secret]")),
		)

	case errors.Is(err, kerrors.ErrPathNotFound):
		return ui.Fail("Path does not exist: " + err.Error())

	case errors.Is(err, kerrors.ErrNoSecret):
		return ui.Fail("No password provided")

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return ui.Lines(
			ui.Fail(err.Error()),
			ui.Hint("Run "+ui.Code.Sprint("stowaway config show")+" to inspect the configuration"),
		)

	case errors.As(err, &execErr):
		return ui.Lines(
			ui.Fail("The encryption binary failed with exit status "+ui.Highlight.Sprintf("%d", execErr.ExitCode)),
			ui.Hint("Check the password and that the file is not damaged"),
		)

	case errors.Is(err, kerrors.ErrExecutionFailed):
		return ui.Fail("The encryption binary failed: " + err.Error())

	case errors.Is(err, kerrors.ErrContainerUnavailable):
		return ui.Lines(
			ui.Fail("Container "+ui.Highlight.Sprint(cfg.EnvironmentID)+" is unavailable"),
			ui.Muted.Sprint(err.Error()),
		)

	case errors.Is(err, kerrors.ErrTransferFailed):
		return ui.Fail("File transfer failed: " + err.Error())

	case errors.Is(err, kerrors.ErrMalformedManifest):
		return ui.Lines(
			ui.Fail("The encryption binary did not report a result file"),
			ui.Muted.Sprint(err.Error()),
		)

	case errors.Is(err, kerrors.ErrCleanupFailed):
		return ui.Lines(
			ui.Fail("Cleanup failed: "+err.Error()),
			ui.Hint("Run "+ui.Code.Sprint("stowaway clean")+" before the next job"),
		)

	default:
		return ui.Fail(err.Error())
	}
}

// interruptedHint says what state an interrupted job left the container in.
func interruptedHint(result *workflows.DispatchResult) string {
	switch {
	case result == nil:
		return ui.Hint("Run " + ui.Code.Sprint("stowaway clean") + " again to finish recovery")
	case len(result.TeardownErrors) > 0:
		return ui.Hint("Cleanup did not finish. Run " + ui.Code.Sprint("stowaway clean") + " before the next job")
	case !result.StartedContainer():
		return ui.Hint("The container was not started")
	default:
		return ui.Hint("The container was cleared and stopped")
	}
}
