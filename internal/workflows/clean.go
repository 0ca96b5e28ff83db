package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/PolarWolf314/stowaway/internal/audit"
	"github.com/PolarWolf314/stowaway/internal/cleanup"
	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
	logger "github.com/PolarWolf314/stowaway/internal/logging"
)

// CleanOptions configures the clean workflow.
type CleanOptions struct {
	Config  configs.Config
	Runtime container.Runtime

	// WorkingDir is searched for a stray manifest copy.
	WorkingDir string

	// DryRun reports what would be done without touching anything.
	DryRun bool

	Logger logger.Logger
}

// CleanResult contains the outcome of a clean operation.
type CleanResult struct {
	JobID string

	// StrayManifest is the manifest copy found in the working directory, if any.
	StrayManifest string

	// RemovedManifest reports whether StrayManifest was deleted.
	RemovedManifest bool

	// Cleared reports whether the environment was cleared.
	Cleared bool

	// ClearCommand is the command run inside the environment.
	ClearCommand []string

	DryRun bool
}

// Clean recovers from an interrupted dispatch. It removes a stray manifest
// copy from the working directory, then starts, clears and stops the
// environment. Stopping is attempted whenever starting was.
func Clean(ctx context.Context, opts CleanOptions) (result *CleanResult, err error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Runtime == nil {
		return nil, fmt.Errorf("%w: no container runtime", kerrors.ErrContainerUnavailable)
	}

	ctrl := container.NewController(opts.Runtime, cfg.EnvironmentID)
	coord := cleanup.NewCoordinator(ctrl, cfg)

	result = &CleanResult{
		JobID:        uuid.NewString(),
		ClearCommand: coord.ClearCommand(),
		DryRun:       opts.DryRun,
	}

	manifestCopy := filepath.Join(opts.WorkingDir, cfg.ManifestFileName())
	if _, statErr := os.Stat(manifestCopy); statErr == nil {
		result.StrayManifest = manifestCopy
	}

	if opts.DryRun {
		return result, nil
	}

	defer func() {
		entry := audit.Entry{
			JobID:       result.JobID,
			Operation:   "clean",
			Environment: cfg.EnvironmentID,
			State:       "CLEARED",
		}
		if err != nil {
			entry.State = "FAILED"
			entry.Error = err.Error()
		}
		audit.Log(entry)
	}()

	if result.StrayManifest != "" {
		if err := os.Remove(result.StrayManifest); err != nil {
			return result, fmt.Errorf("%w: removing %s: %w", kerrors.ErrCleanupFailed, result.StrayManifest, err)
		}
		result.RemovedManifest = true
		opts.Logger.Infof("Removed stray manifest %s", result.StrayManifest)
	}

	if err := ctrl.Start(ctx); err != nil {
		if stopErr := stopDetached(ctx, ctrl); stopErr != nil {
			opts.Logger.Warnf("%v", stopErr)
		}
		return result, err
	}

	clearErr := coord.ClearEnvironment(ctx)
	stopErr := stopDetached(ctx, ctrl)

	if clearErr != nil {
		if stopErr != nil {
			opts.Logger.Warnf("%v", stopErr)
		}
		return result, clearErr
	}
	result.Cleared = true

	if stopErr != nil {
		return result, stopErr
	}
	return result, nil
}

func stopDetached(ctx context.Context, ctrl *container.Controller) error {
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()
	return ctrl.Stop(tctx)
}
