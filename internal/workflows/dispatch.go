package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/stowaway/internal/audit"
	"github.com/PolarWolf314/stowaway/internal/cleanup"
	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
	logger "github.com/PolarWolf314/stowaway/internal/logging"
	"github.com/PolarWolf314/stowaway/internal/manifest"
	"github.com/PolarWolf314/stowaway/internal/secrets"
	"github.com/PolarWolf314/stowaway/internal/transfer"
	"github.com/PolarWolf314/stowaway/internal/utils"
)

// teardownTimeout bounds clearing and stopping once the job context is gone.
const teardownTimeout = 2 * time.Minute

// DispatchOptions configures the dispatch workflow.
type DispatchOptions struct {
	// Config describes the execution environment.
	Config configs.Config

	// Runtime drives the environment.
	Runtime container.Runtime

	// Args are the positional arguments: <path> [secret].
	Args []string

	// WorkingDir resolves relative input paths and receives the result.
	WorkingDir string

	// Prompter reads the secret when it is not given in Args.
	Prompter secrets.Prompter

	// Progress is called on every state change. May be nil.
	Progress func(State)

	Logger logger.Logger
}

// DispatchResult contains the outcome of a dispatch. It is returned even
// when the workflow fails.
type DispatchResult struct {
	JobID string

	// State is the last state reached, or StateFailed.
	State State

	// FailedIn is the last state reached before the failure.
	FailedIn State

	// InputPath is the absolute host path of the input.
	InputPath string

	Artifact manifest.Artifact

	// DestinationPath is where the result was written on the host.
	DestinationPath string

	// SourceDeleted reports whether the input was removed.
	SourceDeleted bool

	// Digest is the hex blake2b-256 digest of the retrieved artifact.
	Digest string

	// TeardownErrors are failures while clearing, rolling back or stopping.
	// They are returned by Dispatch only when nothing failed earlier.
	TeardownErrors []error
}

// StartedContainer reports whether the job got as far as starting the
// environment. Teardown runs from that point on.
func (r *DispatchResult) StartedContainer() bool {
	reached := r.State
	if reached == StateFailed {
		reached = r.FailedIn
	}
	return reached.AtLeast(StatePathResolved)
}

// Dispatch sends one file through the execution environment and brings the
// result back.
//
// The stray manifest check and input resolution run before the container
// is touched. Once the container has been started, clearing it and stopping
// it are always attempted, on success and on failure. The error returned is
// the first one that happened; later teardown errors never replace it.
//
// The result is retrieved to a hidden file next to its destination and
// moved into place only after the environment has been cleared, so a
// failed job leaves no partial output and never overwrites an existing
// file. The input is deleted only when the result is encrypted, the whole
// job succeeded and Config.DeleteEncryptedSource is set.
func Dispatch(ctx context.Context, opts DispatchOptions) (*DispatchResult, error) {
	d := &dispatcher{
		opts: opts,
		log:  opts.Logger,
		result: &DispatchResult{
			JobID: uuid.NewString(),
			State: StateInit,
		},
	}

	err := d.run(ctx)
	if err != nil {
		d.result.FailedIn = d.result.State
		d.result.State = StateFailed
		if !d.tornDown {
			d.notify(StateFailed)
		}
	}

	entry := audit.Entry{
		JobID:         d.result.JobID,
		Operation:     "dispatch",
		Environment:   opts.Config.EnvironmentID,
		Input:         d.result.InputPath,
		Artifact:      d.result.Artifact.Name,
		Destination:   d.result.DestinationPath,
		Digest:        d.result.Digest,
		SourceDeleted: d.result.SourceDeleted,
		State:         string(d.result.State),
	}
	if d.result.Artifact.Name != "" {
		entry.Kind = d.result.Artifact.Kind.String()
	}
	if err != nil {
		entry.State = string(d.result.FailedIn)
		entry.Error = err.Error()
	}
	audit.Log(entry)

	return d.result, err
}

type dispatcher struct {
	opts   DispatchOptions
	log    logger.Logger
	result *DispatchResult

	// partial is the hidden retrieval target, renamed to destination on commit.
	partial     string
	destination string

	tornDown bool
}

func (d *dispatcher) advance(s State) {
	d.result.State = s
	d.notify(s)
}

func (d *dispatcher) notify(s State) {
	d.log.Debugf("job %s: %s", d.result.JobID, s)
	if d.opts.Progress != nil {
		d.opts.Progress(s)
	}
}

func (d *dispatcher) run(ctx context.Context) (err error) {
	cfg := d.opts.Config
	wd := d.opts.WorkingDir

	if err := cfg.Validate(); err != nil {
		return err
	}
	if d.opts.Runtime == nil {
		return fmt.Errorf("%w: no container runtime", kerrors.ErrContainerUnavailable)
	}

	manifestCopy := filepath.Join(wd, cfg.ManifestFileName())
	if utils.FileExists(manifestCopy) {
		return fmt.Errorf("%w: %s", kerrors.ErrStrayManifest, manifestCopy)
	}
	if len(d.opts.Args) == 0 || d.opts.Args[0] == "" {
		return kerrors.ErrMissingPath
	}

	// The input is resolved before the prompt so a missing file never asks
	// for a password.
	input, err := utils.ResolveInputPath(d.opts.Args[0], wd)
	if err != nil {
		return err
	}
	secret, err := secrets.Acquire(ctx, d.opts.Args, d.opts.Prompter)
	if err != nil {
		return err
	}
	d.advance(StateSecretAcquired)

	d.result.InputPath = input
	d.advance(StatePathResolved)

	ctrl := container.NewController(d.opts.Runtime, cfg.EnvironmentID)
	coord := cleanup.NewCoordinator(ctrl, cfg)
	agent := transfer.NewAgent(ctrl)

	defer d.teardown(ctx, ctrl, coord, &err)

	d.log.Infof("Starting container %s", ctrl.ID())
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	d.advance(StateContainerStarted)

	staged, err := agent.CopyIn(ctx, input, cfg.StagingDir)
	if err != nil {
		return err
	}
	d.log.Infof("Staged %s as %s", input, staged)
	d.advance(StateInputStaged)

	if err := d.execute(ctx, ctrl, staged, secret); err != nil {
		return err
	}
	d.advance(StateExecuted)

	coord.Track(manifestCopy)
	if err := agent.CopyOut(ctx, cfg.ManifestPath, manifestCopy); err != nil {
		return err
	}
	text, err := os.ReadFile(manifestCopy)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", kerrors.ErrTransferFailed, manifestCopy, err)
	}
	if err := coord.Release(manifestCopy); err != nil {
		return err
	}
	d.advance(StateManifestRead)

	artifact, err := manifest.Resolve(string(text), cfg.EncryptedExt)
	if err != nil {
		return err
	}
	d.result.Artifact = artifact
	d.log.Infof("Result %s classified as %s", artifact.Name, artifact.Kind)

	destName := manifest.DestinationName(filepath.Base(input), artifact, cfg.EncryptedExt)
	if destName == cfg.ManifestFileName() {
		return fmt.Errorf("%w: result %s would take the place of the manifest copy", kerrors.ErrMalformedManifest, artifact.Name)
	}
	d.advance(StateResultClassified)

	d.destination = filepath.Join(wd, destName)
	d.partial = filepath.Join(wd, fmt.Sprintf(".%s.%s.partial", destName, d.result.JobID[:8]))

	coord.Track(d.partial)
	if err := agent.CopyOut(ctx, path.Join(cfg.StagingDir, artifact.Name), d.partial); err != nil {
		return err
	}
	if digest, err := audit.FileDigest(d.partial); err != nil {
		d.log.Warnf("Could not compute digest of %s: %v", d.partial, err)
	} else {
		d.result.Digest = digest
	}
	d.advance(StateResultRetrieved)

	return nil
}

// execute runs the transformation, bounded by the configured timeout.
func (d *dispatcher) execute(ctx context.Context, ctrl *container.Controller, staged, secret string) error {
	cfg := d.opts.Config
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	execCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	d.log.Infof("Running %s on %s", cfg.TransformCommand, staged)
	output, err := ctrl.Execute(execCtx, cfg.TransformCommand, staged, secret)
	if len(output) > 0 {
		d.log.Debugf("%s output: %s", cfg.TransformCommand, output)
	}
	if err != nil && ctx.Err() == nil && errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s did not finish within %s", kerrors.ErrExecutionFailed, cfg.TransformCommand, timeout)
	}
	return err
}

// teardown clears the environment, commits or rolls back host files and
// stops the environment. It runs on a context detached from ctx so an
// interrupted job is still cleaned up. errp holds the job's error and is
// only set here when it is nil.
func (d *dispatcher) teardown(ctx context.Context, ctrl *container.Controller, coord *cleanup.Coordinator, errp *error) {
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), teardownTimeout)
	defer cancel()

	fail := func(err error) {
		d.log.Warnf("%v", err)
		d.result.TeardownErrors = append(d.result.TeardownErrors, err)
		if *errp == nil {
			*errp = err
		}
	}

	d.tornDown = true
	if *errp != nil {
		d.notify(StateFailed)
	}

	if err := coord.ClearEnvironment(tctx); err != nil {
		fail(err)
	}

	if *errp == nil {
		d.advance(StateCleanedUp)
		if err := d.commit(coord); err != nil {
			fail(err)
		}
	} else if err := coord.Rollback(); err != nil {
		fail(err)
	}

	if err := ctrl.Stop(tctx); err != nil {
		fail(err)
		return
	}
	if *errp == nil {
		d.advance(StateContainerStopped)
	}
}

// commit moves the retrieved result into place and applies the input
// deletion policy.
func (d *dispatcher) commit(coord *cleanup.Coordinator) error {
	if err := os.Rename(d.partial, d.destination); err != nil {
		if rbErr := coord.Rollback(); rbErr != nil {
			d.log.Warnf("%v", rbErr)
		}
		return fmt.Errorf("%w: moving result to %s: %w", kerrors.ErrTransferFailed, d.destination, err)
	}
	coord.Commit()
	d.result.DestinationPath = d.destination

	policy := d.opts.Config.DeleteEncryptedSource
	if manifest.ShouldDeleteSource(d.result.Artifact, policy) && d.destination != d.result.InputPath {
		if err := coord.RemoveSource(d.result.InputPath); err != nil {
			return err
		}
		d.result.SourceDeleted = true
	}
	return nil
}
