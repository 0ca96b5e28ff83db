package container

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

// Controller owns the lifecycle of one execution environment. The
// environment is borrowed: Controller starts and stops it but never creates
// or removes it.
type Controller struct {
	rt Runtime
	id string
}

// NewController binds rt to the environment identified by id.
func NewController(rt Runtime, id string) *Controller {
	return &Controller{rt: rt, id: id}
}

// ID returns the environment identifier.
func (c *Controller) ID() string {
	return c.id
}

// Start brings the environment up. Starting a running environment is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.rt.Start(ctx, c.id); err != nil {
		return fmt.Errorf("starting %s: %w: %w", c.id, kerrors.ErrContainerUnavailable, err)
	}
	return nil
}

// Stop shuts the environment down.
func (c *Controller) Stop(ctx context.Context) error {
	if err := c.rt.Stop(ctx, c.id); err != nil {
		return fmt.Errorf("stopping %s: %w: %w", c.id, kerrors.ErrContainerUnavailable, err)
	}
	return nil
}

// Execute runs command with args inside the environment and blocks until it
// exits. A non-zero exit status yields an *errors.ExecError. The arguments
// are never included in errors since they may carry the secret.
func (c *Controller) Execute(ctx context.Context, command string, args ...string) ([]byte, error) {
	res, err := c.rt.Exec(ctx, c.id, append([]string{command}, args...))
	if err != nil {
		return nil, fmt.Errorf("executing %s in %s: %w: %w", command, c.id, kerrors.ErrContainerUnavailable, err)
	}
	if res.ExitCode != 0 {
		return res.Output, &kerrors.ExecError{
			Command:  command,
			ExitCode: res.ExitCode,
			Output:   string(res.Output),
		}
	}
	return res.Output, nil
}

// Run executes an auxiliary command and returns its raw result, leaving
// exit-status interpretation to the caller.
func (c *Controller) Run(ctx context.Context, argv ...string) (ExecResult, error) {
	res, err := c.rt.Exec(ctx, c.id, argv)
	if err != nil {
		return ExecResult{}, fmt.Errorf("running %s in %s: %w: %w", argv[0], c.id, kerrors.ErrContainerUnavailable, err)
	}
	return res, nil
}

// CopyIn copies a host file to containerPath.
func (c *Controller) CopyIn(ctx context.Context, hostPath, containerPath string) error {
	return c.rt.CopyIn(ctx, c.id, hostPath, containerPath)
}

// CopyOut copies containerPath to a host file.
func (c *Controller) CopyOut(ctx context.Context, containerPath, hostPath string) error {
	return c.rt.CopyOut(ctx, c.id, containerPath, hostPath)
}
