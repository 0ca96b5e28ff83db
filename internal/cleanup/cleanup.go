// Package cleanup returns the execution environment and the host to a clean
// state after a job, whether it succeeded or not.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/stowaway/internal/configs"
	"github.com/PolarWolf314/stowaway/internal/container"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

// clearScript empties and recreates the staging directory ($1) and
// truncates the manifest ($2), so no record of this job can be read again.
const clearScript = `rm -rf -- "$1" && mkdir -p -- "$1" && : > "$2"`

// Environment is the subset of container.Controller the coordinator needs.
type Environment interface {
	Run(ctx context.Context, argv ...string) (container.ExecResult, error)
}

// Coordinator removes staged artifacts inside the environment and tracks
// files the job created on the host.
type Coordinator struct {
	env          Environment
	stagingDir   string
	manifestPath string
	clearCommand []string

	created []string
}

func NewCoordinator(env Environment, cfg configs.Config) *Coordinator {
	return &Coordinator{
		env:          env,
		stagingDir:   cfg.StagingDir,
		manifestPath: cfg.ManifestPath,
		clearCommand: cfg.ClearCommand,
	}
}

// ClearCommand returns the argv run inside the environment to clear it.
func (c *Coordinator) ClearCommand() []string {
	if len(c.clearCommand) > 0 {
		return c.clearCommand
	}
	return []string{"sh", "-c", clearScript, "clear", c.stagingDir, c.manifestPath}
}

// ClearEnvironment runs the clearing operation and then confirms the
// staging directory exists and is empty. Anything else is ErrCleanupFailed:
// a half-cleared directory must never be mistaken for a later job's state.
// Running it repeatedly is safe.
func (c *Coordinator) ClearEnvironment(ctx context.Context) error {
	argv := c.ClearCommand()
	res, err := c.env.Run(ctx, argv...)
	if err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrCleanupFailed, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: %s exited with status %d: %s", kerrors.ErrCleanupFailed, argv[0], res.ExitCode, strings.TrimSpace(string(res.Output)))
	}

	res, err = c.env.Run(ctx, "ls", "-A", c.stagingDir)
	if err != nil {
		return fmt.Errorf("%w: listing %s: %w", kerrors.ErrCleanupFailed, c.stagingDir, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: %s missing after clear: %s", kerrors.ErrCleanupFailed, c.stagingDir, strings.TrimSpace(string(res.Output)))
	}
	if left := strings.Fields(string(res.Output)); len(left) > 0 {
		return fmt.Errorf("%w: %d entries left in %s: %s", kerrors.ErrCleanupFailed, len(left), c.stagingDir, strings.Join(left, ", "))
	}

	return nil
}

// Track registers a host file created by the job so Rollback can remove it.
func (c *Coordinator) Track(path string) {
	c.created = append(c.created, path)
}

// Tracked returns the host files registered so far.
func (c *Coordinator) Tracked() []string {
	return append([]string(nil), c.created...)
}

// Release removes a tracked host file immediately and forgets it.
func (c *Coordinator) Release(path string) error {
	c.forget(path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing %s: %w", kerrors.ErrCleanupFailed, path, err)
	}
	return nil
}

// Commit keeps every tracked file; Rollback will no longer touch them.
func (c *Coordinator) Commit() {
	c.created = nil
}

// Rollback removes every tracked host file, so a failed job leaves no
// partial output behind.
func (c *Coordinator) Rollback() error {
	var errs []error
	for _, path := range c.created {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
		}
	}
	c.created = nil
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", kerrors.ErrCleanupFailed, errors.Join(errs...))
	}
	return nil
}

// RemoveSource deletes the job's original input file.
func (c *Coordinator) RemoveSource(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: removing input %s: %w", kerrors.ErrCleanupFailed, path, err)
	}
	return nil
}

func (c *Coordinator) forget(path string) {
	kept := c.created[:0]
	for _, p := range c.created {
		if p != path {
			kept = append(kept, p)
		}
	}
	c.created = kept
}
