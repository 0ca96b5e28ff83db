// Package transfer moves single files between the host and the execution
// environment and verifies every copy afterwards.
//
// The container runtime has been observed to report success for copies
// that moved zero bytes, so an exit status is never taken as proof. After
// each copy the byte size on both sides is compared; the remote size is
// read with `wc -c` inside the environment.
package transfer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PolarWolf314/stowaway/internal/container"
	kerrors "github.com/PolarWolf314/stowaway/internal/errors"
)

// Environment is the subset of container.Controller the agent needs.
type Environment interface {
	CopyIn(ctx context.Context, hostPath, containerPath string) error
	CopyOut(ctx context.Context, containerPath, hostPath string) error
	Run(ctx context.Context, argv ...string) (container.ExecResult, error)
}

// Agent copies files in and out of one environment.
type Agent struct {
	env Environment
}

func NewAgent(env Environment) *Agent {
	return &Agent{env: env}
}

// CopyIn stages hostPath in stagingDir under its base name and returns the
// container-side path.
func (a *Agent) CopyIn(ctx context.Context, hostPath, stagingDir string) (string, error) {
	info, err := os.Stat(hostPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w: %w", hostPath, kerrors.ErrTransferFailed, err)
	}

	remotePath := path.Join(stagingDir, filepath.Base(hostPath))
	if err := a.env.CopyIn(ctx, hostPath, remotePath); err != nil {
		return "", fmt.Errorf("copying %s to %s: %w: %w", hostPath, remotePath, kerrors.ErrTransferFailed, err)
	}

	remoteSize, err := a.remoteSize(ctx, remotePath)
	if err != nil {
		return "", err
	}
	if remoteSize != info.Size() {
		return "", fmt.Errorf("%w: %s has %d bytes in the container, expected %d", kerrors.ErrTransferFailed, remotePath, remoteSize, info.Size())
	}

	return remotePath, nil
}

// CopyOut copies remotePath to hostDest.
func (a *Agent) CopyOut(ctx context.Context, remotePath, hostDest string) error {
	remoteSize, err := a.remoteSize(ctx, remotePath)
	if err != nil {
		return err
	}

	if err := a.env.CopyOut(ctx, remotePath, hostDest); err != nil {
		return fmt.Errorf("copying %s to %s: %w: %w", remotePath, hostDest, kerrors.ErrTransferFailed, err)
	}

	info, err := os.Stat(hostDest)
	if err != nil {
		return fmt.Errorf("%w: %s missing after copy: %w", kerrors.ErrTransferFailed, hostDest, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", kerrors.ErrTransferFailed, hostDest)
	}
	if info.Size() != remoteSize {
		return fmt.Errorf("%w: %s has %d bytes, expected %d", kerrors.ErrTransferFailed, hostDest, info.Size(), remoteSize)
	}

	return nil
}

func (a *Agent) remoteSize(ctx context.Context, remotePath string) (int64, error) {
	res, err := a.env.Run(ctx, "wc", "-c", remotePath)
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w: %w", remotePath, kerrors.ErrTransferFailed, err)
	}
	if res.ExitCode != 0 {
		return 0, fmt.Errorf("%w: %s not found in the container: %s", kerrors.ErrTransferFailed, remotePath, strings.TrimSpace(string(res.Output)))
	}

	fields := strings.Fields(string(res.Output))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty size report for %s", kerrors.ErrTransferFailed, remotePath)
	}
	size, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable size report %q for %s", kerrors.ErrTransferFailed, fields[0], remotePath)
	}
	return size, nil
}
