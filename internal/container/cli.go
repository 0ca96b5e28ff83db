package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	logger "github.com/PolarWolf314/stowaway/internal/logging"
)

// CLI is a Runtime backed by a docker-compatible command-line client.
type CLI struct {
	// Binary is the client to invoke, "docker" or "podman".
	Binary string

	Logger logger.Logger

	// commandContext builds the child process; tests replace it.
	commandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCLI returns a CLI runtime using binary.
func NewCLI(binary string, log logger.Logger) *CLI {
	return &CLI{
		Binary:         binary,
		Logger:         log,
		commandContext: exec.CommandContext,
	}
}

// Available reports whether the client binary can be found on PATH.
func (c *CLI) Available() error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", c.Binary, err)
	}
	return nil
}

func (c *CLI) Start(ctx context.Context, id string) error {
	_, err := c.run(ctx, "start", id)
	return err
}

func (c *CLI) Stop(ctx context.Context, id string) error {
	_, err := c.run(ctx, "stop", id)
	return err
}

func (c *CLI) CopyIn(ctx context.Context, id, hostPath, containerPath string) error {
	_, err := c.run(ctx, "cp", hostPath, id+":"+containerPath)
	return err
}

func (c *CLI) CopyOut(ctx context.Context, id, containerPath, hostPath string) error {
	_, err := c.run(ctx, "cp", id+":"+containerPath, hostPath)
	return err
}

func (c *CLI) Exec(ctx context.Context, id string, argv []string) (ExecResult, error) {
	args := append([]string{"exec", id}, argv...)
	cmd := c.command(ctx, args...)

	// argv may carry the secret, so only the program is logged.
	if len(argv) > 0 {
		c.Logger.Debugf("Running: %s exec %s %s (%d args)", c.Binary, id, argv[0], len(argv)-1)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return ExecResult{ExitCode: exitErr.ExitCode(), Output: output}, nil
		}
		if ctx.Err() != nil {
			return ExecResult{}, fmt.Errorf("%s exec interrupted: %w", c.Binary, ctx.Err())
		}
		return ExecResult{}, fmt.Errorf("%s exec failed: %w", c.Binary, err)
	}

	return ExecResult{ExitCode: 0, Output: output}, nil
}

// run executes a client subcommand and folds its output into the error.
func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := c.command(ctx, args...)
	c.Logger.Debugf("Running: %s %s", c.Binary, strings.Join(args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return output, fmt.Errorf("%s %s interrupted: %w", c.Binary, args[0], ctx.Err())
		}
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			return output, fmt.Errorf("%s %s failed: %w", c.Binary, args[0], err)
		}
		return output, fmt.Errorf("%s %s failed: %w: %s", c.Binary, args[0], err, msg)
	}
	return output, nil
}

func (c *CLI) command(ctx context.Context, args ...string) *exec.Cmd {
	commandContext := c.commandContext
	if commandContext == nil {
		commandContext = exec.CommandContext
	}
	cmd := commandContext(ctx, c.Binary, args...)
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	return cmd
}
