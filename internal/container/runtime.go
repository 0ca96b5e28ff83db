package container

import "context"

// ExecResult is the outcome of a command that ran inside the environment.
type ExecResult struct {
	ExitCode int
	Output   []byte
}

// Runtime performs primitive operations against an execution environment.
// A non-zero exit status from Exec is reported in ExecResult, not as an
// error; errors mean the runtime could not carry out the operation at all.
type Runtime interface {
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Exec(ctx context.Context, id string, argv []string) (ExecResult, error)
	CopyIn(ctx context.Context, id, hostPath, containerPath string) error
	CopyOut(ctx context.Context, id, containerPath, hostPath string) error
}
