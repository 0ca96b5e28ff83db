package errors

import (
	"errors"
	"fmt"
)

// Invocation errors are raised before any container interaction.
var (
	// ErrMissingPath indicates no input path argument was given.
	ErrMissingPath = errors.New("no path given")

	// ErrPathNotFound indicates the input path does not resolve to an existing file.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrNoSecret indicates no secret was supplied and the prompt yielded none.
	ErrNoSecret = errors.New("no secret provided")

	// ErrStrayManifest indicates a manifest copy from an earlier run is still in the working directory.
	ErrStrayManifest = errors.New("manifest file already exists in working directory")

	// ErrInvalidConfig indicates the configuration is missing or has malformed fields.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrInvalidDateFormat indicates a log filter date is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Environment errors indicate failures talking to or inside the execution environment.
var (
	// ErrContainerUnavailable indicates the environment could not be reached, started or stopped.
	ErrContainerUnavailable = errors.New("container is unavailable")

	// ErrTransferFailed indicates a file could not be copied into or out of the environment.
	ErrTransferFailed = errors.New("file transfer failed")

	// ErrExecutionFailed indicates the transformation binary exited with a non-zero status.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrCleanupFailed indicates the staging area could not be returned to an empty state.
	ErrCleanupFailed = errors.New("cleanup failed")
)

// Result errors indicate the environment produced something unusable.
var (
	// ErrMalformedManifest indicates the manifest does not name a result file.
	ErrMalformedManifest = errors.New("manifest is malformed")
)

// ExecError carries the exit status of a command run inside the environment.
// It matches ErrExecutionFailed with errors.Is.
type ExecError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %s exited with status %d", ErrExecutionFailed, e.Command, e.ExitCode)
}

func (e *ExecError) Unwrap() error {
	return ErrExecutionFailed
}
