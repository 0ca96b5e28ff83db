// Package workflows provides high-level orchestration for stowaway commands.
//
// Workflows coordinate the container, transfer, manifest and cleanup
// packages to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Loads configuration and parses flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Validating prerequisites
//   - Driving the execution environment
//   - Guaranteeing cleanup
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Dispatch: sends one file through the environment and retrieves the result
//   - Clean: clears and stops the environment after an interrupted job
//   - Log: reads the job audit trail
//
// # Dispatch States
//
// Dispatch moves through the states declared in state.go in order:
//
//	INIT -> SECRET_ACQUIRED -> PATH_RESOLVED -> CONTAINER_STARTED
//	     -> INPUT_STAGED -> EXECUTED -> MANIFEST_READ -> RESULT_CLASSIFIED
//	     -> RESULT_RETRIEVED -> CLEANED_UP -> CONTAINER_STOPPED
//
// Any state may lead to FAILED. DispatchResult.FailedIn records where.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Dispatch(ctx, opts)
//	if errors.Is(err, kerrors.ErrExecutionFailed) {
//	    // Likely a wrong password
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Cancelling it aborts the forward steps of a job; teardown still runs on a
// detached context.
package workflows
