// Package errors provides typed error values for stowaway.
//
// Using sentinel errors allows callers to handle specific failure categories
// programmatically with errors.Is() rather than string matching. The CLI
// layer maps each category to exactly one user-facing message.
//
// # Error Categories
//
// Errors are grouped by where they occur:
//
//   - Invocation errors: raised before the container is touched
//     (ErrMissingPath, ErrPathNotFound, ErrNoSecret, ErrStrayManifest,
//     ErrInvalidConfig, ErrInvalidDateFormat)
//   - Environment errors: container lifecycle, transfers and cleanup
//     (ErrContainerUnavailable, ErrTransferFailed, ErrExecutionFailed, ErrCleanupFailed)
//   - Result errors: the produced manifest is unusable (ErrMalformedManifest)
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("copying %s into %s: %w", hostPath, dir, errors.ErrTransferFailed)
//
// Inspect exit statuses of remote commands:
//
//	var execErr *errors.ExecError
//	if stderrors.As(err, &execErr) {
//	    fmt.Println(execErr.ExitCode)
//	}
package errors
