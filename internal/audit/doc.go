// Package audit records a trail of stowaway jobs.
//
// Every dispatch and clean appends one entry to a per-user log, so an
// operator can tell which files went through the environment, what came
// back, and where a failed job stopped.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	$XDG_DATA_HOME/stowaway/audit.jsonl
//
// Each entry contains:
//   - Timestamp (microseconds, UTC) and job id
//   - Operation name
//   - Input path, artifact name and kind, destination
//   - blake2b-256 digest of the retrieved artifact
//   - Last state reached and the error text of a failed job
//
// The secret is never recorded.
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails the job continues without
// error.
package audit
