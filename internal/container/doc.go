// Package container drives the execution environment: a long-lived
// container provisioned by the operator and identified by its id or name.
//
// Runtime is the narrow collaborator the rest of stowaway depends on. Its
// production implementation, CLI, shells out to a docker-compatible binary
// (docker or podman). Tests use containertest.Runtime, which simulates the
// environment in memory.
//
// Controller wraps a Runtime bound to one environment and is the only type
// that changes container state. It maps runtime failures onto the error
// taxonomy in internal/errors:
//
//	Start, Stop      -> ErrContainerUnavailable
//	Execute          -> *ExecError (ErrExecutionFailed) or ErrContainerUnavailable
//
// # Concurrency
//
// An environment is a shared, stateful resource. Controller does not lock:
// only one job may drive a given environment at a time, and callers that
// dispatch concurrently must serialize on the environment id themselves
// (a lock file or a single-owner scheduler).
package container
