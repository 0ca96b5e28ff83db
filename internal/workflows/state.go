package workflows

import "slices"

// State is a step of the dispatch workflow. States are reached strictly in
// declaration order; any of them may be followed by StateFailed.
type State string

const (
	StateInit             State = "INIT"
	StateSecretAcquired   State = "SECRET_ACQUIRED"
	StatePathResolved     State = "PATH_RESOLVED"
	StateContainerStarted State = "CONTAINER_STARTED"
	StateInputStaged      State = "INPUT_STAGED"
	StateExecuted         State = "EXECUTED"
	StateManifestRead     State = "MANIFEST_READ"
	StateResultClassified State = "RESULT_CLASSIFIED"
	StateResultRetrieved  State = "RESULT_RETRIEVED"
	StateCleanedUp        State = "CLEANED_UP"
	StateContainerStopped State = "CONTAINER_STOPPED"
	StateFailed           State = "FAILED"
)

// States lists the forward states in order.
var States = []State{
	StateInit,
	StateSecretAcquired,
	StatePathResolved,
	StateContainerStarted,
	StateInputStaged,
	StateExecuted,
	StateManifestRead,
	StateResultClassified,
	StateResultRetrieved,
	StateCleanedUp,
	StateContainerStopped,
}

// AtLeast reports whether s comes no earlier than other in States.
func (s State) AtLeast(other State) bool {
	return slices.Index(States, s) >= slices.Index(States, other)
}

// Describe returns a short progress message for s.
func (s State) Describe() string {
	switch s {
	case StateInit:
		return "Preparing job..."
	case StateSecretAcquired:
		return "Resolving input..."
	case StatePathResolved:
		return "Starting container..."
	case StateContainerStarted:
		return "Staging input..."
	case StateInputStaged:
		return "Running transformation..."
	case StateExecuted:
		return "Reading manifest..."
	case StateManifestRead, StateResultClassified:
		return "Retrieving result..."
	case StateResultRetrieved:
		return "Clearing container..."
	case StateCleanedUp:
		return "Stopping container..."
	case StateContainerStopped:
		return "Done"
	case StateFailed:
		return "Cleaning up after failure..."
	default:
		return string(s)
	}
}
