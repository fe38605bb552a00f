package engine

import "errors"

// Sentinel errors for session operations. All of them are recoverable from
// the caller's point of view; none is fatal to the process.
var (
	// ErrSessionNotFound means the id is unknown — the session never existed
	// or was already completed/expired and evicted.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionInactive means the operation is invalid in the session's
	// current state, e.g. answering while paused.
	ErrSessionInactive = errors.New("session is not active")

	// ErrTimeExpired means the submission raced with the monitor's expiry
	// pass; the caller should treat the session as already completed and
	// observe the auto-submit event instead.
	ErrTimeExpired = errors.New("session time has expired")

	// ErrNoCurrentQuestion means the question cursor is already past the end
	// of the list.
	ErrNoCurrentQuestion = errors.New("no current question")
)
