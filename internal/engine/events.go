package engine

import (
	"time"

	"github.com/nexusprep/assessd/internal/model"
)

// EventKind enumerates the five session event kinds delivered to listeners.
type EventKind string

const (
	EventTimeWarning EventKind = "time_warning"
	EventAutoSubmit  EventKind = "auto_submit"
	EventPaused      EventKind = "paused"
	EventResumed     EventKind = "resumed"
	EventCompleted   EventKind = "completed"
)

// Event is one session lifecycle notification. Which payload fields are set
// depends on Kind: time_warning carries remaining+threshold, paused carries
// elapsed, resumed carries remaining, completed and auto_submit carry the
// Result.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`

	RemainingSeconds int           `json:"remaining_seconds,omitempty"`
	ThresholdSeconds int           `json:"threshold_seconds,omitempty"`
	ElapsedSeconds   int           `json:"elapsed_seconds,omitempty"`
	Result           *model.Result `json:"result,omitempty"`
}

// Listener receives a session's events. It is registered once, at session
// creation. Implementations may block briefly but must not assume they are
// called from any particular goroutine; a panicking listener is recovered
// and logged without affecting the session or other sessions.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

func (f ListenerFunc) HandleEvent(e Event) { f(e) }
