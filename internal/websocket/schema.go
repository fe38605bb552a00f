package websocket

import (
	"time"

	"github.com/nexusprep/assessd/internal/engine"
	"github.com/nexusprep/assessd/internal/model"
)

// Frame is the wire format for session event messages pushed to clients.
type Frame struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id"`
	At        time.Time     `json:"at"`
	Payload   interface{}   `json:"payload,omitempty"`
	Result    *model.Result `json:"result,omitempty"`
}

// WarningPayload carries countdown details for time_warning frames.
type WarningPayload struct {
	RemainingSeconds int `json:"remaining_seconds"`
	ThresholdSeconds int `json:"threshold_seconds"`
}

// PausePayload carries elapsed time for paused frames.
type PausePayload struct {
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// ResumePayload carries remaining time for resumed frames.
type ResumePayload struct {
	RemainingSeconds int `json:"remaining_seconds"`
}

// frameFromEvent converts an engine event into its wire representation.
func frameFromEvent(ev engine.Event) Frame {
	f := Frame{
		Type:      string(ev.Kind),
		SessionID: ev.SessionID,
		At:        ev.At,
	}

	switch ev.Kind {
	case engine.EventTimeWarning:
		f.Payload = WarningPayload{
			RemainingSeconds: ev.RemainingSeconds,
			ThresholdSeconds: ev.ThresholdSeconds,
		}
	case engine.EventPaused:
		f.Payload = PausePayload{ElapsedSeconds: ev.ElapsedSeconds}
	case engine.EventResumed:
		f.Payload = ResumePayload{RemainingSeconds: ev.RemainingSeconds}
	case engine.EventCompleted, engine.EventAutoSubmit:
		f.Result = ev.Result
	}

	return f
}
