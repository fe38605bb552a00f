package engine

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/model"
)

// State enumerates the session lifecycle states. COMPLETED and EXPIRED are
// terminal; a session reaches exactly one of them, exactly once.
type State string

const (
	StateActive    State = "ACTIVE"
	StatePaused    State = "PAUSED"
	StateCompleted State = "COMPLETED"
	StateExpired   State = "EXPIRED"
)

// Terminal reports whether s is a terminal state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateExpired
}

// warningThresholds are the remaining-time marks at which a time_warning
// fires, each at most once per session.
var warningThresholds = []time.Duration{
	5 * time.Minute,
	2 * time.Minute,
	1 * time.Minute,
	30 * time.Second,
}

// Session is one candidate's attempt at an assessment. All mutable fields
// are guarded by mu; time is always read through clk so tests can drive it.
//
// Elapsed-time accounting: pausedBase accumulates the elapsed time as of the
// last pause, and resumedAt marks the wall clock of the last (re)activation.
// While ACTIVE, elapsed = now - resumedAt + pausedBase; in any other state
// elapsed is frozen at pausedBase. Resuming only resets resumedAt, so the
// time spent paused never counts.
type Session struct {
	mu sync.Mutex

	id          string
	candidateID string
	cfg         model.AssessmentConfiguration
	questions   []model.Question

	createdAt   time.Time
	resumedAt   time.Time
	pausedBase  time.Duration
	lastTouched time.Time

	state     State
	cursor    int
	responses map[string]model.Response
	warned    map[time.Duration]bool

	listener Listener
	clk      clock.Clock
	log      zerolog.Logger
}

// SessionStatus is a read-only snapshot of a session, safe to hand out to
// any goroutine.
type SessionStatus struct {
	SessionID          string  `json:"session_id"`
	CandidateID        string  `json:"candidate_id"`
	State              State   `json:"state"`
	CurrentQuestion    int     `json:"current_question"`
	TotalQuestions     int     `json:"total_questions"`
	AnsweredQuestions  int     `json:"answered_questions"`
	ElapsedSeconds     int     `json:"elapsed_seconds"`
	RemainingSeconds   int     `json:"remaining_seconds"`
	ProgressPercentage float64 `json:"progress_percentage"`
	TimeLimitMinutes   int     `json:"time_limit_minutes"`
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Status returns a consistent snapshot of the session.
func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() SessionStatus {
	return SessionStatus{
		SessionID:          s.id,
		CandidateID:        s.candidateID,
		State:              s.state,
		CurrentQuestion:    s.cursor,
		TotalQuestions:     len(s.questions),
		AnsweredQuestions:  len(s.responses),
		ElapsedSeconds:     int(s.elapsedLocked().Seconds()),
		RemainingSeconds:   int(s.remainingLocked().Seconds()),
		ProgressPercentage: s.progressLocked(),
		TimeLimitMinutes:   s.cfg.TimeLimitMinutes,
	}
}

// elapsedLocked only advances while the session is ACTIVE.
func (s *Session) elapsedLocked() time.Duration {
	if s.state != StateActive {
		return s.pausedBase
	}
	return s.clk.Now().Sub(s.resumedAt) + s.pausedBase
}

// remainingLocked is max(0, limit - elapsed).
func (s *Session) remainingLocked() time.Duration {
	remaining := s.cfg.TimeLimit() - s.elapsedLocked()
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Session) progressLocked() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(len(s.responses)) / float64(len(s.questions)) * 100
}

func (s *Session) touchLocked() {
	s.lastTouched = s.clk.Now()
}

// dueTransitions collects the warning events a monitor tick should fire and
// reports whether the session has run out of time. Paused and terminal
// sessions never produce transitions — pausing freezes the clock, so no
// state change is possible until resume.
func (s *Session) dueTransitions() (warnings []Event, expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, false
	}

	remaining := s.remainingLocked()
	now := s.clk.Now()
	for _, threshold := range warningThresholds {
		if remaining <= threshold && !s.warned[threshold] {
			s.warned[threshold] = true
			warnings = append(warnings, Event{
				Kind:             EventTimeWarning,
				SessionID:        s.id,
				At:               now,
				RemainingSeconds: int(remaining.Seconds()),
				ThresholdSeconds: int(threshold.Seconds()),
			})
		}
	}

	return warnings, remaining <= 0
}

// emit delivers an event to the session's listener, isolating panics so a
// broken callback can never take down the monitor or another session.
// Callers must not hold s.mu.
func (s *Session) emit(e Event) {
	if s.listener == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("session_id", s.id).
				Str("event", string(e.Kind)).
				Interface("panic", r).
				Msg("session listener panicked")
		}
	}()
	s.listener.HandleEvent(e)
}
