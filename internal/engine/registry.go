package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/evaluator"
	"github.com/nexusprep/assessd/internal/model"
)

// completionReason distinguishes a manual submission from a time-driven one.
type completionReason int

const (
	completionManual completionReason = iota
	completionAuto
)

// AdvanceResult is returned by SubmitAnswer. When the submitted answer was
// the last one, Completed is true and Result carries the final outcome.
type AdvanceResult struct {
	Completed          bool          `json:"completed"`
	CurrentQuestion    int           `json:"current_question"`
	ProgressPercentage float64       `json:"progress_percentage"`
	RemainingSeconds   int           `json:"remaining_seconds"`
	Result             *model.Result `json:"result,omitempty"`
}

// Registry owns every in-flight session for its lifetime. The map itself is
// guarded by mu; each session carries its own lock for field updates, so a
// slow operation on one session never blocks status reads on another.
// Ownership of a session transfers to the archiver at the terminal
// transition, after which the registry reference is dropped.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	clk      clock.Clock
	archiver Archiver
	log      zerolog.Logger

	archiveFailures atomic.Int64
}

// NewRegistry creates an empty session registry. The archiver may be nil, in
// which case terminal sessions are evicted without persistence (useful in
// tests and dry runs).
func NewRegistry(archiver Archiver, clk clock.Clock, log zerolog.Logger) *Registry {
	if clk == nil {
		clk = clock.New()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		clk:      clk,
		archiver: archiver,
		log:      log.With().Str("component", "session_registry").Logger(),
	}
}

// Create constructs a new ACTIVE session and inserts it into the registry.
// The returned id is unique across the process lifetime. The configuration
// is captured by value and immutable from here on; the listener may be nil.
func (r *Registry) Create(candidateID string, cfg model.AssessmentConfiguration, questions []model.Question, listener Listener) (string, error) {
	if candidateID == "" {
		return "", errors.New("candidate id is required")
	}
	if cfg.TimeLimitMinutes <= 0 {
		return "", errors.New("time limit must be positive")
	}

	now := r.clk.Now()
	id := fmt.Sprintf("%s-%d-%s", candidateID, now.Unix(), uuid.NewString()[:8])

	s := &Session{
		id:          id,
		candidateID: candidateID,
		cfg:         cfg,
		questions:   questions,
		createdAt:   now,
		resumedAt:   now,
		lastTouched: now,
		state:       StateActive,
		responses:   make(map[string]model.Response),
		warned:      make(map[time.Duration]bool),
		listener:    listener,
		clk:         r.clk,
		log:         r.log,
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.Info().
		Str("session_id", id).
		Str("candidate_id", candidateID).
		Int("questions", len(questions)).
		Int("time_limit_min", cfg.TimeLimitMinutes).
		Msg("session created")

	return id, nil
}

// Status returns a read-only snapshot. Safe to call from any goroutine.
func (r *Registry) Status(sessionID string) (SessionStatus, error) {
	s := r.get(sessionID)
	if s == nil {
		return SessionStatus{}, ErrSessionNotFound
	}
	return s.Status(), nil
}

// CurrentQuestion returns the question at the cursor together with its
// zero-based index.
func (r *Registry) CurrentQuestion(sessionID string) (model.Question, int, error) {
	s := r.get(sessionID)
	if s == nil {
		return nil, 0, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, s.cursor, ErrSessionInactive
	}
	if s.cursor >= len(s.questions) {
		return nil, s.cursor, ErrNoCurrentQuestion
	}
	return s.questions[s.cursor], s.cursor, nil
}

// SubmitAnswer records the candidate's answer for questionID and advances
// the question cursor. Submitting the final answer completes the session
// through the same path as Submit. Racing writers cannot advance the cursor
// past the end of the list; the last writer to a question id wins.
func (r *Registry) SubmitAnswer(sessionID, questionID string, answer model.Answer, timeTaken time.Duration) (*AdvanceResult, error) {
	s := r.get(sessionID)
	if s == nil {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return nil, ErrSessionInactive
	}
	if s.remainingLocked() <= 0 {
		// The monitor will auto-submit on its next tick; the caller should
		// observe that event rather than retry.
		s.mu.Unlock()
		return nil, ErrTimeExpired
	}

	s.responses[questionID] = model.Response{
		QuestionID:  questionID,
		Answer:      answer,
		SubmittedAt: r.clk.Now(),
		TimeTaken:   timeTaken,
	}
	if s.cursor < len(s.questions) {
		s.cursor++
	}
	done := s.cursor >= len(s.questions)
	s.touchLocked()

	adv := &AdvanceResult{
		CurrentQuestion:    s.cursor,
		ProgressPercentage: s.progressLocked(),
		RemainingSeconds:   int(s.remainingLocked().Seconds()),
	}
	s.mu.Unlock()

	if done {
		result, err := r.finalize(s, completionManual)
		if err != nil {
			// Lost the race against the monitor's expiry pass; the session
			// is terminal either way.
			return nil, ErrTimeExpired
		}
		adv.Completed = true
		adv.Result = result
	}

	return adv, nil
}

// Pause freezes the session clock. Valid only from ACTIVE; returns false if
// the session is absent or in any other state.
func (r *Registry) Pause(sessionID string) bool {
	s := r.get(sessionID)
	if s == nil {
		return false
	}

	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return false
	}
	s.pausedBase = s.elapsedLocked()
	s.state = StatePaused
	s.touchLocked()
	elapsed := s.pausedBase
	now := r.clk.Now()
	s.mu.Unlock()

	s.emit(Event{
		Kind:           EventPaused,
		SessionID:      s.id,
		At:             now,
		ElapsedSeconds: int(elapsed.Seconds()),
	})
	return true
}

// Resume reactivates a paused session. The wall-clock reference resets to
// now, so the elapsed time accumulated before the pause is preserved
// exactly. Valid only from PAUSED.
func (r *Registry) Resume(sessionID string) bool {
	s := r.get(sessionID)
	if s == nil {
		return false
	}

	s.mu.Lock()
	if s.state != StatePaused {
		s.mu.Unlock()
		return false
	}
	now := r.clk.Now()
	s.resumedAt = now
	s.state = StateActive
	s.touchLocked()
	remaining := s.remainingLocked()
	s.mu.Unlock()

	s.emit(Event{
		Kind:             EventResumed,
		SessionID:        s.id,
		At:               now,
		RemainingSeconds: int(remaining.Seconds()),
	})
	return true
}

// Submit completes the session immediately, scoring whatever responses have
// been collected (unanswered questions count as incorrect). Valid from
// ACTIVE or PAUSED.
func (r *Registry) Submit(sessionID string) (*model.Result, error) {
	s := r.get(sessionID)
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return r.finalize(s, completionManual)
}

// ActiveSessions snapshots every registered session's status.
func (r *Registry) ActiveSessions() []SessionStatus {
	statuses := make([]SessionStatus, 0, len(r.snapshot()))
	for _, s := range r.snapshot() {
		statuses = append(statuses, s.Status())
	}
	return statuses
}

// CleanupStale force-expires sessions untouched for longer than maxAge —
// typically sessions paused and abandoned. They go through the auto-submit
// completion path and are archived like any expiry. Returns the number of
// sessions cleaned up.
func (r *Registry) CleanupStale(maxAge time.Duration) int {
	cleaned := 0
	for _, s := range r.snapshot() {
		s.mu.Lock()
		stale := !s.state.Terminal() && r.clk.Now().Sub(s.lastTouched) > maxAge
		s.mu.Unlock()

		if !stale {
			continue
		}
		if _, err := r.finalize(s, completionAuto); err == nil {
			cleaned++
			r.log.Warn().
				Str("session_id", s.id).
				Dur("max_age", maxAge).
				Msg("stale session force-expired")
		}
	}
	return cleaned
}

// ArchiveFailures returns the number of archive writes that failed since
// startup. Operators should alert on growth: each failure means a Result
// was evicted without durable persistence.
func (r *Registry) ArchiveFailures() int64 {
	return r.archiveFailures.Load()
}

// finalize drives the single terminal transition: score, emit, evict,
// archive. The state check under the session lock guarantees exactly one
// caller wins when a manual submit races the monitor's expiry pass. The
// archive write happens after all locks are released so persistence latency
// can never stall a monitor tick.
func (r *Registry) finalize(s *Session, reason completionReason) (*model.Result, error) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil, ErrSessionInactive
	}

	now := r.clk.Now()
	s.pausedBase = s.elapsedLocked() // freeze the clock
	if reason == completionManual {
		s.state = StateCompleted
	} else {
		s.state = StateExpired
	}

	responses := make(map[string]model.Response, len(s.responses))
	for id, resp := range s.responses {
		responses[id] = resp
	}
	sheet := evaluator.Sheet{
		SessionID:     s.id,
		CandidateID:   s.candidateID,
		Configuration: s.cfg,
		Questions:     s.questions,
		Responses:     responses,
		StartedAt:     s.createdAt,
		CompletedAt:   now,
		Elapsed:       s.pausedBase,
		AutoSubmitted: reason == completionAuto,
	}
	finalState := s.state
	s.mu.Unlock()

	result := evaluator.Score(sheet)

	kind := EventCompleted
	if reason == completionAuto {
		kind = EventAutoSubmit
	}
	s.emit(Event{Kind: kind, SessionID: s.id, At: now, Result: &result})

	r.mu.Lock()
	delete(r.sessions, s.id)
	r.mu.Unlock()

	r.log.Info().
		Str("session_id", s.id).
		Str("state", string(finalState)).
		Float64("overall_pct", result.OverallPercentage).
		Msg("session finished")

	r.archive(&ArchiveRecord{
		SessionID:   s.id,
		CandidateID: s.candidateID,
		State:       finalState,
		QuestionIDs: questionIDs(sheet.Questions),
		Responses:   responses,
		Result:      result,
		ArchivedAt:  now,
	})

	return &result, nil
}

// archive persists the record. Failures are logged and counted but never
// propagate: the session has already been evicted so it cannot wedge the
// registry, at the cost of possibly losing the Result.
func (r *Registry) archive(rec *ArchiveRecord) {
	if r.archiver == nil {
		return
	}
	if err := r.archiver.Archive(context.Background(), rec); err != nil {
		r.archiveFailures.Add(1)
		r.log.Error().
			Err(err).
			Str("session_id", rec.SessionID).
			Msg("archive failed; result may be lost")
	}
}

func (r *Registry) get(sessionID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[sessionID]
}

// snapshot copies the current session set so iteration happens without
// holding the map lock.
func (r *Registry) snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func questionIDs(questions []model.Question) []string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.Meta().ID
	}
	return ids
}
