package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/bank"
	"github.com/nexusprep/assessd/internal/builder"
	"github.com/nexusprep/assessd/internal/engine"
	"github.com/nexusprep/assessd/internal/model"
	"github.com/nexusprep/assessd/internal/response"
	"github.com/nexusprep/assessd/internal/selector"
	"github.com/nexusprep/assessd/internal/validator"
)

// SessionHandler exposes the assessment session lifecycle over HTTP.
type SessionHandler struct {
	registry *engine.Registry
	bank     *bank.Bank
	selector *selector.Selector
	listener engine.Listener
	log      zerolog.Logger
}

// NewSessionHandler wires the handler. The listener (usually the websocket
// hub) is attached to every session created through this handler; it may be
// nil.
func NewSessionHandler(registry *engine.Registry, b *bank.Bank, sel *selector.Selector, listener engine.Listener, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		bank:     b,
		selector: sel,
		listener: listener,
		log:      log.With().Str("component", "session_handler").Logger(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Request / response payloads
// ─────────────────────────────────────────────────────────────────────────────

// createSessionRequest starts a session either from an explicit configuration
// or from a candidate profile that the builder turns into one.
type createSessionRequest struct {
	CandidateID   string                         `json:"candidate_id" binding:"required"`
	Configuration *model.AssessmentConfiguration `json:"configuration,omitempty"`
	Profile       *builder.Profile               `json:"profile,omitempty"`
}

type submitAnswerRequest struct {
	QuestionID       string       `json:"question_id" binding:"required"`
	Answer           model.Answer `json:"answer"`
	TimeTakenSeconds int          `json:"time_taken_seconds,omitempty"`
}

type createSessionResponse struct {
	Session       engine.SessionStatus          `json:"session"`
	Configuration model.AssessmentConfiguration `json:"configuration"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Candidate-facing question view
// ─────────────────────────────────────────────────────────────────────────────

// questionView is the sanitized question shape served to candidates: no
// correct flags, no option or answer explanations, no hidden test cases, no
// solution notes.
type questionView struct {
	ID         string           `json:"id"`
	Kind       model.QuestionKind `json:"kind"`
	Index      int              `json:"index"`
	Category   string           `json:"category"`
	Difficulty model.Difficulty `json:"difficulty"`

	// Coding fields.
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	TestCases   []testCaseView `json:"test_cases,omitempty"`
	Hints       []string       `json:"hints,omitempty"`

	// Choice fields.
	Prompt  string       `json:"prompt,omitempty"`
	Options []optionView `json:"options,omitempty"`
}

type testCaseView struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Explanation    string `json:"explanation,omitempty"`
}

type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func sanitizeQuestion(q model.Question, index int) questionView {
	meta := q.Meta()
	view := questionView{
		ID:         meta.ID,
		Kind:       q.Kind(),
		Index:      index,
		Category:   meta.Category,
		Difficulty: meta.Difficulty,
	}

	switch v := q.(type) {
	case model.CodingQuestion:
		view.Title = v.Title
		view.Description = v.Description
		view.Hints = v.Hints
		for _, tc := range v.TestCases {
			if tc.Hidden {
				continue
			}
			view.TestCases = append(view.TestCases, testCaseView{
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				Explanation:    tc.Explanation,
			})
		}
	case model.ChoiceQuestion:
		view.Prompt = v.Prompt
		for _, opt := range v.Options {
			view.Options = append(view.Options, optionView{ID: opt.ID, Text: opt.Text})
		}
	}

	return view
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

// Create handles POST /api/v1/sessions.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var cfg model.AssessmentConfiguration
	switch {
	case req.Configuration != nil:
		cfg = *req.Configuration
	case req.Profile != nil:
		cfg = builder.Build(*req.Profile)
	default:
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"configuration": "either configuration or profile is required",
		})
		return
	}

	if cfg.TotalQuestions <= 0 || cfg.TimeLimitMinutes <= 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"configuration": "total_questions and time_limit_minutes must be positive",
		})
		return
	}

	questions := h.selector.Select(cfg, h.bank.All())
	if len(questions) == 0 {
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
		return
	}

	id, err := h.registry.Create(req.CandidateID, cfg, questions, h.listener)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create session")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	status, err := h.registry.Status(id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, createSessionResponse{
		Session:       status,
		Configuration: cfg,
	})
}

// List handles GET /api/v1/sessions.
func (h *SessionHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"sessions": h.registry.ActiveSessions(),
	})
}

// Status handles GET /api/v1/sessions/:id.
func (h *SessionHandler) Status(c *gin.Context) {
	status, err := h.registry.Status(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, status)
}

// CurrentQuestion handles GET /api/v1/sessions/:id/question.
func (h *SessionHandler) CurrentQuestion(c *gin.Context) {
	q, index, err := h.registry.CurrentQuestion(c.Param("id"))
	if err != nil {
		h.failFromEngine(c, err)
		return
	}
	response.Success(c, http.StatusOK, sanitizeQuestion(q, index))
}

// SubmitAnswer handles POST /api/v1/sessions/:id/answers.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	adv, err := h.registry.SubmitAnswer(
		c.Param("id"),
		req.QuestionID,
		req.Answer,
		time.Duration(req.TimeTakenSeconds)*time.Second,
	)
	if err != nil {
		h.failFromEngine(c, err)
		return
	}
	response.Success(c, http.StatusOK, adv)
}

// Pause handles POST /api/v1/sessions/:id/pause.
func (h *SessionHandler) Pause(c *gin.Context) {
	id := c.Param("id")
	if h.registry.Pause(id) {
		status, _ := h.registry.Status(id)
		response.Success(c, http.StatusOK, status)
		return
	}

	// Distinguish an unknown session from an invalid state transition.
	if _, err := h.registry.Status(id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Fail(c, http.StatusConflict, response.ErrSessionInactive)
}

// Resume handles POST /api/v1/sessions/:id/resume.
func (h *SessionHandler) Resume(c *gin.Context) {
	id := c.Param("id")
	if h.registry.Resume(id) {
		status, _ := h.registry.Status(id)
		response.Success(c, http.StatusOK, status)
		return
	}

	if _, err := h.registry.Status(id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Fail(c, http.StatusConflict, response.ErrSessionInactive)
}

// Submit handles POST /api/v1/sessions/:id/submit.
func (h *SessionHandler) Submit(c *gin.Context) {
	result, err := h.registry.Submit(c.Param("id"))
	if err != nil {
		h.failFromEngine(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// failFromEngine maps engine sentinel errors onto API error codes.
func (h *SessionHandler) failFromEngine(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, engine.ErrSessionInactive):
		response.Fail(c, http.StatusConflict, response.ErrSessionInactive)
	case errors.Is(err, engine.ErrTimeExpired):
		response.Fail(c, http.StatusConflict, response.ErrTimeExpired)
	case errors.Is(err, engine.ErrNoCurrentQuestion):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		h.log.Error().Err(err).Msg("Unexpected engine error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
