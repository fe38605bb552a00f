package model

import "time"

// CategoryScore is the per-category slice of a Result.
type CategoryScore struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Result is the immutable scored outcome of a completed or expired session.
// It is created exactly once, at the terminal transition, and never mutated.
type Result struct {
	SessionID   string `json:"session_id"`
	CandidateID string `json:"candidate_id"`

	TotalQuestions    int     `json:"total_questions"`
	AnsweredQuestions int     `json:"answered_questions"`
	CorrectAnswers    int     `json:"correct_answers"`
	OverallPercentage float64 `json:"overall_percentage"`
	CompletionRate    float64 `json:"completion_rate"`
	Passed            bool    `json:"passed"`

	CategoryBreakdown map[string]CategoryScore `json:"category_breakdown"`

	ElapsedSeconds   int  `json:"elapsed_seconds"`
	TimeLimitSeconds int  `json:"time_limit_seconds"`
	AutoSubmitted    bool `json:"auto_submitted"`

	Configuration AssessmentConfiguration `json:"configuration"`
	StartedAt     time.Time               `json:"started_at"`
	CompletedAt   time.Time               `json:"completed_at"`
}
