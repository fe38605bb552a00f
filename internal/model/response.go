package model

import "time"

// JudgeVerdict is the external judge's outcome for a coding submission. The
// engine never executes candidate code; it only consumes this verdict.
type JudgeVerdict struct {
	PassedTests int `json:"passed_tests"`
	TotalTests  int `json:"total_tests"`
}

// Answer is the raw payload a candidate submits for one question. Exactly one
// of the variant-specific fields is expected to be populated, matching the
// question kind.
type Answer struct {
	// SelectedOptions holds the chosen option ids for a choice question.
	SelectedOptions []string `json:"selected_options,omitempty"`
	// Code and Judge carry a coding submission and its judge verdict.
	Code  string        `json:"code,omitempty"`
	Judge *JudgeVerdict `json:"judge,omitempty"`
}

// Response records one submitted answer.
type Response struct {
	QuestionID  string        `json:"question_id"`
	Answer      Answer        `json:"answer"`
	SubmittedAt time.Time     `json:"submitted_at"`
	TimeTaken   time.Duration `json:"time_taken_ns,omitempty"`
}
