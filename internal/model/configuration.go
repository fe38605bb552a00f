package model

import "time"

// AssessmentConfiguration defines the parameters of one assessment: how many
// questions, the wall-clock limit and the difficulty mix. It is treated as
// immutable once a session has been created from it (the engine stores it by
// value and only ever echoes it back in the Result).
type AssessmentConfiguration struct {
	Name             string  `json:"name,omitempty"`
	TotalQuestions   int     `json:"total_questions" binding:"required,min=1"`
	TimeLimitMinutes int     `json:"time_limit_minutes" binding:"required,min=1"`
	EasyPercent      float64 `json:"easy_percent"`
	MediumPercent    float64 `json:"medium_percent"`
	HardPercent      float64 `json:"hard_percent"`
	Company          string  `json:"company,omitempty"`
	TargetRole       string  `json:"target_role,omitempty"`
	ExperienceLevel  string  `json:"experience_level,omitempty"`
	PassingScore     float64 `json:"passing_score"`
}

// TimeLimit returns the configured limit as a duration.
func (c AssessmentConfiguration) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMinutes) * time.Minute
}
