// Package builder translates external candidate inputs (target role,
// experience level, company profile) into a concrete assessment
// configuration. Only the output shape matters to the engine; the heuristics
// here mirror what the recruiting side expects per experience level.
package builder

import (
	"fmt"
	"strings"

	"github.com/nexusprep/assessd/internal/model"
)

// Experience levels recognized by Build. Unknown levels fall back to mid.
const (
	LevelEntry     = "Entry Level"
	LevelMid       = "Mid Level"
	LevelSenior    = "Senior Level"
	LevelExecutive = "Executive Level"
)

// DefaultPassingScore is applied when the profile does not override it.
const DefaultPassingScore = 70.0

// Profile captures the external inputs an assessment is built from.
type Profile struct {
	TargetRole      string   `json:"target_role" binding:"required"`
	ExperienceLevel string   `json:"experience_level"`
	Company         string   `json:"company,omitempty"`
	RequiredSkills  []string `json:"required_skills,omitempty"`
	PassingScore    float64  `json:"passing_score,omitempty"`
}

// Build produces the assessment configuration for a candidate profile.
// Question count and time limit scale with experience level; the difficulty
// split shifts toward hard questions for senior candidates.
func Build(p Profile) model.AssessmentConfiguration {
	level := p.ExperienceLevel
	if level == "" {
		level = LevelMid
	}

	cfg := model.AssessmentConfiguration{
		Name:             assessmentName(p),
		TotalQuestions:   totalQuestions(level),
		TimeLimitMinutes: timeLimitMinutes(level),
		Company:          p.Company,
		TargetRole:       p.TargetRole,
		ExperienceLevel:  level,
		PassingScore:     p.PassingScore,
	}
	if cfg.PassingScore == 0 {
		cfg.PassingScore = DefaultPassingScore
	}

	cfg.EasyPercent, cfg.MediumPercent, cfg.HardPercent = difficultySplit(level)

	return cfg
}

func assessmentName(p Profile) string {
	if p.Company != "" {
		return fmt.Sprintf("%s Assessment - %s", p.TargetRole, p.Company)
	}
	return fmt.Sprintf("%s Assessment", p.TargetRole)
}

func totalQuestions(level string) int {
	switch level {
	case LevelEntry:
		return 15
	case LevelSenior:
		return 25
	case LevelExecutive:
		return 20
	default:
		return 20
	}
}

func timeLimitMinutes(level string) int {
	switch level {
	case LevelEntry:
		return 60
	case LevelSenior:
		return 120
	case LevelExecutive:
		return 90
	default:
		return 90
	}
}

func difficultySplit(level string) (easy, medium, hard float64) {
	switch level {
	case LevelEntry:
		return 50, 40, 10
	case LevelSenior:
		return 20, 40, 40
	default:
		return 30, 50, 20
	}
}

// HasProgrammingFocus reports whether the profile's required skills suggest a
// programming-heavy screen, used by callers mixing coding and choice content.
func HasProgrammingFocus(skills []string) bool {
	for _, skill := range skills {
		switch strings.ToLower(skill) {
		case "python", "java", "c++", "javascript", "go", "rust":
			return true
		}
	}
	return false
}
