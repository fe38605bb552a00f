package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildScalesWithExperienceLevel(t *testing.T) {
	tests := []struct {
		level     string
		questions int
		minutes   int
		easy      float64
		medium    float64
		hard      float64
	}{
		{LevelEntry, 15, 60, 50, 40, 10},
		{LevelMid, 20, 90, 30, 50, 20},
		{LevelSenior, 25, 120, 20, 40, 40},
		{LevelExecutive, 20, 90, 30, 50, 20},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Build(Profile{TargetRole: "Backend Engineer", ExperienceLevel: tt.level})
			assert.Equal(t, tt.questions, cfg.TotalQuestions)
			assert.Equal(t, tt.minutes, cfg.TimeLimitMinutes)
			assert.Equal(t, tt.easy, cfg.EasyPercent)
			assert.Equal(t, tt.medium, cfg.MediumPercent)
			assert.Equal(t, tt.hard, cfg.HardPercent)
			assert.Equal(t, tt.level, cfg.ExperienceLevel)
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	cfg := Build(Profile{TargetRole: "Data Engineer"})

	// Unknown or missing experience level falls back to mid.
	assert.Equal(t, LevelMid, cfg.ExperienceLevel)
	assert.Equal(t, 20, cfg.TotalQuestions)
	assert.Equal(t, 90, cfg.TimeLimitMinutes)
	assert.Equal(t, DefaultPassingScore, cfg.PassingScore)
	assert.Equal(t, "Data Engineer Assessment", cfg.Name)
}

func TestBuildWithCompanyAndPassingScore(t *testing.T) {
	cfg := Build(Profile{
		TargetRole:      "SRE",
		ExperienceLevel: LevelSenior,
		Company:         "Acme",
		PassingScore:    85,
	})

	assert.Equal(t, "SRE Assessment - Acme", cfg.Name)
	assert.Equal(t, "Acme", cfg.Company)
	assert.Equal(t, 85.0, cfg.PassingScore)
}

func TestHasProgrammingFocus(t *testing.T) {
	assert.True(t, HasProgrammingFocus([]string{"SQL", "Python"}))
	assert.True(t, HasProgrammingFocus([]string{"GO"}))
	assert.False(t, HasProgrammingFocus([]string{"SQL", "Excel"}))
	assert.False(t, HasProgrammingFocus(nil))
}
