package selector

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusprep/assessd/internal/model"
)

func question(id string, d model.Difficulty, companies ...string) model.Question {
	return model.ChoiceQuestion{
		QuestionMeta: model.QuestionMeta{
			ID:         id,
			Category:   "general",
			Difficulty: d,
			Companies:  companies,
		},
		Prompt:  "prompt",
		Options: []model.ChoiceOption{{ID: "a", Text: "A", Correct: true}},
	}
}

// catalog builds n questions per difficulty.
func catalog(n int) []model.Question {
	var qs []model.Question
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} {
		for i := 0; i < n; i++ {
			qs = append(qs, question(fmt.Sprintf("%s-%d", d, i), d))
		}
	}
	return qs
}

func newDeterministic() *Selector {
	return NewWithRand(rand.New(rand.NewSource(42)))
}

func countByDifficulty(qs []model.Question) map[model.Difficulty]int {
	counts := make(map[model.Difficulty]int)
	for _, q := range qs {
		counts[q.Meta().Difficulty]++
	}
	return counts
}

func TestSelectHonorsDifficultySplit(t *testing.T) {
	sel := newDeterministic()
	cfg := model.AssessmentConfiguration{
		TotalQuestions: 10,
		EasyPercent:    50,
		MediumPercent:  30,
		HardPercent:    20,
	}

	selected := sel.Select(cfg, catalog(10))
	require.Len(t, selected, 10)

	counts := countByDifficulty(selected)
	assert.Equal(t, 5, counts[model.DifficultyEasy])
	assert.Equal(t, 3, counts[model.DifficultyMedium])
	assert.Equal(t, 2, counts[model.DifficultyHard])

	seen := make(map[string]bool)
	for _, q := range selected {
		assert.False(t, seen[q.Meta().ID], "question %s selected twice", q.Meta().ID)
		seen[q.Meta().ID] = true
	}
}

func TestSelectHardAbsorbsRoundingRemainder(t *testing.T) {
	sel := newDeterministic()
	cfg := model.AssessmentConfiguration{
		TotalQuestions: 10,
		EasyPercent:    33,
		MediumPercent:  33,
		HardPercent:    34,
	}

	counts := countByDifficulty(sel.Select(cfg, catalog(10)))
	assert.Equal(t, 3, counts[model.DifficultyEasy])
	assert.Equal(t, 3, counts[model.DifficultyMedium])
	assert.Equal(t, 4, counts[model.DifficultyHard])
}

func TestSelectClampsOverflowingPercentages(t *testing.T) {
	sel := newDeterministic()
	cfg := model.AssessmentConfiguration{
		TotalQuestions: 10,
		EasyPercent:    50,
		MediumPercent:  60,
	}

	selected := sel.Select(cfg, catalog(10))
	require.Len(t, selected, 10)

	counts := countByDifficulty(selected)
	assert.Equal(t, 5, counts[model.DifficultyEasy])
	assert.Equal(t, 5, counts[model.DifficultyMedium])
	assert.Equal(t, 0, counts[model.DifficultyHard])
}

func TestSelectUnderfilledBucketContributesEverything(t *testing.T) {
	sel := newDeterministic()
	cfg := model.AssessmentConfiguration{
		TotalQuestions: 10,
		EasyPercent:    50,
		MediumPercent:  30,
		HardPercent:    20,
	}

	// Only 2 easy questions exist: the easy quota of 5 under-fills, the
	// other buckets keep their quotas.
	qs := []model.Question{
		question("e-0", model.DifficultyEasy),
		question("e-1", model.DifficultyEasy),
	}
	for i := 0; i < 10; i++ {
		qs = append(qs, question(fmt.Sprintf("m-%d", i), model.DifficultyMedium))
		qs = append(qs, question(fmt.Sprintf("h-%d", i), model.DifficultyHard))
	}

	selected := sel.Select(cfg, qs)
	require.Len(t, selected, 7)

	counts := countByDifficulty(selected)
	assert.Equal(t, 2, counts[model.DifficultyEasy])
	assert.Equal(t, 3, counts[model.DifficultyMedium])
	assert.Equal(t, 2, counts[model.DifficultyHard])
}

func TestSelectCompanyFilter(t *testing.T) {
	sel := newDeterministic()
	cfg := model.AssessmentConfiguration{
		TotalQuestions: 4,
		EasyPercent:    100,
		Company:        "Acme",
	}

	qs := []model.Question{
		question("acme-0", model.DifficultyEasy, "Acme"),
		question("acme-1", model.DifficultyEasy, "Acme"),
		question("other-0", model.DifficultyEasy, "Globex"),
		question("other-1", model.DifficultyEasy),
	}

	selected := sel.Select(cfg, qs)
	require.Len(t, selected, 2)
	for _, q := range selected {
		assert.Contains(t, q.Meta().Companies, "Acme")
	}
}

func TestSelectCompanyFallbackWhenNoMatches(t *testing.T) {
	sel := newDeterministic()
	cfg := model.AssessmentConfiguration{
		TotalQuestions: 3,
		EasyPercent:    100,
		Company:        "Initech",
	}

	// No question carries the company tag: the filter falls back to the full
	// catalog instead of returning nothing.
	qs := []model.Question{
		question("e-0", model.DifficultyEasy, "Acme"),
		question("e-1", model.DifficultyEasy),
		question("e-2", model.DifficultyEasy),
	}

	selected := sel.Select(cfg, qs)
	assert.Len(t, selected, 3)
}

func TestSelectEmptyCatalog(t *testing.T) {
	sel := newDeterministic()
	cfg := model.AssessmentConfiguration{TotalQuestions: 5, EasyPercent: 100}
	assert.Empty(t, sel.Select(cfg, nil))
}
