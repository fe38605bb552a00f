// Package selector builds the ordered question list for a configuration:
// difficulty quotas, optional company filtering and a final shuffle.
package selector

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/nexusprep/assessd/internal/model"
)

// Selector samples questions from a catalog according to a configuration.
type Selector struct {
	rng *rand.Rand
}

// New creates a Selector seeded from the current time.
func New() *Selector {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a Selector with an explicit source, used by tests for
// deterministic selection.
func NewWithRand(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select returns the shuffled question list for cfg.
//
// Per-difficulty targets are cfg.TotalQuestions split by the configured
// percentages; easy and medium round to nearest and hard absorbs the
// remainder so the three targets sum exactly to the total. A bucket with
// fewer questions than its target contributes everything it has — under-fill
// is allowed, never an error. If a company filter matches nothing the
// unfiltered catalog is used instead.
func (s *Selector) Select(cfg model.AssessmentConfiguration, catalog []model.Question) []model.Question {
	pool := catalog
	if cfg.Company != "" {
		if filtered := filterByCompany(catalog, cfg.Company); len(filtered) > 0 {
			pool = filtered
		}
	}

	easyCount := int(math.Round(float64(cfg.TotalQuestions) * cfg.EasyPercent / 100))
	mediumCount := int(math.Round(float64(cfg.TotalQuestions) * cfg.MediumPercent / 100))
	hardCount := cfg.TotalQuestions - easyCount - mediumCount
	if hardCount < 0 {
		// Rounding pushed easy+medium past the total; shrink medium so the
		// three counts still sum exactly to TotalQuestions.
		mediumCount += hardCount
		hardCount = 0
		if mediumCount < 0 {
			easyCount += mediumCount
			mediumCount = 0
		}
	}

	selected := make([]model.Question, 0, cfg.TotalQuestions)
	selected = append(selected, s.sample(filterByDifficulty(pool, model.DifficultyEasy), easyCount)...)
	selected = append(selected, s.sample(filterByDifficulty(pool, model.DifficultyMedium), mediumCount)...)
	selected = append(selected, s.sample(filterByDifficulty(pool, model.DifficultyHard), hardCount)...)

	s.rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	return selected
}

// sample picks up to n questions from bucket without replacement.
func (s *Selector) sample(bucket []model.Question, n int) []model.Question {
	if n <= 0 || len(bucket) == 0 {
		return nil
	}
	if n >= len(bucket) {
		return slices.Clone(bucket)
	}

	shuffled := slices.Clone(bucket)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

func filterByDifficulty(qs []model.Question, d model.Difficulty) []model.Question {
	var out []model.Question
	for _, q := range qs {
		if q.Meta().Difficulty == d {
			out = append(out, q)
		}
	}
	return out
}

func filterByCompany(qs []model.Question, company string) []model.Question {
	var out []model.Question
	for _, q := range qs {
		if slices.Contains(q.Meta().Companies, company) {
			out = append(out, q)
		}
	}
	return out
}
