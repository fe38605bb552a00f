// Package bank loads and indexes the read-only question catalog. The catalog
// is produced by an external import layer as a JSON file of kind-tagged
// questions; the engine only needs filtered read access.
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/nexusprep/assessd/internal/model"
)

// Bank is an immutable, loaded question catalog.
type Bank struct {
	questions []model.Question
}

// New builds a Bank from an already-parsed question list.
func New(questions []model.Question) *Bank {
	return &Bank{questions: slices.Clone(questions)}
}

// Load reads a JSON catalog file: a top-level array of questions, each tagged
// with a "kind" discriminator ("coding" or "choice").
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	questions := make([]model.Question, 0, len(raw))
	for i, entry := range raw {
		q, err := model.UnmarshalQuestion(entry)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}

	return &Bank{questions: questions}, nil
}

// Len returns the catalog size.
func (b *Bank) Len() int { return len(b.questions) }

// All returns a copy of the full catalog.
func (b *Bank) All() []model.Question {
	return slices.Clone(b.questions)
}

// ByDifficulty returns all questions of the given difficulty.
func (b *Bank) ByDifficulty(d model.Difficulty) []model.Question {
	return b.filter(func(q model.Question) bool { return q.Meta().Difficulty == d })
}

// ByCategory returns all questions in the given category.
func (b *Bank) ByCategory(category string) []model.Question {
	return b.filter(func(q model.Question) bool { return q.Meta().Category == category })
}

// ByCompany returns all questions tagged with the given company.
func (b *Bank) ByCompany(company string) []model.Question {
	return b.filter(func(q model.Question) bool {
		return slices.Contains(q.Meta().Companies, company)
	})
}

// Stats summarizes the catalog for operators and the admin surface.
type Stats struct {
	Total        int                      `json:"total"`
	ByKind       map[model.QuestionKind]int `json:"by_kind"`
	ByDifficulty map[model.Difficulty]int   `json:"by_difficulty"`
	ByCategory   map[string]int             `json:"by_category"`
}

// Stats counts questions per kind, difficulty and category.
func (b *Bank) Stats() Stats {
	s := Stats{
		Total:        len(b.questions),
		ByKind:       make(map[model.QuestionKind]int),
		ByDifficulty: make(map[model.Difficulty]int),
		ByCategory:   make(map[string]int),
	}
	for _, q := range b.questions {
		meta := q.Meta()
		s.ByKind[q.Kind()]++
		s.ByDifficulty[meta.Difficulty]++
		s.ByCategory[meta.Category]++
	}
	return s
}

func (b *Bank) filter(keep func(model.Question) bool) []model.Question {
	var out []model.Question
	for _, q := range b.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
