package model

import (
	"encoding/json"
	"fmt"
)

// Difficulty enumerates question difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionKind discriminates the two question variants.
type QuestionKind string

const (
	KindCoding QuestionKind = "coding"
	KindChoice QuestionKind = "choice"
)

// QuestionMeta holds the fields shared by every question variant.
type QuestionMeta struct {
	ID         string     `json:"id"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Companies  []string   `json:"companies,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

// Meta implements the Question interface.
func (m QuestionMeta) Meta() QuestionMeta { return m }

// Question is the sealed catalog-entry union. The only implementations are
// CodingQuestion and ChoiceQuestion; the evaluator switches exhaustively on
// the concrete types. Catalog entries are read-only — sessions hold copies.
type Question interface {
	Meta() QuestionMeta
	Kind() QuestionKind
}

// TestCase is a single input/output pair for a coding question. Hidden cases
// are withheld from candidates and only used by the external judge.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Explanation    string `json:"explanation,omitempty"`
	Hidden         bool   `json:"hidden,omitempty"`
}

// CodingQuestion is an algorithm/data-structure problem judged externally.
type CodingQuestion struct {
	QuestionMeta
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TestCases        []TestCase `json:"test_cases"`
	Hints            []string   `json:"hints,omitempty"`
	SolutionApproach string     `json:"solution_approach,omitempty"`
	TimeComplexity   string     `json:"time_complexity,omitempty"`
	SpaceComplexity  string     `json:"space_complexity,omitempty"`
}

func (CodingQuestion) Kind() QuestionKind { return KindCoding }

// ChoiceOption is one selectable option of a multiple-choice question.
type ChoiceOption struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

// ChoiceQuestion is a multiple-choice question. One or more options may be
// flagged correct; scoring requires the full correct set when several are.
type ChoiceQuestion struct {
	QuestionMeta
	Prompt      string         `json:"prompt"`
	Options     []ChoiceOption `json:"options"`
	Explanation string         `json:"explanation,omitempty"`
}

func (ChoiceQuestion) Kind() QuestionKind { return KindChoice }

// CorrectOptionIDs returns the ids of all options flagged correct, in order.
func (q ChoiceQuestion) CorrectOptionIDs() []string {
	var ids []string
	for _, opt := range q.Options {
		if opt.Correct {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// questionEnvelope carries the kind discriminator for (un)marshalling the
// Question union.
type questionEnvelope struct {
	Kind QuestionKind `json:"kind"`
}

// MarshalQuestion serializes a question with its kind discriminator.
func MarshalQuestion(q Question) ([]byte, error) {
	var payload any
	switch v := q.(type) {
	case CodingQuestion:
		payload = struct {
			Kind QuestionKind `json:"kind"`
			CodingQuestion
		}{KindCoding, v}
	case ChoiceQuestion:
		payload = struct {
			Kind QuestionKind `json:"kind"`
			ChoiceQuestion
		}{KindChoice, v}
	default:
		return nil, fmt.Errorf("unknown question type %T", q)
	}
	return json.Marshal(payload)
}

// UnmarshalQuestion parses a question tagged with a kind discriminator.
func UnmarshalQuestion(data []byte) (Question, error) {
	var env questionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse question envelope: %w", err)
	}

	switch env.Kind {
	case KindCoding:
		var q CodingQuestion
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("parse coding question: %w", err)
		}
		return q, nil
	case KindChoice:
		var q ChoiceQuestion
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("parse choice question: %w", err)
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unknown question kind %q", env.Kind)
	}
}
