// Package evaluator turns collected responses into correctness and score
// data. Everything here is deterministic and free of session/concurrency
// concerns so it can run inside the engine's completion path.
package evaluator

import (
	"math"
	"time"

	"github.com/nexusprep/assessd/internal/model"
)

// Sheet is the snapshot of a finished session handed to Score. The engine
// builds it under the session lock; Score itself takes no locks.
type Sheet struct {
	SessionID     string
	CandidateID   string
	Configuration model.AssessmentConfiguration
	Questions     []model.Question
	Responses     map[string]model.Response
	StartedAt     time.Time
	CompletedAt   time.Time
	Elapsed       time.Duration
	AutoSubmitted bool
}

// Correct reports whether a response answers the question correctly.
//
// Choice questions with a single correct option require an exact match;
// with several correct options the full set must be selected — no partial
// credit at the boolean level. Coding questions require every judge test to
// pass. The original reference awarded coding credit for any single passing
// test; that bar was judged a bug and raised to all-tests-pass, with the
// lenient fraction still available via PartialCredit.
func Correct(q model.Question, resp *model.Response) bool {
	if resp == nil {
		return false
	}

	switch v := q.(type) {
	case model.ChoiceQuestion:
		correct := v.CorrectOptionIDs()
		if len(correct) == 0 {
			return false
		}
		return sameSet(correct, resp.Answer.SelectedOptions)
	case model.CodingQuestion:
		verdict := resp.Answer.Judge
		return verdict != nil && verdict.TotalTests > 0 && verdict.PassedTests == verdict.TotalTests
	default:
		return false
	}
}

// PartialCredit returns the fraction of credit earned, for reporting only.
// Boolean scoring (Correct) remains all-or-nothing.
func PartialCredit(q model.Question, resp *model.Response) float64 {
	if resp == nil {
		return 0
	}

	switch v := q.(type) {
	case model.ChoiceQuestion:
		correct := v.CorrectOptionIDs()
		if len(correct) == 0 {
			return 0
		}
		correctSet := make(map[string]struct{}, len(correct))
		for _, id := range correct {
			correctSet[id] = struct{}{}
		}
		hits := 0
		for _, id := range resp.Answer.SelectedOptions {
			if _, ok := correctSet[id]; ok {
				hits++
			}
		}
		return float64(hits) / float64(len(correct))
	case model.CodingQuestion:
		verdict := resp.Answer.Judge
		if verdict == nil || verdict.TotalTests == 0 {
			return 0
		}
		return float64(verdict.PassedTests) / float64(verdict.TotalTests)
	default:
		return 0
	}
}

// Score computes the immutable Result for a finished session. Questions
// without a response count as incorrect and unanswered. All percentages are
// rounded to two decimals and a zero-question session scores zero rather
// than dividing by zero.
func Score(sheet Sheet) model.Result {
	total := len(sheet.Questions)
	answered := 0
	correct := 0
	categories := make(map[string]model.CategoryScore)

	for _, q := range sheet.Questions {
		meta := q.Meta()
		cat := categories[meta.Category]
		cat.Total++

		if resp, ok := sheet.Responses[meta.ID]; ok {
			answered++
			if Correct(q, &resp) {
				correct++
				cat.Correct++
			}
		}
		categories[meta.Category] = cat
	}

	for name, cat := range categories {
		if cat.Total > 0 {
			cat.Percentage = round2(float64(cat.Correct) / float64(cat.Total) * 100)
		}
		categories[name] = cat
	}

	var overall, completion float64
	if total > 0 {
		overall = round2(float64(correct) / float64(total) * 100)
		completion = round2(float64(answered) / float64(total) * 100)
	}

	return model.Result{
		SessionID:         sheet.SessionID,
		CandidateID:       sheet.CandidateID,
		TotalQuestions:    total,
		AnsweredQuestions: answered,
		CorrectAnswers:    correct,
		OverallPercentage: overall,
		CompletionRate:    completion,
		Passed:            total > 0 && overall >= sheet.Configuration.PassingScore,
		CategoryBreakdown: categories,
		ElapsedSeconds:    int(sheet.Elapsed.Seconds()),
		TimeLimitSeconds:  sheet.Configuration.TimeLimitMinutes * 60,
		AutoSubmitted:     sheet.AutoSubmitted,
		Configuration:     sheet.Configuration,
		StartedAt:         sheet.StartedAt,
		CompletedAt:       sheet.CompletedAt,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sameSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, id := range b {
		setB[id] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setB {
		if _, ok := setA[id]; !ok {
			return false
		}
	}
	return true
}
