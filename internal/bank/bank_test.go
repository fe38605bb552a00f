package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusprep/assessd/internal/model"
)

func TestLoadCatalog(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "questions.json"))
	require.NoError(t, err)
	assert.Equal(t, 4, b.Len())

	// Concrete variants survive the kind-tagged parse.
	var codingSeen, choiceSeen bool
	for _, q := range b.All() {
		switch q.(type) {
		case model.CodingQuestion:
			codingSeen = true
		case model.ChoiceQuestion:
			choiceSeen = true
		}
	}
	assert.True(t, codingSeen)
	assert.True(t, choiceSeen)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.json"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"kind":"essay","id":"x"}]`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown question kind")
}

func TestFilters(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "questions.json"))
	require.NoError(t, err)

	easy := b.ByDifficulty(model.DifficultyEasy)
	assert.Len(t, easy, 2)

	dbs := b.ByCategory("databases")
	require.Len(t, dbs, 1)
	assert.Equal(t, "sql-index", dbs[0].Meta().ID)

	acme := b.ByCompany("Acme")
	assert.Len(t, acme, 2)
	assert.Empty(t, b.ByCompany("Initech"))
}

func TestStats(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "questions.json"))
	require.NoError(t, err)

	stats := b.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByKind[model.KindCoding])
	assert.Equal(t, 2, stats.ByKind[model.KindChoice])
	assert.Equal(t, 2, stats.ByDifficulty[model.DifficultyEasy])
	assert.Equal(t, 1, stats.ByDifficulty[model.DifficultyMedium])
	assert.Equal(t, 1, stats.ByDifficulty[model.DifficultyHard])
	assert.Equal(t, 1, stats.ByCategory["algorithms"])
}

func TestAllReturnsCopy(t *testing.T) {
	b := New([]model.Question{
		model.ChoiceQuestion{QuestionMeta: model.QuestionMeta{ID: "q1", Category: "misc"}},
	})

	all := b.All()
	all[0] = model.ChoiceQuestion{QuestionMeta: model.QuestionMeta{ID: "mutated"}}
	assert.Equal(t, "q1", b.All()[0].Meta().ID)
}
