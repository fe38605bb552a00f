package archive

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusprep/assessd/internal/engine"
	"github.com/nexusprep/assessd/internal/model"
)

func sampleRecord(sessionID string) *engine.ArchiveRecord {
	return &engine.ArchiveRecord{
		SessionID:   sessionID,
		CandidateID: "cand-1",
		State:       engine.StateCompleted,
		QuestionIDs: []string{"q1", "q2"},
		Result: model.Result{
			SessionID:         sessionID,
			CandidateID:       "cand-1",
			TotalQuestions:    2,
			AnsweredQuestions: 2,
			CorrectAnswers:    1,
			OverallPercentage: 50,
		},
		ArchivedAt: time.Now().UTC(),
	}
}

func TestFileArchiverWritesRecord(t *testing.T) {
	a, err := NewFileArchiver(t.TempDir())
	require.NoError(t, err)

	rec := sampleRecord("cand-1-1700000000-abcd1234")
	require.NoError(t, a.Archive(context.Background(), rec))

	raw, err := os.ReadFile(a.Path(rec.SessionID))
	require.NoError(t, err)

	var stored engine.ArchiveRecord
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, rec.SessionID, stored.SessionID)
	assert.Equal(t, engine.StateCompleted, stored.State)
	assert.Equal(t, float64(50), stored.Result.OverallPercentage)
}

func TestFileArchiverReArchiveOverwrites(t *testing.T) {
	a, err := NewFileArchiver(t.TempDir())
	require.NoError(t, err)

	rec := sampleRecord("s-1")
	require.NoError(t, a.Archive(context.Background(), rec))

	rec.Result.OverallPercentage = 100
	require.NoError(t, a.Archive(context.Background(), rec))

	raw, err := os.ReadFile(a.Path("s-1"))
	require.NoError(t, err)

	var stored engine.ArchiveRecord
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, float64(100), stored.Result.OverallPercentage)
}

func TestFileArchiverLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileArchiver(dir)
	require.NoError(t, err)

	require.NoError(t, a.Archive(context.Background(), sampleRecord("s-1")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s-1_result.json", entries[0].Name())
}
