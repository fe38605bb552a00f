package engine

import (
	"context"
	"time"

	"github.com/nexusprep/assessd/internal/model"
)

// ArchiveRecord is the durable snapshot of a terminal session together with
// its Result. Records are keyed by session id; archiving the same id twice
// must overwrite, not duplicate.
type ArchiveRecord struct {
	SessionID   string                    `json:"session_id"`
	CandidateID string                    `json:"candidate_id"`
	State       State                     `json:"state"`
	QuestionIDs []string                  `json:"question_ids"`
	Responses   map[string]model.Response `json:"responses"`
	Result      model.Result              `json:"result"`
	ArchivedAt  time.Time                 `json:"archived_at"`
}

// Archiver persists terminal sessions. Implementations live in
// internal/archive; the registry treats archive failures as non-fatal — the
// session is evicted either way so it cannot wedge the monitor.
type Archiver interface {
	Archive(ctx context.Context, rec *ArchiveRecord) error
}
