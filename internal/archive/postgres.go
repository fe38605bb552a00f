// Package archive provides the durable stores for finished sessions: a
// PostgreSQL upsert keyed by session id, a JSON-file store for single-box
// deployments, and a redis-backed retry decorator for when the primary
// store is down.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/engine"
)

// PostgresArchiver persists archive records into the assessment_results
// table. Archiving is idempotent: re-archiving a session id overwrites the
// previous row.
type PostgresArchiver struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPostgresArchiver creates a PostgresArchiver.
func NewPostgresArchiver(pool *pgxpool.Pool, log zerolog.Logger) *PostgresArchiver {
	return &PostgresArchiver{
		pool: pool,
		log:  log.With().Str("component", "postgres_archiver").Logger(),
	}
}

// Archive upserts the record keyed by session id.
func (a *PostgresArchiver) Archive(ctx context.Context, rec *engine.ArchiveRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal archive record: %w", err)
	}

	_, err = a.pool.Exec(ctx,
		`INSERT INTO assessment_results
		    (session_id, candidate_id, state, overall_percentage, auto_submitted, completed_at, record, archived_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (session_id) DO UPDATE
		 SET candidate_id = EXCLUDED.candidate_id,
		     state = EXCLUDED.state,
		     overall_percentage = EXCLUDED.overall_percentage,
		     auto_submitted = EXCLUDED.auto_submitted,
		     completed_at = EXCLUDED.completed_at,
		     record = EXCLUDED.record,
		     archived_at = EXCLUDED.archived_at`,
		rec.SessionID,
		rec.CandidateID,
		string(rec.State),
		rec.Result.OverallPercentage,
		rec.Result.AutoSubmitted,
		rec.Result.CompletedAt,
		payload,
		rec.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert assessment result: %w", err)
	}

	a.log.Debug().Str("session_id", rec.SessionID).Msg("result archived")
	return nil
}
