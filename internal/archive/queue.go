package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/config"
	"github.com/nexusprep/assessd/internal/engine"
)

// QueuedArchiver decorates a primary archiver with a redis retry queue. If
// the primary write fails the record is pushed onto the retry list, where
// the archive worker picks it up; the original error is still returned so
// the registry's failure metric reflects reality.
type QueuedArchiver struct {
	primary engine.Archiver
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewQueuedArchiver wraps primary with retry queueing.
func NewQueuedArchiver(primary engine.Archiver, rdb *redis.Client, log zerolog.Logger) *QueuedArchiver {
	return &QueuedArchiver{
		primary: primary,
		rdb:     rdb,
		log:     log.With().Str("component", "queued_archiver").Logger(),
	}
}

// Archive tries the primary store and enqueues the record for retry on
// failure.
func (a *QueuedArchiver) Archive(ctx context.Context, rec *engine.ArchiveRecord) error {
	err := a.primary.Archive(ctx, rec)
	if err == nil {
		return nil
	}

	raw, marshalErr := json.Marshal(rec)
	if marshalErr != nil {
		return fmt.Errorf("archive failed and record not queueable: %w", err)
	}
	if pushErr := a.rdb.RPush(ctx, config.WorkerKey.ArchiveRetryQueue, raw).Err(); pushErr != nil {
		a.log.Error().Err(pushErr).Str("session_id", rec.SessionID).Msg("retry enqueue failed")
		return fmt.Errorf("archive failed and retry enqueue failed: %w", err)
	}

	a.log.Warn().Err(err).Str("session_id", rec.SessionID).Msg("archive failed, queued for retry")
	return err
}
