package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/config"
	"github.com/nexusprep/assessd/internal/engine"
)

const retryBackoff = 5 * time.Second

// ArchiveWorker consumes the archive retry queue and re-writes records to
// the primary store. Records land on the queue when the registry's archive
// write failed (see archive.QueuedArchiver); without this worker those
// results would stay lost.
type ArchiveWorker struct {
	archiver engine.Archiver
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewArchiveWorker creates a new ArchiveWorker.
func NewArchiveWorker(archiver engine.Archiver, rdb *redis.Client, log zerolog.Logger) *ArchiveWorker {
	return &ArchiveWorker{
		archiver: archiver,
		rdb:      rdb,
		log:      log.With().Str("component", "archive_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ArchiveWorker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ArchiveWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.ArchiveRetryQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var rec engine.ArchiveRecord
	if err := json.Unmarshal([]byte(result[1]), &rec); err != nil {
		w.log.Error().Err(err).Msg("invalid archive record, dropping")
		return
	}

	if err := w.archiver.Archive(ctx, &rec); err != nil {
		w.log.Error().Err(err).
			Str("session_id", rec.SessionID).
			Msg("re-archive failed, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.ArchiveRetryQueue, result[1])
		time.Sleep(retryBackoff)
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *ArchiveWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.ArchiveRetryQueue).Result()
		if err != nil {
			break
		}

		var rec engine.ArchiveRecord
		if err := json.Unmarshal([]byte(result), &rec); err != nil {
			w.log.Error().Err(err).Msg("drain unmarshal error")
			continue
		}

		if err := w.archiver.Archive(ctx, &rec); err != nil {
			w.log.Error().Err(err).Msg("drain archive error")
			w.rdb.RPush(ctx, config.WorkerKey.ArchiveRetryQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("drained remaining records")
	}
}
