package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nexusprep/assessd/internal/engine"
)

// FileArchiver writes one JSON file per session under a directory. Intended
// for single-box deployments and local development where PostgreSQL is not
// available. Writes are atomic (temp file + rename) and overwriting the
// same session id is the idempotent re-archive path.
type FileArchiver struct {
	dir string
}

// NewFileArchiver creates the directory if needed.
func NewFileArchiver(dir string) (*FileArchiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &FileArchiver{dir: dir}, nil
}

// Archive writes <dir>/<session_id>_result.json.
func (a *FileArchiver) Archive(_ context.Context, rec *engine.ArchiveRecord) error {
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archive record: %w", err)
	}

	final := a.Path(rec.SessionID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("rename archive file: %w", err)
	}
	return nil
}

// Path returns the archive file path for a session id.
func (a *FileArchiver) Path(sessionID string) string {
	return filepath.Join(a.dir, sessionID+"_result.json")
}
