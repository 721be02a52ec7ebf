package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/show-catalog/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.SQLite))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// recordingJanitor remembers every discarded path.
type recordingJanitor struct {
	mu    sync.Mutex
	paths []string
}

func (j *recordingJanitor) Discard(_ context.Context, path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.paths = append(j.paths, path)
}

func (j *recordingJanitor) discarded() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.paths...)
}

func strPtr(s string) *string { return &s }
