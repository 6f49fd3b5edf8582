package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stats.db")

	pool, err := Open(ctx, path)
	require.NoError(t, err)
	defer pool.Close()

	var count int
	require.NoError(t, pool.GetContext(ctx, &count, `SELECT COUNT(*) FROM player_stats`))
	assert.Zero(t, count)

	// Opening again must not fail on the existing table.
	again, err := Open(ctx, path)
	require.NoError(t, err)
	again.Close()
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "stats.db"))
	assert.Error(t, err)
}
