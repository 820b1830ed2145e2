package billing

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotaDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE submission_usage (
			owner_id INTEGER NOT NULL,
			period   TEXT NOT NULL,
			used     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (owner_id, period)
		)`)
	require.NoError(t, err)
	return db
}

func TestQuotaEnforcesMonthlyLimit(t *testing.T) {
	q := NewQuota(quotaDB(t), 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := q.CheckSubmissionQuota(ctx, 1)
		require.NoError(t, err)
		assert.True(t, allowed)
		require.NoError(t, q.IncrementSubmissionUsage(ctx, 1))
	}

	allowed, err := q.CheckSubmissionQuota(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed)

	// other owners are unaffected
	allowed, err = q.CheckSubmissionQuota(ctx, 2)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestQuotaUnlimitedWhenZero(t *testing.T) {
	q := NewQuota(quotaDB(t), 0)
	allowed, err := q.CheckSubmissionQuota(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestQuotaResetsEachMonth(t *testing.T) {
	q := NewQuota(quotaDB(t), 1)
	ctx := context.Background()

	current := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return current }

	require.NoError(t, q.IncrementSubmissionUsage(ctx, 1))
	allowed, err := q.CheckSubmissionQuota(ctx, 1)
	require.NoError(t, err)
	assert.False(t, allowed)

	current = current.AddDate(0, 1, 0)
	allowed, err = q.CheckSubmissionQuota(ctx, 1)
	require.NoError(t, err)
	assert.True(t, allowed)
}
