// Package billing exposes the submission-quota collaborator the public
// submission path consults. The default implementation tracks per-owner
// monthly usage in the local store; a hosted deployment can substitute a
// Provider backed by an external billing service.
package billing

import (
	"context"
	"database/sql"
	"time"
)

type Provider interface {
	CheckSubmissionQuota(ctx context.Context, ownerID int) (bool, error)
	IncrementSubmissionUsage(ctx context.Context, ownerID int) error
}

const monthFormat = "2006-01"

// Quota enforces a flat monthly submission allowance per owner.
// A limit of 0 disables enforcement.
type Quota struct {
	db           *sql.DB
	monthlyLimit int
	now          func() time.Time
}

func NewQuota(db *sql.DB, monthlyLimit int) *Quota {
	return &Quota{db: db, monthlyLimit: monthlyLimit, now: time.Now}
}

func (q *Quota) CheckSubmissionQuota(ctx context.Context, ownerID int) (bool, error) {
	if q.monthlyLimit <= 0 {
		return true, nil
	}

	var used int
	err := q.db.QueryRowContext(ctx, `
		SELECT used FROM submission_usage
		WHERE owner_id = ? AND period = ?`,
		ownerID,
		q.period(),
	).Scan(&used)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return used < q.monthlyLimit, nil
}

func (q *Quota) IncrementSubmissionUsage(ctx context.Context, ownerID int) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO submission_usage (owner_id, period, used) VALUES (?, ?, 1)
		ON CONFLICT (owner_id, period) DO UPDATE SET used = used + 1`,
		ownerID,
		q.period(),
	)
	return err
}

func (q *Quota) period() string {
	return q.now().UTC().Format(monthFormat)
}
