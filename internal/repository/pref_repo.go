package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timetrack/internal/models"
)

type PrefSQLite struct {
	db *sql.DB
}

func NewPrefSQLite(db *sql.DB) *PrefSQLite { return &PrefSQLite{db: db} }

var _ PrefRepo = (*PrefSQLite)(nil)

const upsertPrefSQL = `
	INSERT INTO preferences (user_id, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id, key) DO UPDATE SET
		value=excluded.value,
		updated_at=excluded.updated_at
`

const selectPrefSQL = `
	SELECT user_id, key, value, updated_at FROM preferences WHERE user_id = ? AND key = ?
`

// Get fetches one preference blob. Returns (nil, nil) if not set.
func (r *PrefSQLite) Get(ctx context.Context, userID int, key string) (*models.Preference, error) {
	var (
		p         models.Preference
		value     string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx, selectPrefSQL, userID, key).
		Scan(&p.UserID, &p.Key, &value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select preference %q: %w", key, err)
	}
	p.Value = []byte(value)
	if t, err := decodeTime(updatedAt); err == nil {
		p.UpdatedAt = t
	}
	return &p, nil
}

// Set upserts a preference blob. Last writer wins; blobs are UI conveniences,
// not correctness-critical data.
func (r *PrefSQLite) Set(ctx context.Context, p models.Preference) error {
	ts := p.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, upsertPrefSQL,
		p.UserID,
		p.Key,
		string(p.Value),
		encodeTime(ts),
	)
	if err != nil {
		return fmt.Errorf("upsert preference %q: %w", p.Key, err)
	}
	return nil
}
