package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timetrack/internal/models"

	"github.com/google/uuid"
)

type EntrySQLite struct {
	db *sql.DB
}

func NewEntrySQLite(db *sql.DB) *EntrySQLite { return &EntrySQLite{db: db} }

var _ EntryRepo = (*EntrySQLite)(nil)

// Timestamps are stored as SQLite TIMESTAMP text "YYYY-MM-DD HH:MM:SS" in
// UTC, so date() and range comparisons work on the stored values.
const sqliteTimeLayout = "2006-01-02 15:04:05"

const (
	insertEntrySQL = `
		INSERT INTO time_entries (entry_uid, user_id, project, task, description, started_at, stopped_at, hours)
		VALUES (?, ?, ?, ?, ?, ?, NULL, 0)
	`

	selectEntryCols = `id, entry_uid, user_id, project, task, description, started_at, stopped_at, hours`

	finishEntrySQL = `
		UPDATE time_entries SET stopped_at = ?, hours = ? WHERE id = ? AND stopped_at IS NULL
	`
)

func encodeTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.ParseInLocation(sqliteTimeLayout, s, time.UTC)
}

// Create inserts a running entry. EntryUID and StartedAt are set if empty.
func (r *EntrySQLite) Create(ctx context.Context, e models.TimeEntry) (int64, error) {
	if e.EntryUID == "" {
		e.EntryUID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, insertEntrySQL,
		e.EntryUID,
		e.UserID,
		e.Project,
		e.Task,
		e.Description,
		encodeTime(e.StartedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert time entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for time entry: %w", err)
	}
	return id, nil
}

// Get fetches one entry owned by userID. Returns (nil, nil) if not found.
func (r *EntrySQLite) Get(ctx context.Context, userID int, id int64) (*models.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectEntryCols+` FROM time_entries WHERE id = ? AND user_id = ?`, id, userID)
	return scanEntry(row)
}

// Active returns the user's running entry, or (nil, nil) when none is running.
func (r *EntrySQLite) Active(ctx context.Context, userID int) (*models.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectEntryCols+` FROM time_entries
		 WHERE user_id = ? AND stopped_at IS NULL
		 ORDER BY started_at DESC LIMIT 1`, userID)
	return scanEntry(row)
}

// Finish closes a running entry with its stop time and accumulated hours.
func (r *EntrySQLite) Finish(ctx context.Context, id int64, stoppedAt time.Time, hours float64) error {
	res, err := r.db.ExecContext(ctx, finishEntrySQL, encodeTime(stoppedAt), hours, id)
	if err != nil {
		return fmt.Errorf("finish time entry %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for time entry %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("time entry %d is not running", id)
	}
	return nil
}

// List returns the user's entries started within [from, to], newest first.
// Zero bounds are open.
func (r *EntrySQLite) List(ctx context.Context, userID int, from, to time.Time) ([]models.TimeEntry, error) {
	q := `SELECT ` + selectEntryCols + ` FROM time_entries WHERE user_id = ?`
	args := []any{userID}
	if !from.IsZero() {
		q += ` AND started_at >= ?`
		args = append(args, encodeTime(from))
	}
	if !to.IsZero() {
		q += ` AND started_at <= ?`
		args = append(args, encodeTime(to))
	}
	q += ` ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.TimeEntry, 0, 32)
	for rows.Next() {
		e, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// SumHours totals accumulated hours for entries started within [from, to].
func (r *EntrySQLite) SumHours(ctx context.Context, userID int, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM time_entries
		 WHERE user_id = ? AND started_at >= ? AND started_at <= ?`,
		userID, encodeTime(from), encodeTime(to),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum hours: %w", err)
	}
	return total, nil
}

// ProjectBreakdown groups hours by project/task within [from, to], largest
// first. Percent is left for the caller, which knows the period total.
func (r *EntrySQLite) ProjectBreakdown(ctx context.Context, userID int, from, to time.Time) ([]models.ProjectSlice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project, COALESCE(task, ''), COALESCE(SUM(hours), 0) AS total
		 FROM time_entries
		 WHERE user_id = ? AND started_at >= ? AND started_at <= ?
		 GROUP BY project, task
		 ORDER BY total DESC`,
		userID, encodeTime(from), encodeTime(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ProjectSlice, 0, 16)
	for rows.Next() {
		var p models.ProjectSlice
		if err := rows.Scan(&p.Project, &p.Task, &p.Hours); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DailyBreakdown groups hours by calendar day within [from, to], ascending.
func (r *EntrySQLite) DailyBreakdown(ctx context.Context, userID int, from, to time.Time) ([]models.DayTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date(started_at) AS day, COALESCE(SUM(hours), 0)
		 FROM time_entries
		 WHERE user_id = ? AND started_at >= ? AND started_at <= ?
		 GROUP BY day
		 ORDER BY day ASC`,
		userID, encodeTime(from), encodeTime(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DayTotal, 0, 7)
	for rows.Next() {
		var d models.DayTotal
		if err := rows.Scan(&d.Date, &d.Hours); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row *sql.Row) (*models.TimeEntry, error) {
	e, err := scanEntryRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func scanEntryRow(row rowScanner) (*models.TimeEntry, error) {
	var (
		e         models.TimeEntry
		task      sql.NullString
		desc      sql.NullString
		startedAt string
		stoppedAt sql.NullString
	)
	if err := row.Scan(
		&e.ID,
		&e.EntryUID,
		&e.UserID,
		&e.Project,
		&task,
		&desc,
		&startedAt,
		&stoppedAt,
		&e.Hours,
	); err != nil {
		return nil, err
	}
	e.Task = task.String
	e.Description = desc.String

	t, err := decodeTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("decode started_at %q: %w", startedAt, err)
	}
	e.StartedAt = t

	if stoppedAt.Valid && stoppedAt.String != "" {
		t, err := decodeTime(stoppedAt.String)
		if err != nil {
			return nil, fmt.Errorf("decode stopped_at %q: %w", stoppedAt.String, err)
		}
		e.StoppedAt = &t
	}
	return &e, nil
}
