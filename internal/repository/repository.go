package repository

import (
	"context"
	"database/sql"
	"time"

	"timetrack/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// EntryRepo persists time entries and serves the dashboard aggregates.
type EntryRepo interface {
	Create(ctx context.Context, e models.TimeEntry) (int64, error)
	Get(ctx context.Context, userID int, id int64) (*models.TimeEntry, error)
	Active(ctx context.Context, userID int) (*models.TimeEntry, error)
	Finish(ctx context.Context, id int64, stoppedAt time.Time, hours float64) error
	List(ctx context.Context, userID int, from, to time.Time) ([]models.TimeEntry, error)
	SumHours(ctx context.Context, userID int, from, to time.Time) (float64, error)
	ProjectBreakdown(ctx context.Context, userID int, from, to time.Time) ([]models.ProjectSlice, error)
	DailyBreakdown(ctx context.Context, userID int, from, to time.Time) ([]models.DayTotal, error)
}

// PrefRepo stores opaque per-user preference blobs, last writer wins.
type PrefRepo interface {
	Get(ctx context.Context, userID int, key string) (*models.Preference, error)
	Set(ctx context.Context, p models.Preference) error
}

type Repository struct {
	Entries EntryRepo
	Prefs   PrefRepo
	Auth    Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Entries: NewEntrySQLite(db),
		Prefs:   NewPrefSQLite(db),
		Auth:    NewUserRepository(db),
	}
}
