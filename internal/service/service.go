package service

import (
	"context"
	"encoding/json"
	"time"

	"timetrack/internal/clock"
	"timetrack/internal/models"
	"timetrack/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Tracker exposes timer control: start/stop/resume and the live state feed.
type Tracker interface {
	Start(ctx context.Context, userID int, p StartParams) (models.TimeEntry, error)
	Stop(ctx context.Context, userID int) (models.TimeEntry, error)
	Resume(ctx context.Context, userID int, entryID int64) (models.TimeEntry, error)
	State(ctx context.Context, userID int) (models.TimerState, error)
	Entries(ctx context.Context, userID int, f EntryFilter) ([]models.TimeEntry, error)
}

// Dashboard exposes aggregated tracked-hours totals and breakdowns.
type Dashboard interface {
	Summary(ctx context.Context, userID int) (models.DashboardSummary, error)
}

// Preferences exposes the opaque per-user UI preference blobs.
type Preferences interface {
	Get(ctx context.Context, userID int, key string) (*models.Preference, error)
	Set(ctx context.Context, userID int, key string, value json.RawMessage) error
}

// StartParams describes the timer to start.
type StartParams struct {
	Project     string
	Task        string
	Description string
}

// EntryFilter bounds Entries by start time; zero bounds are open.
type EntryFilter struct {
	From time.Time
	To   time.Time
}

// Service aggregates all sub-services.
type Service struct {
	Tracker
	Dashboard
	Preferences
	Authorization
}

// NewService wires the repository layer into concrete services. The clock is
// injected so elapsed-time derivation is deterministic under test.
func NewService(repos *repository.Repository, clk clock.Clock, signingKey string) *Service {
	return &Service{
		Tracker:       NewTrackerService(repos.Entries, clk),
		Dashboard:     NewDashboardService(repos.Entries, clk),
		Preferences:   NewPreferenceService(repos.Prefs),
		Authorization: NewAuthService(repos.Auth, signingKey),
	}
}
