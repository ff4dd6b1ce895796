package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"timetrack/internal/clock"
	"timetrack/internal/display"
	"timetrack/internal/models"
	"timetrack/internal/repository"
)

var (
	ErrNoRunningTimer = errors.New("no running timer")
	ErrEmptyProject   = errors.New("project is required")
	ErrEntryNotFound  = errors.New("time entry not found")
)

// TrackerService owns the one-running-timer-per-user rule and derives the
// live display state from stored start timestamps.
type TrackerService struct {
	entries repository.EntryRepo
	clk     clock.Clock
}

func NewTrackerService(entries repository.EntryRepo, clk clock.Clock) *TrackerService {
	return &TrackerService{entries: entries, clk: clk}
}

// Start begins a timer. If another entry is already running for the user it
// is stopped first, so at most one entry per user is ever running.
func (s *TrackerService) Start(ctx context.Context, userID int, p StartParams) (models.TimeEntry, error) {
	p.Project = strings.TrimSpace(p.Project)
	if p.Project == "" {
		return models.TimeEntry{}, ErrEmptyProject
	}

	if _, err := s.stopActive(ctx, userID); err != nil && !errors.Is(err, ErrNoRunningTimer) {
		return models.TimeEntry{}, err
	}

	e := models.TimeEntry{
		UserID:      userID,
		Project:     p.Project,
		Task:        strings.TrimSpace(p.Task),
		Description: strings.TrimSpace(p.Description),
		StartedAt:   s.clk.Now().UTC(),
	}
	id, err := s.entries.Create(ctx, e)
	if err != nil {
		return models.TimeEntry{}, err
	}

	created, err := s.entries.Get(ctx, userID, id)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if created == nil {
		return models.TimeEntry{}, fmt.Errorf("created entry %d not found", id)
	}
	return *created, nil
}

// Stop finishes the user's running entry, accumulating hours from its start
// timestamp. Returns ErrNoRunningTimer when nothing is running.
func (s *TrackerService) Stop(ctx context.Context, userID int) (models.TimeEntry, error) {
	return s.stopActive(ctx, userID)
}

func (s *TrackerService) stopActive(ctx context.Context, userID int) (models.TimeEntry, error) {
	active, err := s.entries.Active(ctx, userID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if active == nil {
		return models.TimeEntry{}, ErrNoRunningTimer
	}

	now := s.clk.Now().UTC()
	elapsed := display.ElapsedSeconds(s.clk, active.StartedAt)
	hours := float64(elapsed) / 3600

	if err := s.entries.Finish(ctx, active.ID, now, hours); err != nil {
		return models.TimeEntry{}, err
	}
	active.StoppedAt = &now
	active.Hours = hours
	return *active, nil
}

// Resume starts a fresh entry copying the project, task and description of a
// previous one.
func (s *TrackerService) Resume(ctx context.Context, userID int, entryID int64) (models.TimeEntry, error) {
	prev, err := s.entries.Get(ctx, userID, entryID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if prev == nil {
		return models.TimeEntry{}, ErrEntryNotFound
	}
	return s.Start(ctx, userID, StartParams{
		Project:     prev.Project,
		Task:        prev.Task,
		Description: prev.Description,
	})
}

// State snapshots the user's timer for display hosts: the running flag, the
// nullable start timestamp, and the derived elapsed/display values. While
// idle the snapshot carries today's accumulated hours in static float form.
func (s *TrackerService) State(ctx context.Context, userID int) (models.TimerState, error) {
	active, err := s.entries.Active(ctx, userID)
	if err != nil {
		return models.TimerState{}, err
	}

	if active == nil {
		dayFrom, dayTo := dayBounds(s.clk.Now().UTC())
		today, err := s.entries.SumHours(ctx, userID, dayFrom, dayTo)
		if err != nil {
			return models.TimerState{}, err
		}
		return models.TimerState{
			Running: false,
			Hours:   today,
			Display: display.FormatFloatHours(today),
		}, nil
	}

	started := active.StartedAt.UTC()
	elapsed := display.ElapsedSeconds(s.clk, started)
	return models.TimerState{
		Running:        true,
		EntryID:        active.ID,
		Project:        active.Project,
		Task:           active.Task,
		StartedAt:      &started,
		ElapsedSeconds: elapsed,
		Display:        display.FormatAdaptive(float64(elapsed)),
	}, nil
}

// Entries lists the user's entries within the filter bounds.
func (s *TrackerService) Entries(ctx context.Context, userID int, f EntryFilter) ([]models.TimeEntry, error) {
	from := toUTC(f.From)
	to := toUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errors.New("invalid time range: from must be <= to")
	}
	return s.entries.List(ctx, userID, from, to)
}

// dayBounds returns the inclusive UTC bounds of t's calendar day.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Second)
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
