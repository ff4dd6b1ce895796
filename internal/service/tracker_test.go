package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"timetrack/internal/clock"
	"timetrack/internal/models"
)

// entryRepoStub satisfies repository.EntryRepo with canned responses.
type entryRepoStub struct {
	active    *models.TimeEntry
	activeErr error
	getResp   *models.TimeEntry
	getErr    error
	createID  int64
	createErr error
	finishErr error
	listResp  []models.TimeEntry
	listErr   error
	sumResp   float64
	sumErr    error

	created      []models.TimeEntry
	finished     []finishCall
	lastListFrom time.Time
	lastListTo   time.Time
}

type finishCall struct {
	id        int64
	stoppedAt time.Time
	hours     float64
}

func (s *entryRepoStub) Create(ctx context.Context, e models.TimeEntry) (int64, error) {
	s.created = append(s.created, e)
	return s.createID, s.createErr
}

func (s *entryRepoStub) Get(ctx context.Context, userID int, id int64) (*models.TimeEntry, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.getResp != nil {
		return s.getResp, nil
	}
	// After Create, Start re-reads the row; synthesize it from the input.
	if len(s.created) > 0 && id == s.createID {
		e := s.created[len(s.created)-1]
		e.ID = id
		return &e, nil
	}
	return nil, nil
}

func (s *entryRepoStub) Active(ctx context.Context, userID int) (*models.TimeEntry, error) {
	return s.active, s.activeErr
}

func (s *entryRepoStub) Finish(ctx context.Context, id int64, stoppedAt time.Time, hours float64) error {
	s.finished = append(s.finished, finishCall{id: id, stoppedAt: stoppedAt, hours: hours})
	if s.finishErr == nil {
		// A finished entry is no longer active.
		s.active = nil
	}
	return s.finishErr
}

func (s *entryRepoStub) List(ctx context.Context, userID int, from, to time.Time) ([]models.TimeEntry, error) {
	s.lastListFrom = from
	s.lastListTo = to
	return s.listResp, s.listErr
}

func (s *entryRepoStub) SumHours(ctx context.Context, userID int, from, to time.Time) (float64, error) {
	return s.sumResp, s.sumErr
}

func (s *entryRepoStub) ProjectBreakdown(ctx context.Context, userID int, from, to time.Time) ([]models.ProjectSlice, error) {
	return nil, nil
}

func (s *entryRepoStub) DailyBreakdown(ctx context.Context, userID int, from, to time.Time) ([]models.DayTotal, error) {
	return nil, nil
}

func fixedClock() *clock.Fake {
	return clock.NewFake(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
}

func TestTrackerService_Start(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty project", func(t *testing.T) {
		t.Parallel()
		svc := NewTrackerService(&entryRepoStub{}, fixedClock())
		_, err := svc.Start(context.Background(), 1, StartParams{Project: "   "})
		if !errors.Is(err, ErrEmptyProject) {
			t.Fatalf("expected ErrEmptyProject, got %v", err)
		}
	})

	t.Run("creates running entry at clock now UTC", func(t *testing.T) {
		t.Parallel()
		clk := fixedClock()
		repo := &entryRepoStub{createID: 7}
		svc := NewTrackerService(repo, clk)

		entry, err := svc.Start(context.Background(), 1, StartParams{
			Project:     " Website ",
			Task:        "Menu",
			Description: "pairing",
		})
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if len(repo.created) != 1 {
			t.Fatalf("expected 1 create, got %d", len(repo.created))
		}
		created := repo.created[0]
		if created.Project != "Website" {
			t.Errorf("project not trimmed: %q", created.Project)
		}
		if !created.StartedAt.Equal(clk.Now()) {
			t.Errorf("StartedAt: got %v, want %v", created.StartedAt, clk.Now())
		}
		if created.StartedAt.Location() != time.UTC {
			t.Errorf("StartedAt must be UTC, got %v", created.StartedAt.Location())
		}
		if entry.ID != 7 {
			t.Errorf("entry ID: got %d, want 7", entry.ID)
		}
	})

	t.Run("stops the running entry first", func(t *testing.T) {
		t.Parallel()
		clk := fixedClock()
		started := clk.Now().Add(-30 * time.Minute)
		repo := &entryRepoStub{
			createID: 8,
			active:   &models.TimeEntry{ID: 3, UserID: 1, Project: "Old", StartedAt: started},
		}
		svc := NewTrackerService(repo, clk)

		if _, err := svc.Start(context.Background(), 1, StartParams{Project: "New"}); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if len(repo.finished) != 1 {
			t.Fatalf("expected previous entry finished, got %d finish calls", len(repo.finished))
		}
		fin := repo.finished[0]
		if fin.id != 3 {
			t.Errorf("finished wrong entry: %d", fin.id)
		}
		if fin.hours != 0.5 {
			t.Errorf("accumulated hours: got %v, want 0.5", fin.hours)
		}
	})
}

func TestTrackerService_Stop(t *testing.T) {
	t.Parallel()

	t.Run("no running timer", func(t *testing.T) {
		t.Parallel()
		svc := NewTrackerService(&entryRepoStub{}, fixedClock())
		_, err := svc.Stop(context.Background(), 1)
		if !errors.Is(err, ErrNoRunningTimer) {
			t.Fatalf("expected ErrNoRunningTimer, got %v", err)
		}
	})

	t.Run("accumulates hours from start timestamp", func(t *testing.T) {
		t.Parallel()
		clk := fixedClock()
		started := clk.Now().Add(-90 * time.Minute)
		repo := &entryRepoStub{
			active: &models.TimeEntry{ID: 9, UserID: 1, Project: "P", StartedAt: started},
		}
		svc := NewTrackerService(repo, clk)

		entry, err := svc.Stop(context.Background(), 1)
		if err != nil {
			t.Fatalf("Stop: %v", err)
		}
		if entry.Hours != 1.5 {
			t.Errorf("hours: got %v, want 1.5", entry.Hours)
		}
		if entry.StoppedAt == nil || !entry.StoppedAt.Equal(clk.Now()) {
			t.Errorf("StoppedAt: got %v, want %v", entry.StoppedAt, clk.Now())
		}
	})

	t.Run("propagates repo error", func(t *testing.T) {
		t.Parallel()
		repo := &entryRepoStub{activeErr: errors.New("db down")}
		svc := NewTrackerService(repo, fixedClock())
		if _, err := svc.Stop(context.Background(), 1); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestTrackerService_Resume(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc := NewTrackerService(&entryRepoStub{}, fixedClock())
		_, err := svc.Resume(context.Background(), 1, 99)
		if !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("copies project task description", func(t *testing.T) {
		t.Parallel()
		repo := &entryRepoStub{
			createID: 12,
			getResp:  &models.TimeEntry{ID: 4, Project: "P", Task: "T", Description: "D"},
		}
		svc := NewTrackerService(repo, fixedClock())

		if _, err := svc.Resume(context.Background(), 1, 4); err != nil {
			t.Fatalf("Resume: %v", err)
		}
		if len(repo.created) != 1 {
			t.Fatalf("expected a new entry, got %d creates", len(repo.created))
		}
		created := repo.created[0]
		if created.Project != "P" || created.Task != "T" || created.Description != "D" {
			t.Errorf("copied fields wrong: %+v", created)
		}
	})
}

func TestTrackerService_State(t *testing.T) {
	t.Parallel()

	t.Run("running snapshot carries elapsed and adaptive display", func(t *testing.T) {
		t.Parallel()
		clk := fixedClock()
		started := clk.Now().Add(-125 * time.Second)
		repo := &entryRepoStub{
			active: &models.TimeEntry{ID: 5, Project: "P", Task: "T", StartedAt: started},
		}
		svc := NewTrackerService(repo, clk)

		st, err := svc.State(context.Background(), 1)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if !st.Running {
			t.Fatalf("expected running snapshot")
		}
		if st.ElapsedSeconds != 125 {
			t.Errorf("elapsed: got %d, want 125", st.ElapsedSeconds)
		}
		if st.Display != "2m 05s" {
			t.Errorf("display: got %q, want %q", st.Display, "2m 05s")
		}
		if st.StartedAt == nil || !st.StartedAt.Equal(started) {
			t.Errorf("StartedAt: got %v, want %v", st.StartedAt, started)
		}
	})

	t.Run("idle snapshot carries today's hours in float form", func(t *testing.T) {
		t.Parallel()
		repo := &entryRepoStub{sumResp: 2.5}
		svc := NewTrackerService(repo, fixedClock())

		st, err := svc.State(context.Background(), 1)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if st.Running {
			t.Fatalf("expected idle snapshot")
		}
		if st.Hours != 2.5 {
			t.Errorf("hours: got %v, want 2.5", st.Hours)
		}
		if st.Display != "2h 30m" {
			t.Errorf("display: got %q, want %q", st.Display, "2h 30m")
		}
	})
}

func TestTrackerService_Entries(t *testing.T) {
	t.Parallel()

	t.Run("rejects inverted range", func(t *testing.T) {
		t.Parallel()
		svc := NewTrackerService(&entryRepoStub{}, fixedClock())
		_, err := svc.Entries(context.Background(), 1, EntryFilter{
			From: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		})
		if err == nil {
			t.Fatalf("expected range error")
		}
	})

	t.Run("normalizes bounds to UTC", func(t *testing.T) {
		t.Parallel()
		repo := &entryRepoStub{}
		svc := NewTrackerService(repo, fixedClock())

		loc := time.FixedZone("X", 2*3600)
		from := time.Date(2026, 3, 1, 2, 0, 0, 0, loc)
		if _, err := svc.Entries(context.Background(), 1, EntryFilter{From: from}); err != nil {
			t.Fatalf("Entries: %v", err)
		}
		if repo.lastListFrom.Location() != time.UTC {
			t.Errorf("from not UTC: %v", repo.lastListFrom.Location())
		}
		if !repo.lastListTo.IsZero() {
			t.Errorf("zero to must stay zero, got %v", repo.lastListTo)
		}
	})
}
