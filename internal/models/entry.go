package models

import "time"

// TimeEntry is one tracked work interval. A running entry has no StoppedAt;
// Hours is accumulated when the entry is stopped.
type TimeEntry struct {
	ID          int64      `json:"id"`
	EntryUID    string     `json:"entry_uid"`
	UserID      int        `json:"user_id"`
	Project     string     `json:"project"`
	Task        string     `json:"task,omitempty"`
	Description string     `json:"description,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`
	Hours       float64    `json:"hours"`
}

// Running reports whether the entry is still being tracked.
func (e TimeEntry) Running() bool {
	return e.StoppedAt == nil
}

// TimerState is the host-facing snapshot a display consumes: the running
// flag, the nullable start timestamp, accumulated hours, and the derived
// display text. Display is recomputed from StartedAt and the clock, never
// stored.
type TimerState struct {
	Running        bool       `json:"running"`
	EntryID        int64      `json:"entry_id,omitempty"`
	Project        string     `json:"project,omitempty"`
	Task           string     `json:"task,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	Hours          float64    `json:"hours"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	Display        string     `json:"display"`
}
