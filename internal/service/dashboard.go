package service

import (
	"context"
	"math"
	"time"

	"timetrack/internal/clock"
	"timetrack/internal/models"
	"timetrack/internal/repository"
)

// DashboardService aggregates tracked hours over the calendar ranges the
// dashboard shows: today, the current week (Monday start), month, quarter
// and year, plus a per-project breakdown of the month and a per-day
// breakdown of the week.
type DashboardService struct {
	entries repository.EntryRepo
	clk     clock.Clock
}

func NewDashboardService(entries repository.EntryRepo, clk clock.Clock) *DashboardService {
	return &DashboardService{entries: entries, clk: clk}
}

func (s *DashboardService) Summary(ctx context.Context, userID int) (models.DashboardSummary, error) {
	now := s.clk.Now().UTC()
	dayStart, dayEnd := dayBounds(now)

	var out models.DashboardSummary

	var err error
	if out.TodayHours, err = s.entries.SumHours(ctx, userID, dayStart, dayEnd); err != nil {
		return models.DashboardSummary{}, err
	}

	weekStart := weekStart(now)
	if out.WeekHours, err = s.entries.SumHours(ctx, userID, weekStart, dayEnd); err != nil {
		return models.DashboardSummary{}, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if out.MonthHours, err = s.entries.SumHours(ctx, userID, monthStart, dayEnd); err != nil {
		return models.DashboardSummary{}, err
	}

	quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
	quarterStart := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	if out.QuarterHours, err = s.entries.SumHours(ctx, userID, quarterStart, dayEnd); err != nil {
		return models.DashboardSummary{}, err
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if out.YearHours, err = s.entries.SumHours(ctx, userID, yearStart, dayEnd); err != nil {
		return models.DashboardSummary{}, err
	}

	projects, err := s.entries.ProjectBreakdown(ctx, userID, monthStart, dayEnd)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	for i := range projects {
		projects[i].Percent = percentOf(projects[i].Hours, out.MonthHours)
	}
	out.Projects = projects

	if out.Days, err = s.entries.DailyBreakdown(ctx, userID, weekStart, dayEnd); err != nil {
		return models.DashboardSummary{}, err
	}

	return out, nil
}

// weekStart returns 00:00 UTC of the Monday of t's week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// percentOf returns part/total as a percentage rounded to one decimal.
func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(part/total*1000) / 10
}
