package models

// DashboardSummary aggregates a user's tracked hours over the calendar
// ranges the dashboard shows.
type DashboardSummary struct {
	TodayHours   float64        `json:"today_total"`
	WeekHours    float64        `json:"week_total"`
	MonthHours   float64        `json:"month_total"`
	QuarterHours float64        `json:"quarter_total"`
	YearHours    float64        `json:"year_total"`
	Projects     []ProjectSlice `json:"project_breakdown"`
	Days         []DayTotal     `json:"daily_breakdown"`
}

// ProjectSlice is one row of the per-project monthly breakdown.
type ProjectSlice struct {
	Project string  `json:"project_name"`
	Task    string  `json:"task_name,omitempty"`
	Hours   float64 `json:"hours"`
	Percent float64 `json:"percentage"`
}

// DayTotal is one day of the current week's breakdown.
type DayTotal struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Hours float64 `json:"hours"`
}
