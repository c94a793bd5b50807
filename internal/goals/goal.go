package goals

import (
	"math"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"
)

type TargetType string

const (
	TargetWorkouts TargetType = "workouts"
	TargetCalories TargetType = "calories"
	TargetDuration TargetType = "duration"
	TargetDistance TargetType = "distance"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	TargetType  TargetType `json:"targetType"`
	TargetValue float64    `json:"targetValue"`
	Period      Period     `json:"period"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// computed on read
	CurrentValue float64 `json:"currentValue"`
	Progress     float64 `json:"progress"`
}

// Window returns the [start, end] a goal created at now covers: from the start of today to the
// end of today, of the same day next week, or of the same day next month.
func Window(period Period, now time.Time, loc *time.Location) (start, end time.Time) {
	now = now.In(loc)
	start = startOfDay(now)
	switch period {
	case PeriodDaily:
		end = endOfDay(now)
	case PeriodMonthly:
		end = endOfDay(addMonths(now, 1))
	default:
		end = endOfDay(now.AddDate(0, 0, 7))
	}
	return start, end
}

// WindowEnd is the exclusive bound matching an inclusive end date. Postgres keeps microseconds,
// so for an end of day this is the first instant of the next day.
func WindowEnd(end time.Time) time.Time {
	return end.Truncate(time.Microsecond).Add(time.Microsecond)
}

// MetricValue picks the totals field a target type measures.
func MetricValue(targetType TargetType, totals workouts.Totals) float64 {
	switch targetType {
	case TargetWorkouts:
		return float64(totals.Workouts)
	case TargetCalories:
		return totals.Calories
	case TargetDuration:
		return float64(totals.Duration)
	case TargetDistance:
		return totals.Distance
	default:
		return 0
	}
}

// Progress is current/target as a percentage with two decimals, capped at 100.
func Progress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, pkg.Round2(current/target*100))
}

// ComputeStatus derives the status of an active goal. Any other stored status is kept.
func ComputeStatus(stored Status, current, target float64, end, now time.Time) Status {
	if stored != "" && stored != StatusActive {
		return stored
	}
	if current >= target {
		return StatusCompleted
	}
	if now.After(end) {
		return StatusFailed
	}
	return StatusActive
}

// Evaluate fills in the computed fields from the totals of the goal's window.
func (g *Goal) Evaluate(totals workouts.Totals, now time.Time) {
	g.CurrentValue = MetricValue(g.TargetType, totals)
	g.Progress = Progress(g.CurrentValue, g.TargetValue)
	g.Status = ComputeStatus(g.Status, g.CurrentValue, g.TargetValue, g.EndDate, now)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Microsecond), t.Location())
}

// addMonths clamps the day to the length of the target month: Jan 31 + 1 month is Feb 28 (or 29).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	hh, mm, ss := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}
