package stats

import (
	"context"
	"sort"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=stats_test

const (
	chartDays      = 7
	rollupMonths   = 6
	recentWorkouts = 5
)

type workoutsRepo interface {
	List(ctx context.Context, params workouts.ListParams) (_ []workouts.Workout, total int, err error)
	ListRange(ctx context.Context, params workouts.RangeParams) ([]workouts.Workout, error)
	Totals(ctx context.Context, userID string, from, to *time.Time) (workouts.Totals, error)
}

// Analyzer computes a single user's statistics. Every read is scoped by the user id it is given.
type Analyzer struct {
	repo    workoutsRepo
	loc     *time.Location
	nowFunc func() time.Time
}

func NewAnalyzer(repo workoutsRepo, loc *time.Location, nowFunc func() time.Time) *Analyzer {
	if loc == nil {
		loc = time.UTC
	}
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Analyzer{
		repo:    repo,
		loc:     loc,
		nowFunc: nowFunc,
	}
}

// Summary returns all-time totals and the rolling last 7 days compared with the 7 days before.
func (a *Analyzer) Summary(ctx context.Context, userID string) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := a.nowFunc()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := weekAgo.Add(-7 * 24 * time.Hour)

	total, err := a.repo.Totals(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	thisWeek, err := a.repo.Totals(ctx, userID, &weekAgo, nil)
	if err != nil {
		return nil, err
	}
	previousWeek, err := a.repo.Totals(ctx, userID, &twoWeeksAgo, &weekAgo)
	if err != nil {
		return nil, err
	}

	total.Calories = pkg.Round2(total.Calories)
	total.Distance = pkg.Round2(total.Distance)

	return &Summary{
		Total: total,
		ThisWeek: WeekTotals{
			Workouts: thisWeek.Workouts,
			Calories: pkg.Round2(thisWeek.Calories),
			Duration: thisWeek.Duration,
		},
		Changes: Changes{
			Workouts: PercentChange(float64(thisWeek.Workouts), float64(previousWeek.Workouts)),
			Calories: PercentChange(thisWeek.Calories, previousWeek.Calories),
			Duration: PercentChange(float64(thisWeek.Duration), float64(previousWeek.Duration)),
		},
	}, nil
}

func (a *Analyzer) DailyChart(ctx context.Context, userID string) (_ []DayStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.chart")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := a.nowFunc().In(a.loc)
	from := startOfDay(now).AddDate(0, 0, -(chartDays - 1))
	list, err := a.repo.ListRange(ctx, workouts.RangeParams{UserID: userID, From: &from})
	if err != nil {
		return nil, err
	}

	return DailyChart(list, now, a.loc), nil
}

func (a *Analyzer) MonthlyRollup(ctx context.Context, userID string) (_ []MonthStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.monthly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := a.nowFunc().In(a.loc)
	from := startOfMonth(now).AddDate(0, -(rollupMonths - 1), 0)
	list, err := a.repo.ListRange(ctx, workouts.RangeParams{UserID: userID, From: &from})
	if err != nil {
		return nil, err
	}

	return MonthlyRollup(list, now, a.loc), nil
}

func (a *Analyzer) BreakdownByType(ctx context.Context, userID string) (_ []TypeStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.breakdown")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	list, err := a.repo.ListRange(ctx, workouts.RangeParams{UserID: userID})
	if err != nil {
		return nil, err
	}

	return BreakdownByType(list), nil
}

func (a *Analyzer) BreakdownByIntensity(ctx context.Context, userID string) (_ []IntensityStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.intensity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	list, err := a.repo.ListRange(ctx, workouts.RangeParams{UserID: userID})
	if err != nil {
		return nil, err
	}

	return BreakdownByIntensity(list), nil
}

// Recent returns the user's latest workouts by exercise date.
func (a *Analyzer) Recent(ctx context.Context, userID string) (_ []workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	list, _, err := a.repo.List(ctx, workouts.ListParams{
		UserID:    userID,
		SortBy:    "exerciseDate",
		SortOrder: "desc",
		Page:      1,
		Limit:     recentWorkouts,
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []workouts.Workout{}
	}

	return list, nil
}

// PercentChange is (current-previous)/previous*100 rounded half up. With nothing before, any
// activity counts as 100 and none as 0.
func PercentChange(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(pkg.RoundHalfUp((current - previous) / previous * 100))
}

// DailyChart buckets workouts into the last 7 calendar days in loc, oldest first.
// Workouts outside those days are ignored.
func DailyChart(list []workouts.Workout, now time.Time, loc *time.Location) []DayStats {
	today := startOfDay(now.In(loc))
	days := make([]DayStats, chartDays)
	index := make(map[string]int, chartDays)
	calories := make([]float64, chartDays)
	for i := 0; i < chartDays; i++ {
		day := today.AddDate(0, 0, i-(chartDays-1))
		date := day.Format(time.DateOnly)
		days[i] = DayStats{
			Date:  date,
			Label: thaiWeekdays[day.Weekday()],
		}
		index[date] = i
	}

	for _, w := range list {
		i, ok := index[w.ExerciseDate.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		days[i].Workouts++
		calories[i] += w.CaloriesBurned
	}
	for i := range days {
		days[i].Calories = pkg.RoundHalfUp(calories[i])
	}

	return days
}

// MonthlyRollup sums workouts per calendar month in loc over the last 6 months, oldest first.
func MonthlyRollup(list []workouts.Workout, now time.Time, loc *time.Location) []MonthStats {
	thisMonth := startOfMonth(now.In(loc))
	months := make([]MonthStats, rollupMonths)
	totals := make([]workouts.Totals, rollupMonths)
	index := make(map[string]int, rollupMonths)
	for i := 0; i < rollupMonths; i++ {
		month := thisMonth.AddDate(0, i-(rollupMonths-1), 0)
		key := month.Format("2006-01")
		months[i] = MonthStats{
			Month: key,
			Label: thaiMonths[month.Month()-1],
		}
		index[key] = i
	}

	for _, w := range list {
		if i, ok := index[w.ExerciseDate.In(loc).Format("2006-01")]; ok {
			totals[i].Add(w)
		}
	}
	for i := range months {
		months[i].Workouts = totals[i].Workouts
		months[i].Calories = pkg.Round2(totals[i].Calories)
		months[i].Duration = totals[i].Duration
		months[i].Distance = pkg.Round2(totals[i].Distance)
	}

	return months
}

// BreakdownByType groups workouts by exercise type, most frequent first, ties by type name.
func BreakdownByType(list []workouts.Workout) []TypeStats {
	byType := make(map[string]*TypeStats)
	for _, w := range list {
		s, ok := byType[w.ExerciseType]
		if !ok {
			s = &TypeStats{ExerciseType: w.ExerciseType}
			byType[w.ExerciseType] = s
		}
		s.Count++
		s.Calories += w.CaloriesBurned
		s.Duration += w.DurationMinutes
	}

	breakdown := make([]TypeStats, 0, len(byType))
	for _, s := range byType {
		s.Calories = pkg.Round2(s.Calories)
		breakdown = append(breakdown, *s)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].ExerciseType < breakdown[j].ExerciseType
	})

	return breakdown
}

// BreakdownByIntensity groups workouts by intensity, in low, medium, high order.
// Levels without workouts are left out.
func BreakdownByIntensity(list []workouts.Workout) []IntensityStats {
	byIntensity := make(map[workouts.Intensity]*IntensityStats)
	for _, w := range list {
		s, ok := byIntensity[w.Intensity]
		if !ok {
			s = &IntensityStats{Intensity: w.Intensity}
			byIntensity[w.Intensity] = s
		}
		s.Count++
		s.Calories += w.CaloriesBurned
		s.Duration += w.DurationMinutes
	}

	breakdown := make([]IntensityStats, 0, len(byIntensity))
	for _, intensity := range workouts.Intensities {
		if s, ok := byIntensity[intensity]; ok {
			s.Calories = pkg.Round2(s.Calories)
			breakdown = append(breakdown, *s)
		}
	}

	return breakdown
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
