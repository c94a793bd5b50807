package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/goals"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/users"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=export_mocks_test.go -package=export_test

const (
	FormatJSON = "json"
	FormatCSV  = "csv"

	JSONFilename = "fitness-data.json"
	CSVFilename  = "fitness-data.csv"

	// buddhistEraOffset converts a Gregorian year to the Thai solar calendar year.
	buddhistEraOffset = 543
)

var csvHeader = []string{
	"วันที่",
	"ประเภท",
	"ระยะเวลา(นาที)",
	"แคลอรี่",
	"ระยะทาง(km)",
	"ความหนัก",
	"หมายเหตุ",
}

type usersRepo interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type workoutsRepo interface {
	ListRange(ctx context.Context, params workouts.RangeParams) ([]workouts.Workout, error)
}

// goalsSource hands out goals with progress and status already computed.
type goalsSource interface {
	EvaluatedGoals(ctx context.Context, userID string) ([]goals.Goal, error)
}

type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Data is everything stored for one user.
type Data struct {
	User          UserInfo           `json:"user"`
	Workouts      []workouts.Workout `json:"workouts"`
	Goals         []goals.Goal       `json:"goals"`
	ExportedAt    time.Time          `json:"exportedAt"`
	TotalWorkouts int                `json:"totalWorkouts"`
	TotalGoals    int                `json:"totalGoals"`
}

type Exporter struct {
	users    usersRepo
	workouts workoutsRepo
	goals    goalsSource
	nowFunc  func() time.Time
}

func NewExporter(usersRepo usersRepo, workoutsRepo workoutsRepo, goalsSource goalsSource, nowFunc func() time.Time) *Exporter {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Exporter{
		users:    usersRepo,
		workouts: workoutsRepo,
		goals:    goalsSource,
		nowFunc:  nowFunc,
	}
}

// Collect gathers a user's data. Workouts come newest exercise first, goals newest first.
func (e *Exporter) Collect(ctx context.Context, userID string) (_ *Data, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "export.collect")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	workoutsList, err := e.workouts.ListRange(ctx, workouts.RangeParams{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if workoutsList == nil {
		workoutsList = []workouts.Workout{}
	}
	sort.SliceStable(workoutsList, func(i, j int) bool {
		return workoutsList[i].ExerciseDate.After(workoutsList[j].ExerciseDate)
	})

	goalsList, err := e.goals.EvaluatedGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if goalsList == nil {
		goalsList = []goals.Goal{}
	}
	sort.SliceStable(goalsList, func(i, j int) bool {
		return goalsList[i].CreatedAt.After(goalsList[j].CreatedAt)
	})

	return &Data{
		User: UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt,
		},
		Workouts:      workoutsList,
		Goals:         goalsList,
		ExportedAt:    e.nowFunc().UTC(),
		TotalWorkouts: len(workoutsList),
		TotalGoals:    len(goalsList),
	}, nil
}

// WriteCSV writes one row per workout under a Thai header row.
func WriteCSV(w io.Writer, workoutsList []workouts.Workout, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, wo := range workoutsList {
		distance := ""
		if wo.DistanceKm != nil && *wo.DistanceKm != 0 {
			distance = formatNumber(*wo.DistanceKm)
		}
		notes := ""
		if wo.Notes != nil {
			notes = *wo.Notes
		}
		if err := cw.Write([]string{
			BuddhistDate(wo.ExerciseDate, loc),
			wo.ExerciseType,
			strconv.Itoa(wo.DurationMinutes),
			formatNumber(wo.CaloriesBurned),
			distance,
			string(wo.Intensity),
			notes,
		}); err != nil {
			return err
		}
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// BuddhistDate renders t as d/m/yyyy in the Thai solar calendar, e.g. 15/1/2569.
func BuddhistDate(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year()+buddhistEraOffset)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
