package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

const workoutColumns = `id, user_id, exercise_type, duration_minutes, calories_burned::float8, distance_km::float8,
	intensity, notes, exercise_date, created_at, updated_at`

// sortColumns maps the accepted sortBy values to columns. Only these ever reach the SQL text.
var sortColumns = map[string]string{
	"exerciseDate":    "exercise_date",
	"exerciseType":    "exercise_type",
	"durationMinutes": "duration_minutes",
	"caloriesBurned":  "calories_burned",
	"distanceKm":      "distance_km",
	"intensity":       "intensity",
	"createdAt":       "created_at",
}

type ListParams struct {
	UserID       string
	ExerciseType string
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// RangeParams selects a user's workouts with exerciseDate in [From, To]. Nil bounds are open.
type RangeParams struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout
				(id, user_id, exercise_type, duration_minutes, calories_burned, distance_km, intensity, notes, exercise_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+workoutColumns+`;`,
		workout.ID, workout.UserID, workout.ExerciseType, workout.DurationMinutes, workout.CaloriesBurned,
		workout.DistanceKm, workout.Intensity, workout.Notes, workout.ExerciseDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	added, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(added) != 1 {
		return nil, errors.New("unexpected error [no rows returned]")
	}

	return &added[0], nil
}

// Update overwrites all editable fields of a workout owned by workout.UserID.
func (r *Repo) Update(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	rows, err := r.db.Query(
		ctx,
		`UPDATE workout SET
				exercise_type = $3, duration_minutes = $4, calories_burned = $5, distance_km = $6,
				intensity = $7, notes = $8, exercise_date = $9, updated_at = now()
			WHERE id = $1 AND user_id = $2
			RETURNING `+workoutColumns+`;`,
		workout.ID, workout.UserID, workout.ExerciseType, workout.DurationMinutes, workout.CaloriesBurned,
		workout.DistanceKm, workout.Intensity, workout.Notes, workout.ExerciseDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	updated, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(updated) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &updated[0], nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+` FROM workout WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// List returns one page of a user's workouts and the total count matching the filter.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("exercise_type", params.ExerciseType),
		attribute.String("sort_by", params.SortBy),
		attribute.String("sort_order", params.SortOrder),
		attribute.Int("page", params.Page),
		attribute.Int("limit", params.Limit),
	)

	sortColumn, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("invalid sort by: %s", params.SortBy)
	}
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	if params.Page < 1 || params.Limit < 1 {
		return nil, 0, fmt.Errorf("invalid page [%d] or limit [%d]", params.Page, params.Limit)
	}

	total, err = r.Count(ctx, params.UserID, params.ExerciseType)
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		fmt.Sprintf(`
			SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1
				AND ($2::text = '' OR exercise_type = $2)
			ORDER BY %s %s NULLS LAST, id
			LIMIT $3 OFFSET $4;`, sortColumn, sortOrder),
		params.UserID, params.ExerciseType, params.Limit, (params.Page-1)*params.Limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, 0, err
	}

	return workouts, total, nil
}

func (r *Repo) Count(ctx context.Context, userID, exerciseType string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workout WHERE user_id = $1 AND ($2::text = '' OR exercise_type = $2);`,
		userID, exerciseType,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListRange returns a user's workouts in the given window, oldest first.
func (r *Repo) ListRange(ctx context.Context, params RangeParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listrange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+workoutColumns+`
			FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR exercise_date >= $2)
				AND ($3::timestamptz IS NULL OR exercise_date <= $3)
			ORDER BY exercise_date ASC, id;`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2workouts(rows)
}

// Totals sums a user's workouts with exerciseDate in [from, to). Nil bounds are open.
func (r *Repo) Totals(ctx context.Context, userID string, from, to *time.Time) (_ Totals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.totals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var totals Totals
	if err := r.db.QueryRow(
		ctx,
		`
			SELECT
				COUNT(*),
				COALESCE(SUM(calories_burned), 0)::float8,
				COALESCE(SUM(duration_minutes), 0)::bigint,
				COALESCE(SUM(distance_km), 0)::float8
			FROM workout
			WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR exercise_date >= $2)
				AND ($3::timestamptz IS NULL OR exercise_date < $3);`,
		userID, from, to,
	).Scan(&totals.Workouts, &totals.Calories, &totals.Duration, &totals.Distance); err != nil {
		return Totals{}, err
	}

	return totals, nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.ExerciseType, &w.DurationMinutes, &w.CaloriesBurned, &w.DistanceKm,
			&w.Intensity, &w.Notes, &w.ExerciseDate, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}
