package goals

import (
	"context"
	"errors"
	"fmt"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGoalNotFound = errors.New("goal not found")

const goalColumns = `id, user_id, title, description, target_type, target_value::float8, period,
	start_date, end_date, status, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.Status == "" {
		goal.Status = StatusActive
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO goal (id, user_id, title, description, target_type, target_value, period, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+goalColumns+`;`,
		goal.ID, goal.UserID, goal.Title, goal.Description, goal.TargetType, goal.TargetValue,
		goal.Period, goal.StartDate, goal.EndDate, goal.Status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals, err := rows2goals(rows)
	if err != nil {
		return nil, err
	}
	if len(goals) != 1 {
		return nil, fmt.Errorf("unexpected number of added goals: %d", len(goals))
	}

	return &goals[0], nil
}

// List returns all of a user's goals, the ones ending first first.
func (r *Repo) List(ctx context.Context, userID string) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+goalColumns+` FROM goal WHERE user_id = $1 ORDER BY end_date ASC, id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2goals(rows)
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM goal WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func rows2goals(rows pgx.Rows) ([]Goal, error) {
	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetType, &g.TargetValue, &g.Period,
			&g.StartDate, &g.EndDate, &g.Status, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return goals, nil
}
