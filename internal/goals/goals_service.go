package goals

import (
	"context"
	"sort"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/telemetry/tracing"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=goals_service_mocks_test.go -package=goals_test

type goalsLister interface {
	List(ctx context.Context, userID string) ([]Goal, error)
}

type workoutTotals interface {
	Totals(ctx context.Context, userID string, from, to *time.Time) (workouts.Totals, error)
}

// Service computes progress and status of stored goals. Every reader of goals goes through it,
// so the api and the export agree on what a goal looks like.
type Service struct {
	repo    goalsLister
	totals  workoutTotals
	nowFunc func() time.Time
}

func NewService(repo goalsLister, totals workoutTotals, nowFunc func() time.Time) *Service {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Service{
		repo:    repo,
		totals:  totals,
		nowFunc: nowFunc,
	}
}

// Evaluate fills in progress and status of a single goal as of now.
func (s *Service) Evaluate(ctx context.Context, goal *Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goals.service.evaluate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goal.ID))

	return s.evaluate(ctx, goal.UserID, goal, s.nowFunc())
}

func (s *Service) evaluate(ctx context.Context, userID string, goal *Goal, now time.Time) error {
	from := goal.StartDate
	to := WindowEnd(goal.EndDate)
	totals, err := s.totals.Totals(ctx, userID, &from, &to)
	if err != nil {
		return err
	}
	goal.Evaluate(totals, now)
	return nil
}

// EvaluatedGoals returns the user's goals with progress and status computed as of now,
// ordered by status and then by end date.
func (s *Service) EvaluatedGoals(ctx context.Context, userID string) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "goals.service.evaluated")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	goals, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	for i := range goals {
		if err := s.evaluate(ctx, userID, &goals[i], now); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].Status != goals[j].Status {
			return goals[i].Status < goals[j].Status
		}
		return goals[i].EndDate.Before(goals[j].EndDate)
	})

	return goals, nil
}
