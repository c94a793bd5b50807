//go:build integration_test || all_tests

package integration_testing

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/export"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/goals"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/stats"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
)

func (s *IntegrationTestSuite) addWorkout(token string, calories float64, minutes int) *workouts.Workout {
	resp, body := s.doRequest(http.MethodPost, "/api/workouts", token, map[string]any{
		"exerciseType":    "วิ่ง",
		"durationMinutes": minutes,
		"caloriesBurned":  calories,
		"distanceKm":      5.5,
		"intensity":       "medium",
		"notes":           "เช้า, สวนลุม",
		"exerciseDate":    time.Now().UTC().Format(time.RFC3339),
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var created workouts.WorkoutResponse
	s.decode(body, &created)
	s.Require().NotNil(created.Workout)
	return created.Workout
}

func (s *IntegrationTestSuite) TestRegisterLoginWorkoutSummary() {
	alice := newTestUser()
	s.registerAndLogin(alice)

	w := s.addWorkout(alice.Token, 200, 30)
	s.Equal(alice.ID, w.UserID)
	s.Equal(workouts.Intensity("medium"), w.Intensity)

	resp, body := s.doRequest(http.MethodGet, "/api/stats/summary", alice.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var summary stats.Summary
	s.decode(body, &summary)
	s.Equal(1, summary.Total.Workouts)
	s.Equal(200.0, summary.Total.Calories)
	s.Equal(30, summary.Total.Duration)
	s.Equal(1, summary.ThisWeek.Workouts)

	resp, body = s.doRequest(http.MethodGet, "/api/auth/me", alice.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Contains(string(body), strings.ToLower(alice.Email))
}

func (s *IntegrationTestSuite) TestUserIsolation() {
	alice := newTestUser()
	bob := newTestUser()
	s.registerAndLogin(alice)
	s.registerAndLogin(bob)

	w := s.addWorkout(alice.Token, 150, 20)

	resp, body := s.doRequest(http.MethodGet, "/api/workouts/"+w.ID, bob.Token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode, string(body))

	resp, body = s.doRequest(http.MethodDelete, "/api/workouts/"+w.ID, bob.Token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode, string(body))

	resp, body = s.doRequest(http.MethodGet, "/api/workouts", bob.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var list workouts.ListResponse
	s.decode(body, &list)
	s.Empty(list.Workouts)
	s.Equal(0, list.Pagination.Total)

	// still there for the owner
	resp, _ = s.doRequest(http.MethodGet, "/api/workouts/"+w.ID, alice.Token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestGoalProgress() {
	u := newTestUser()
	s.registerAndLogin(u)

	resp, body := s.doRequest(http.MethodPost, "/api/goals", u.Token, map[string]any{
		"title":       "เผาผลาญ 1000 แคลอรี่",
		"targetType":  "calories",
		"targetValue": 1000,
		"period":      "weekly",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	s.addWorkout(u.Token, 250, 30)
	s.addWorkout(u.Token, 250, 30)

	resp, body = s.doRequest(http.MethodGet, "/api/goals", u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var list goals.GoalsResponse
	s.decode(body, &list)
	s.Require().Len(list.Goals, 1)
	s.Equal(500.0, list.Goals[0].CurrentValue)
	s.Equal(50.0, list.Goals[0].Progress)
	s.Equal(goals.StatusActive, list.Goals[0].Status)
}

func (s *IntegrationTestSuite) TestRegisterDuplicateEmail() {
	u := newTestUser()
	s.registerAndLogin(u)

	resp, body := s.doRequest(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": u.Username + "x",
		"email":    strings.ToUpper(u.Email),
		"password": u.Password,
	})
	s.Equal(http.StatusConflict, resp.StatusCode, string(body))

	// login works regardless of the email case
	resp, body = s.doRequest(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    strings.ToUpper(u.Email),
		"password": u.Password,
	})
	s.Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, _ = s.doRequest(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    u.Email,
		"password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestDeleteAccountCascades() {
	u := newTestUser()
	s.registerAndLogin(u)

	s.addWorkout(u.Token, 100, 10)
	resp, body := s.doRequest(http.MethodPost, "/api/goals", u.Token, map[string]any{
		"title":       "วิ่งทุกวัน",
		"targetType":  "workouts",
		"targetValue": 1,
		"period":      "daily",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	s.Equal(1, s.countRows("workout", u.ID))
	s.Equal(1, s.countRows("goal", u.ID))

	resp, _ = s.doRequest(http.MethodPost, "/api/profile/delete", u.Token, map[string]string{
		"password":    "not-my-password",
		"confirmText": "DELETE",
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp, body = s.doRequest(http.MethodPost, "/api/profile/delete", u.Token, map[string]string{
		"password":    u.Password,
		"confirmText": "DELETE",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	s.Equal(0, s.countRows("workout", u.ID))
	s.Equal(0, s.countRows("goal", u.ID))

	// the token outlives the account
	resp, _ = s.doRequest(http.MethodGet, "/api/auth/me", u.Token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestExport() {
	u := newTestUser()
	s.registerAndLogin(u)
	s.addWorkout(u.Token, 200, 30)

	resp, body := s.doRequest(http.MethodPost, "/api/goals", u.Token, map[string]any{
		"title":       "เผาผลาญ 100 แคลอรี่",
		"targetType":  "calories",
		"targetValue": 100,
		"period":      "daily",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	var created goals.GoalResponse
	s.decode(body, &created)
	s.Equal(goals.StatusCompleted, created.Goal.Status)

	resp, body = s.doRequest(http.MethodGet, "/api/export?format=csv", u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Contains(resp.Header.Get("Content-Disposition"), export.CSVFilename)

	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal("วิ่ง", records[1][1])
	s.Equal("30", records[1][2])
	s.Equal("200", records[1][3])
	s.Equal("5.5", records[1][4])
	s.Equal("เช้า, สวนลุม", records[1][6])

	resp, body = s.doRequest(http.MethodGet, "/api/export", u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var data export.Data
	s.decode(body, &data)
	s.Equal(1, data.TotalWorkouts)
	s.Equal(1, data.TotalGoals)
	s.Equal(u.ID, data.User.ID)
	s.Require().Len(data.Goals, 1)
	s.Equal(200.0, data.Goals[0].CurrentValue)
	s.Equal(100.0, data.Goals[0].Progress)
	s.Equal(goals.StatusCompleted, data.Goals[0].Status)
}
