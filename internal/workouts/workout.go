package workouts

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Intensities in ascending order.
var Intensities = []Intensity{IntensityLow, IntensityMedium, IntensityHigh}

type Workout struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	ExerciseType    string    `json:"exerciseType"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  float64   `json:"caloriesBurned"`
	DistanceKm      *float64  `json:"distanceKm"`
	Intensity       Intensity `json:"intensity"`
	Notes           *string   `json:"notes"`
	ExerciseDate    time.Time `json:"exerciseDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Distance returns the distance in km, 0 when not recorded.
func (w Workout) Distance() float64 {
	if w.DistanceKm == nil {
		return 0
	}
	return *w.DistanceKm
}

// Totals are summed workout metrics: count, calories, minutes and km.
type Totals struct {
	Workouts int     `json:"workouts"`
	Calories float64 `json:"calories"`
	Duration int     `json:"duration"`
	Distance float64 `json:"distance"`
}

// Add counts one more workout into the totals.
func (t *Totals) Add(w Workout) {
	t.Workouts++
	t.Calories += w.CaloriesBurned
	t.Duration += w.DurationMinutes
	t.Distance += w.Distance()
}

// NormalizeExerciseType trims and NFC-normalizes a type, so composed and decomposed Thai
// input compare equal.
func NormalizeExerciseType(exerciseType string) string {
	return norm.NFC.String(strings.TrimSpace(exerciseType))
}
