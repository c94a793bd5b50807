package users

import (
	"strings"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name"`
	AvatarURL    *string   `json:"avatarUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// Profile is a user with all-time workout totals.
type Profile struct {
	User
	TotalWorkouts int     `json:"totalWorkouts"`
	TotalCalories float64 `json:"totalCalories"`
	TotalDuration int     `json:"totalDuration"`
	TotalDistance float64 `json:"totalDistance"`
}

func NewProfile(user User, totals workouts.Totals) Profile {
	return Profile{
		User:          user,
		TotalWorkouts: totals.Workouts,
		TotalCalories: totals.Calories,
		TotalDuration: totals.Duration,
		TotalDistance: totals.Distance,
	}
}

// ProfileUpdate holds the fields of a partial profile update. Nil Name and Email are left
// unchanged, AvatarURL is written only when SetAvatarURL is true (nil clears it).
type ProfileUpdate struct {
	Name         *string
	Email        *string
	SetAvatarURL bool
	AvatarURL    *string
}

// NormalizeEmail trims and case-folds an email, the form it is stored and looked up in.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// NormalizeUsername trims a username and brings it to NFC. Its casing is kept.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}
