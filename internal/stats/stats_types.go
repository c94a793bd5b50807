package stats

import (
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
)

type WeekTotals struct {
	Workouts int     `json:"workouts"`
	Calories float64 `json:"calories"`
	Duration int     `json:"duration"`
}

// Changes are whole-number percent changes of the last 7 days against the 7 days before.
type Changes struct {
	Workouts int `json:"workouts"`
	Calories int `json:"calories"`
	Duration int `json:"duration"`
}

type Summary struct {
	Total    workouts.Totals `json:"total"`
	ThisWeek WeekTotals      `json:"thisWeek"`
	Changes  Changes         `json:"changes"`
}

type DayStats struct {
	Date     string  `json:"date"`
	Label    string  `json:"label"`
	Calories float64 `json:"calories"`
	Workouts int     `json:"workouts"`
}

type MonthStats struct {
	Month    string  `json:"month"`
	Label    string  `json:"label"`
	Workouts int     `json:"workouts"`
	Calories float64 `json:"calories"`
	Duration int     `json:"duration"`
	Distance float64 `json:"distance"`
}

type TypeStats struct {
	ExerciseType string  `json:"exerciseType"`
	Count        int     `json:"count"`
	Calories     float64 `json:"calories"`
	Duration     int     `json:"duration"`
}

type IntensityStats struct {
	Intensity workouts.Intensity `json:"intensity"`
	Count     int                `json:"count"`
	Calories  float64            `json:"calories"`
	Duration  int                `json:"duration"`
}

var thaiWeekdays = [...]string{"อา.", "จ.", "อ.", "พ.", "พฤ.", "ศ.", "ส."}

var thaiMonths = [...]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}
