package settings

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type Notifications struct {
	Email         bool `json:"email"`
	Push          bool `json:"push"`
	GoalReminders bool `json:"goalReminders"`
	WeeklyReport  bool `json:"weeklyReport"`
}

type Preferences struct {
	Language           string `json:"language"`
	WeekStartsOn       string `json:"weekStartsOn"`
	DefaultWorkoutView string `json:"defaultWorkoutView"`
}

type Settings struct {
	UserID        string        `json:"userId"`
	Theme         Theme         `json:"theme"`
	Notifications Notifications `json:"notifications"`
	Preferences   Preferences   `json:"preferences"`
}

// Defaults are the settings every user currently has. Nothing is persisted.
func Defaults(userID string) Settings {
	return Settings{
		UserID: userID,
		Theme:  ThemeLight,
		Notifications: Notifications{
			Email:         true,
			Push:          false,
			GoalReminders: true,
			WeeklyReport:  true,
		},
		Preferences: Preferences{
			Language:           "th",
			WeekStartsOn:       "monday",
			DefaultWorkoutView: "list",
		},
	}
}

// Update holds only the fields a client sent; absent fields stay nil and are omitted when echoed.
type Update struct {
	Theme         *Theme               `json:"theme,omitempty" validate:"omitnil,oneof=light dark system"`
	Notifications *NotificationsUpdate `json:"notifications,omitempty"`
	Preferences   *PreferencesUpdate   `json:"preferences,omitempty"`
}

type NotificationsUpdate struct {
	Email         *bool `json:"email,omitempty"`
	Push          *bool `json:"push,omitempty"`
	GoalReminders *bool `json:"goalReminders,omitempty"`
	WeeklyReport  *bool `json:"weeklyReport,omitempty"`
}

type PreferencesUpdate struct {
	Language           *string `json:"language,omitempty" validate:"omitnil,oneof=th en"`
	WeekStartsOn       *string `json:"weekStartsOn,omitempty" validate:"omitnil,oneof=sunday monday"`
	DefaultWorkoutView *string `json:"defaultWorkoutView,omitempty" validate:"omitnil,oneof=list grid"`
}
