package models

import (
	"time"

	"github.com/julianstephens/habitify/internal/constants"
)

// Habit is a user's tracked behavior together with its current state
type Habit struct {
	ID              string                `json:"id"`
	UserID          int64                 `json:"user_id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Frequency       constants.Frequency   `json:"frequency"`
	ColorCode       string                `json:"color_code"`
	IconName        string                `json:"icon_name"`
	ReminderTime    string                `json:"reminder_time"` // HH:MM:SS
	ReminderEnabled bool                  `json:"reminder_enabled"`
	Status          constants.HabitStatus `json:"status"`
	CurrentStreak   int                   `json:"current_streak"`
	LongestStreak   int                   `json:"longest_streak"`
	StartDate       string                `json:"start_date"` // YYYY-MM-DD format
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// IsArchived reports whether the habit is retired from active tracking
func (h Habit) IsArchived() bool {
	return h.Status == constants.StatusArchived
}

// Complete applies a completion to the streak counters
func (h *Habit) Complete() {
	h.CurrentStreak++
	if h.CurrentStreak > h.LongestStreak {
		h.LongestStreak = h.CurrentStreak
	}
	h.Status = constants.StatusCompleted
}

// Fail resets the current streak. The longest streak is a historical best and is kept.
func (h *Habit) Fail() {
	h.CurrentStreak = 0
	h.Status = constants.StatusFailed
}

// DailyLog is the outcome record for one habit on one calendar day
type DailyLog struct {
	ID          int64               `json:"id"`
	HabitID     string              `json:"habit_id"`
	UserID      int64               `json:"user_id"`
	LogDate     string              `json:"log_date"` // YYYY-MM-DD format
	Status      constants.LogStatus `json:"status"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// HabitView is a habit joined with the fields of its log for a given day
type HabitView struct {
	Habit
	TodayStatus      constants.LogStatus `json:"today_status"`
	TodayCompletedAt *time.Time          `json:"today_completed_at"`
	CreatedAtPretty  string              `json:"created_at_formatted"`
}

// NewHabitView joins a habit with its log for the day. A missing log reads as todo.
func NewHabitView(h Habit, log *DailyLog) HabitView {
	v := HabitView{
		Habit:           h,
		TodayStatus:     constants.LogTodo,
		CreatedAtPretty: h.CreatedAt.Format("Jan 02, 2006"),
	}
	if log != nil {
		v.TodayStatus = log.Status
		v.TodayCompletedAt = log.CompletedAt
	}
	return v
}
