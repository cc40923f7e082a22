package models

// CategoryCounts is the number of habits per status bucket
type CategoryCounts struct {
	Todo      int `json:"todo"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// OverallStats summarises all active habits of a user
type OverallStats struct {
	TotalHabits    int     `json:"total_habits"`
	TodoCount      int     `json:"todo_count"`
	CompletedCount int     `json:"completed_count"`
	FailedCount    int     `json:"failed_count"`
	AvgStreak      float64 `json:"avg_streak"`
	BestStreak     int     `json:"best_streak"`
	ActiveDays     int     `json:"active_days"`
}

// DailyStats counts log outcomes on one date
type DailyStats struct {
	LogDate        string `json:"log_date"`
	CompletedCount int    `json:"completed_count"`
	FailedCount    int    `json:"failed_count"`
	TodoCount      int    `json:"todo_count"`
	TotalHabits    int    `json:"total_habits"`
}

// GroupedHabits is the habit list split by status bucket
type GroupedHabits struct {
	Todo      []HabitView `json:"todo"`
	Completed []HabitView `json:"completed"`
	Failed    []HabitView `json:"failed"`
}

// OverviewStats is the statistics block shown next to the habit list
type OverviewStats struct {
	CategoryCounts CategoryCounts `json:"category_counts"`
	OverallStats   OverallStats   `json:"overall_stats"`
	DailyStats     []DailyStats   `json:"daily_stats"`
}

// HabitsOverview is the payload of the grouped habit listing
type HabitsOverview struct {
	Habits     GroupedHabits `json:"habits"`
	Statistics OverviewStats `json:"statistics"`
	Today      string        `json:"today"`
	UserID     int64         `json:"user_id"`
}

// TodayStats counts today's log outcomes
type TodayStats struct {
	TodayCompleted    int `json:"today_completed"`
	TodayFailed       int `json:"today_failed"`
	TodayTodo         int `json:"today_todo"`
	TotalActiveHabits int `json:"total_active_habits"`
}

// StreakStats summarises streak counters across active habits
type StreakStats struct {
	TotalHabits      int     `json:"total_habits"`
	AvgCurrentStreak float64 `json:"avg_current_streak"`
	MaxCurrentStreak int     `json:"max_current_streak"`
	MaxLongestStreak int     `json:"max_longest_streak"`
	WeekPlusStreaks  int     `json:"week_plus_streaks"`
	MonthPlusStreaks int     `json:"month_plus_streaks"`
}

// CompletionStats is the completion rate of a single habit over all tracked days
type CompletionStats struct {
	HabitID          string  `json:"habit_id"`
	Title            string  `json:"title"`
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	TotalCompleted   int     `json:"total_completed"`
	TotalDaysTracked int     `json:"total_days_tracked"`
	CompletionRate   float64 `json:"completion_rate"`
}

// StatsSummary is the headline numbers of the statistics screen
type StatsSummary struct {
	TotalHabits    int     `json:"total_habits"`
	AvgStreak      float64 `json:"avg_streak"`
	BestStreak     int     `json:"best_streak"`
	CompletionRate float64 `json:"completion_rate"`
}

// Statistics is the detailed statistics payload
type Statistics struct {
	TodayStats      TodayStats        `json:"today_stats"`
	WeeklyStats     []DailyStats      `json:"weekly_stats"`
	StreakStats     StreakStats       `json:"streak_stats"`
	CompletionStats []CompletionStats `json:"completion_stats"`
	Summary         StatsSummary      `json:"summary"`
}
