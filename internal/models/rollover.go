package models

// RolloverResult holds the diagnostic counts of one rollover run
type RolloverResult struct {
	PreviousDate    string `json:"previous_date"`
	ResetDate       string `json:"reset_date"`
	YesterdayFailed int64  `json:"yesterday_failed"`
	StreaksReset    int64  `json:"streaks_reset"`
	HabitsReopened  int64  `json:"habits_reopened"`
	NewTodosCreated int64  `json:"new_todos_created"`
}

// Changed reports whether the run mutated anything
func (r RolloverResult) Changed() bool {
	return r.YesterdayFailed+r.StreaksReset+r.HabitsReopened+r.NewTodosCreated > 0
}
