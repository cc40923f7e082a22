package habits

import (
	"context"
	"math"
	"sort"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/logger"
	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/utils"
)

// GetHabits returns the user's active habits grouped by bucket, each joined
// with today's log, plus the overview statistics.
func (s *Service) GetHabits(ctx context.Context, userID int64) (models.HabitsOverview, error) {
	if userID <= 0 {
		return models.HabitsOverview{}, errors.Validation("Invalid user ID")
	}

	habits, logs, err := s.load(ctx, userID)
	if err != nil {
		return models.HabitsOverview{}, err
	}

	today := utils.Today(s.clock)
	return buildOverview(userID, habits, logs, today), nil
}

// Statistics returns the detailed statistics of the user's active habits
func (s *Service) Statistics(ctx context.Context, userID int64) (models.Statistics, error) {
	if userID <= 0 {
		return models.Statistics{}, errors.Validation("Invalid user ID")
	}

	habits, logs, err := s.load(ctx, userID)
	if err != nil {
		return models.Statistics{}, err
	}

	today := utils.Today(s.clock)
	return buildStatistics(habits, logs, today), nil
}

// load reads the active habits and the logs that belong to them
func (s *Service) load(ctx context.Context, userID int64) ([]models.Habit, []models.DailyLog, error) {
	habits, err := s.store.ListHabits(ctx, userID)
	if err != nil {
		logger.Error("Failed to list habits", "user_id", userID, "error", err)
		return nil, nil, errors.Transient("Database error", err)
	}
	logs, err := s.store.ListLogs(ctx, userID, "", "")
	if err != nil {
		logger.Error("Failed to list habit logs", "user_id", userID, "error", err)
		return nil, nil, errors.Transient("Database error", err)
	}

	active := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		active[h.ID] = struct{}{}
	}
	kept := logs[:0]
	for _, l := range logs {
		if _, ok := active[l.HabitID]; ok {
			kept = append(kept, l)
		}
	}
	return habits, kept, nil
}

func buildOverview(userID int64, habits []models.Habit, logs []models.DailyLog, today string) models.HabitsOverview {
	todayLogs := make(map[string]models.DailyLog)
	for _, l := range logs {
		if l.LogDate == today {
			todayLogs[l.HabitID] = l
		}
	}

	grouped := models.GroupedHabits{
		Todo:      []models.HabitView{},
		Completed: []models.HabitView{},
		Failed:    []models.HabitView{},
	}
	var counts models.CategoryCounts
	overall := models.OverallStats{TotalHabits: len(habits)}
	streakSum := 0

	for _, h := range habits {
		var view models.HabitView
		if l, ok := todayLogs[h.ID]; ok {
			view = models.NewHabitView(h, &l)
		} else {
			view = models.NewHabitView(h, nil)
		}

		switch h.Status {
		case constants.StatusTodo:
			grouped.Todo = append(grouped.Todo, view)
			counts.Todo++
		case constants.StatusCompleted:
			grouped.Completed = append(grouped.Completed, view)
			counts.Completed++
		case constants.StatusFailed:
			grouped.Failed = append(grouped.Failed, view)
			counts.Failed++
		}

		streakSum += h.CurrentStreak
		if h.LongestStreak > overall.BestStreak {
			overall.BestStreak = h.LongestStreak
		}
	}

	overall.TodoCount = counts.Todo
	overall.CompletedCount = counts.Completed
	overall.FailedCount = counts.Failed
	if len(habits) > 0 {
		overall.AvgStreak = round(float64(streakSum)/float64(len(habits)), 2)
	}

	completedDays := make(map[string]struct{})
	for _, l := range logs {
		if l.Status == constants.LogCompleted {
			completedDays[l.LogDate] = struct{}{}
		}
	}
	overall.ActiveDays = len(completedDays)

	daily := dailyStats(logs, today)
	if len(daily) > constants.StatsWindowDays {
		daily = daily[:constants.StatsWindowDays]
	}

	return models.HabitsOverview{
		Habits: grouped,
		Statistics: models.OverviewStats{
			CategoryCounts: counts,
			OverallStats:   overall,
			DailyStats:     daily,
		},
		Today:  today,
		UserID: userID,
	}
}

// dailyStats counts log outcomes per date over the trailing window ending
// today, newest first.
func dailyStats(logs []models.DailyLog, today string) []models.DailyStats {
	from, err := utils.AddDays(today, -constants.StatsWindowDays)
	if err != nil {
		return []models.DailyStats{}
	}

	byDate := make(map[string]*models.DailyStats)
	habitsByDate := make(map[string]map[string]struct{})
	for _, l := range logs {
		if l.LogDate < from || l.LogDate > today {
			continue
		}
		d, ok := byDate[l.LogDate]
		if !ok {
			d = &models.DailyStats{LogDate: l.LogDate}
			byDate[l.LogDate] = d
			habitsByDate[l.LogDate] = make(map[string]struct{})
		}
		switch l.Status {
		case constants.LogCompleted:
			d.CompletedCount++
		case constants.LogFailed:
			d.FailedCount++
		case constants.LogTodo:
			d.TodoCount++
		}
		habitsByDate[l.LogDate][l.HabitID] = struct{}{}
	}

	out := make([]models.DailyStats, 0, len(byDate))
	for date, d := range byDate {
		d.TotalHabits = len(habitsByDate[date])
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate > out[j].LogDate })
	return out
}

func buildStatistics(habits []models.Habit, logs []models.DailyLog, today string) models.Statistics {
	stats := models.Statistics{
		TodayStats:      models.TodayStats{TotalActiveHabits: len(habits)},
		WeeklyStats:     dailyStats(logs, today),
		CompletionStats: []models.CompletionStats{},
	}

	for _, l := range logs {
		if l.LogDate != today {
			continue
		}
		switch l.Status {
		case constants.LogCompleted:
			stats.TodayStats.TodayCompleted++
		case constants.LogFailed:
			stats.TodayStats.TodayFailed++
		case constants.LogTodo:
			stats.TodayStats.TodayTodo++
		}
	}

	type tally struct {
		completed int
		days      map[string]struct{}
	}
	perHabit := make(map[string]*tally, len(habits))
	for _, h := range habits {
		perHabit[h.ID] = &tally{days: make(map[string]struct{})}
	}
	for _, l := range logs {
		t := perHabit[l.HabitID]
		if t == nil {
			continue
		}
		t.days[l.LogDate] = struct{}{}
		if l.Status == constants.LogCompleted {
			t.completed++
		}
	}

	streaks := &stats.StreakStats
	streaks.TotalHabits = len(habits)
	streakSum := 0
	rateSum := 0.0
	for _, h := range habits {
		streakSum += h.CurrentStreak
		if h.CurrentStreak > streaks.MaxCurrentStreak {
			streaks.MaxCurrentStreak = h.CurrentStreak
		}
		if h.LongestStreak > streaks.MaxLongestStreak {
			streaks.MaxLongestStreak = h.LongestStreak
		}
		if h.CurrentStreak >= constants.WeekStreakDays {
			streaks.WeekPlusStreaks++
		}
		if h.CurrentStreak >= constants.MonthStreakDays {
			streaks.MonthPlusStreaks++
		}

		t := perHabit[h.ID]
		tracked := len(t.days)
		rate := round(float64(t.completed)*100/float64(max(tracked, 1)), 2)
		rateSum += rate
		stats.CompletionStats = append(stats.CompletionStats, models.CompletionStats{
			HabitID:          h.ID,
			Title:            h.Title,
			CurrentStreak:    h.CurrentStreak,
			LongestStreak:    h.LongestStreak,
			TotalCompleted:   t.completed,
			TotalDaysTracked: tracked,
			CompletionRate:   rate,
		})
	}
	sort.SliceStable(stats.CompletionStats, func(i, j int) bool {
		return stats.CompletionStats[i].CompletionRate > stats.CompletionStats[j].CompletionRate
	})

	stats.Summary = models.StatsSummary{
		TotalHabits: len(habits),
		BestStreak:  streaks.MaxLongestStreak,
	}
	if len(habits) > 0 {
		streaks.AvgCurrentStreak = round(float64(streakSum)/float64(len(habits)), 2)
		stats.Summary.AvgStreak = round(float64(streakSum)/float64(len(habits)), 1)
		stats.Summary.CompletionRate = round(rateSum/float64(len(habits)), 1)
	}
	return stats
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
