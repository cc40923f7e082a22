package sqlstore

import (
	"context"
	"fmt"
	"time"
)

// activeDaily restricts a statement on habits to the rows rollover is allowed to touch
const activeDaily = "frequency = 'daily' AND status != 'archived'"

func (t *txStore) exec(ctx context.Context, step, query string, args ...any) (int64, error) {
	result, err := t.tx.ExecContext(ctx, Rebind(t.dialect, query), args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step, err)
	}
	return n, nil
}

// settledSince matches habits with an outcome recorded on or after a date
const settledSince = `EXISTS (
			SELECT 1 FROM habit_logs l
			WHERE l.habit_id = habits.id AND l.log_date >= ? AND l.status != 'todo'
		)`

func (t *txStore) ResetStragglerStreaks(ctx context.Context, date, asOfDate string, now time.Time) (int64, error) {
	return t.exec(ctx, "reset straggler streaks", `
		UPDATE habits SET current_streak = 0, updated_at = ?
		WHERE `+activeDaily+`
		AND id IN (
			SELECT habit_id FROM habit_logs WHERE log_date = ? AND status = 'todo'
		)
		AND NOT `+settledSince, formatTime(now), date, asOfDate)
}

func (t *txStore) FailStragglerLogs(ctx context.Context, date string, now time.Time) (int64, error) {
	return t.exec(ctx, "fail straggler logs", `
		UPDATE habit_logs SET status = 'failed', completed_at = ?, updated_at = ?
		WHERE log_date = ? AND status = 'todo'
		AND habit_id IN (SELECT id FROM habits WHERE `+activeDaily+`)`,
		formatTime(now), formatTime(now), date)
}

func (t *txStore) ReopenHabits(ctx context.Context, date string, now time.Time) (int64, error) {
	return t.exec(ctx, "reopen habits", `
		UPDATE habits SET status = 'todo', updated_at = ?
		WHERE frequency = 'daily' AND status IN ('completed', 'failed')
		AND NOT `+settledSince, formatTime(now), date)
}

func (t *txStore) OpenLogs(ctx context.Context, date string, now time.Time) (int64, error) {
	return t.exec(ctx, "open logs", `
		INSERT INTO habit_logs (habit_id, user_id, log_date, status, created_at, updated_at)
		SELECT h.id, h.user_id, CAST(? AS TEXT), 'todo', CAST(? AS TEXT), CAST(? AS TEXT)
		FROM habits h
		WHERE h.frequency = 'daily' AND h.status != 'archived'
		AND NOT EXISTS (
			SELECT 1 FROM habit_logs l WHERE l.habit_id = h.id AND l.log_date = ?
		)`, date, formatTime(now), formatTime(now), date)
}
