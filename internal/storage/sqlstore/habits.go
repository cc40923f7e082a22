package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/storage"
)

const habitColumns = `id, user_id, title, description, frequency, color_code, icon_name,
	reminder_time, reminder_enabled, status, current_streak, longest_streak,
	start_date, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.Frequency, &h.ColorCode,
		&h.IconName, &h.ReminderTime, &h.ReminderEnabled, &h.Status, &h.CurrentStreak,
		&h.LongestStreak, &h.StartDate, &createdAt, &updatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.ErrNotFound
		}
		return models.Habit{}, err
	}

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func getHabit(ctx context.Context, q queryer, dialect Dialect, userID int64, habitID string, forUpdate bool) (models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE id = ? AND user_id = ?"
	if forUpdate && dialect == Postgres {
		query += " FOR UPDATE"
	}
	return scanHabit(q.QueryRowContext(ctx, Rebind(dialect, query), habitID, userID))
}

// GetHabit loads a habit outside of any transaction
func (s *Store) GetHabit(ctx context.Context, userID int64, habitID string) (models.Habit, error) {
	return getHabit(ctx, s.q(), s.dialect, userID, habitID, false)
}

// ListHabits returns the user's non-archived habits ordered by bucket, newest first
func (s *Store) ListHabits(ctx context.Context, userID int64) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, Rebind(s.dialect, `
		SELECT `+habitColumns+`
		FROM habits
		WHERE user_id = ? AND status != 'archived'
		ORDER BY
			CASE status
				WHEN 'todo' THEN 1
				WHEN 'completed' THEN 2
				WHEN 'failed' THEN 3
			END,
			created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// CountMissingLogs returns how many active daily habits have no log on date
func (s *Store) CountMissingLogs(ctx context.Context, date string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, Rebind(s.dialect, `
		SELECT COUNT(*) FROM habits h
		WHERE h.frequency = 'daily' AND h.status != 'archived'
		AND NOT EXISTS (
			SELECT 1 FROM habit_logs l WHERE l.habit_id = h.id AND l.log_date = ?
		)`), date).Scan(&n)
	return n, err
}

func (t *txStore) LockHabit(ctx context.Context, userID int64, habitID string) (models.Habit, error) {
	return getHabit(ctx, t.q(), t.dialect, userID, habitID, true)
}

func (t *txStore) InsertHabit(ctx context.Context, h models.Habit) error {
	_, err := t.tx.ExecContext(ctx, Rebind(t.dialect, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		h.ID, h.UserID, h.Title, h.Description, string(h.Frequency), h.ColorCode, h.IconName,
		h.ReminderTime, h.ReminderEnabled, string(h.Status), h.CurrentStreak, h.LongestStreak,
		h.StartDate, formatTime(h.CreatedAt), formatTime(h.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (t *txStore) SaveHabit(ctx context.Context, h models.Habit) error {
	result, err := t.tx.ExecContext(ctx, Rebind(t.dialect, `
		UPDATE habits SET
			title = ?, description = ?, frequency = ?, color_code = ?, icon_name = ?,
			reminder_time = ?, reminder_enabled = ?, status = ?, current_streak = ?,
			longest_streak = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		h.Title, h.Description, string(h.Frequency), h.ColorCode, h.IconName,
		h.ReminderTime, h.ReminderEnabled, string(h.Status), h.CurrentStreak,
		h.LongestStreak, formatTime(h.UpdatedAt), h.ID, h.UserID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireRow(result)
}

func (t *txStore) DeleteHabit(ctx context.Context, userID int64, habitID string) error {
	if _, err := t.tx.ExecContext(ctx, Rebind(t.dialect,
		"DELETE FROM habit_logs WHERE habit_id = ? AND user_id = ?"), habitID, userID); err != nil {
		return fmt.Errorf("failed to delete habit logs: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, Rebind(t.dialect,
		"DELETE FROM habits WHERE id = ? AND user_id = ?"), habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
