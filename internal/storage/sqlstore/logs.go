package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/storage"
)

const logColumns = "id, habit_id, user_id, log_date, status, completed_at, created_at, updated_at"

func scanLog(row scanner) (models.DailyLog, error) {
	var l models.DailyLog
	var completedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&l.ID, &l.HabitID, &l.UserID, &l.LogDate, &l.Status, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.DailyLog{}, storage.ErrNotFound
		}
		return models.DailyLog{}, err
	}

	if completedAt.Valid {
		t, err := parseTime("completed_at", completedAt.String)
		if err != nil {
			return models.DailyLog{}, err
		}
		l.CompletedAt = &t
	}
	if l.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.DailyLog{}, err
	}
	if l.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.DailyLog{}, err
	}
	return l, nil
}

// ListLogs returns the user's logs between from and to inclusive. An empty bound is open.
func (s *Store) ListLogs(ctx context.Context, userID int64, from, to string) ([]models.DailyLog, error) {
	query := "SELECT " + logColumns + " FROM habit_logs WHERE user_id = ?"
	args := []any{userID}
	if from != "" {
		query += " AND log_date >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND log_date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY log_date DESC, id"

	rows, err := s.db.QueryContext(ctx, Rebind(s.dialect, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	defer rows.Close()

	var logs []models.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (t *txStore) GetLog(ctx context.Context, habitID, date string) (models.DailyLog, error) {
	return scanLog(t.tx.QueryRowContext(ctx, Rebind(t.dialect,
		"SELECT "+logColumns+" FROM habit_logs WHERE habit_id = ? AND log_date = ?"), habitID, date))
}

func (t *txStore) UpsertLog(ctx context.Context, l models.DailyLog) (models.DailyLog, error) {
	var id int64
	var createdAt string
	err := t.tx.QueryRowContext(ctx, Rebind(t.dialect, `
		INSERT INTO habit_logs (habit_id, user_id, log_date, status, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, log_date) DO UPDATE SET
			status = excluded.status,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
		RETURNING id, created_at`),
		l.HabitID, l.UserID, l.LogDate, string(l.Status), nullTime(l.CompletedAt),
		formatTime(l.CreatedAt), formatTime(l.UpdatedAt)).Scan(&id, &createdAt)
	if err != nil {
		return models.DailyLog{}, fmt.Errorf("failed to upsert habit log: %w", err)
	}

	l.ID = id
	if l.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.DailyLog{}, err
	}
	return l, nil
}

func (t *txStore) EnsureTodoLog(ctx context.Context, habitID string, userID int64, date string, now time.Time) (bool, error) {
	result, err := t.tx.ExecContext(ctx, Rebind(t.dialect, `
		INSERT INTO habit_logs (habit_id, user_id, log_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, log_date) DO NOTHING`),
		habitID, userID, date, string(constants.LogTodo), formatTime(now), formatTime(now))
	if err != nil {
		return false, fmt.Errorf("failed to insert todo log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
