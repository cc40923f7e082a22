package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/storage"
)

const templateColumns = "id, title, description, category, frequency, color_code, icon_name, reminder_time, reminder_enabled"

func scanTemplate(row scanner, source models.TemplateSource) (models.Template, error) {
	t := models.Template{Source: source}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Frequency,
		&t.ColorCode, &t.IconName, &t.ReminderTime, &t.ReminderEnabled)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Template{}, storage.ErrNotFound
		}
		return models.Template{}, err
	}
	return t, nil
}

// GetPredefinedTemplate returns an active predefined habit
func (s *Store) GetPredefinedTemplate(ctx context.Context, id int64) (models.Template, error) {
	return scanTemplate(s.db.QueryRowContext(ctx, Rebind(s.dialect,
		"SELECT "+templateColumns+" FROM predefined_habits WHERE id = ? AND is_active"), id),
		models.TemplatePredefined)
}

// GetCustomTemplate returns an active custom habit owned by userID
func (s *Store) GetCustomTemplate(ctx context.Context, userID, id int64) (models.Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, Rebind(s.dialect,
		"SELECT "+templateColumns+" FROM custom_habits WHERE id = ? AND user_id = ? AND is_active"), id, userID),
		models.TemplateCustom)
	if err != nil {
		return models.Template{}, err
	}
	t.UserID = userID
	return t, nil
}

// SaveCustomTemplate stores a user-defined template and returns its id
func (s *Store) SaveCustomTemplate(ctx context.Context, t models.Template) (int64, error) {
	now := formatTime(time.Now())
	var id int64
	err := s.db.QueryRowContext(ctx, Rebind(s.dialect, `
		INSERT INTO custom_habits (user_id, title, description, category, frequency, color_code,
			icon_name, reminder_time, reminder_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		t.UserID, t.Title, t.Description, t.Category, string(t.Frequency), t.ColorCode,
		t.IconName, t.ReminderTime, t.ReminderEnabled, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save custom habit: %w", err)
	}
	return id, nil
}
