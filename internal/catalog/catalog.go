// Package catalog resolves predefined and user-defined habit templates.
// Browsing and search live elsewhere; this package only answers "what does
// template N look like" at habit creation time.
package catalog

import (
	"context"
	stderrors "errors"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/logger"
	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/storage"
	"github.com/julianstephens/habitify/internal/validation"
)

// Provider resolves templates by id
type Provider interface {
	Predefined(ctx context.Context, id int64) (models.Template, error)
	Custom(ctx context.Context, userID, id int64) (models.Template, error)
}

// SaveCustomRequest is the body of a new custom template
type SaveCustomRequest struct {
	UserID          int64  `json:"user_id" validate:"required,gt=0"`
	Title           string `json:"title" validate:"required,max=255"`
	Description     string `json:"description"`
	Category        string `json:"category" validate:"max=50"`
	Frequency       string `json:"frequency" validate:"omitempty,oneof=daily weekly"`
	ColorCode       string `json:"color_code" validate:"omitempty,hexcolor"`
	IconName        string `json:"icon_name" validate:"max=50"`
	ReminderTime    string `json:"reminder_time" validate:"omitempty,reminder_time"`
	ReminderEnabled *bool  `json:"reminder_enabled"`
}

// Service is the store-backed Provider
type Service struct {
	store storage.TemplateStore
}

func NewService(store storage.TemplateStore) *Service {
	return &Service{store: store}
}

// Predefined returns an active predefined template
func (s *Service) Predefined(ctx context.Context, id int64) (models.Template, error) {
	if id <= 0 {
		return models.Template{}, errors.Validation("Invalid predefined_habit_id")
	}
	t, err := s.store.GetPredefinedTemplate(ctx, id)
	if err != nil {
		return models.Template{}, lookupError(err, "Predefined habit not found")
	}
	return t, nil
}

// Custom returns an active custom template owned by userID
func (s *Service) Custom(ctx context.Context, userID, id int64) (models.Template, error) {
	if id <= 0 {
		return models.Template{}, errors.Validation("Invalid custom_habit_id")
	}
	t, err := s.store.GetCustomTemplate(ctx, userID, id)
	if err != nil {
		return models.Template{}, lookupError(err, "Custom habit not found")
	}
	return t, nil
}

// SaveCustom validates req, fills defaults and stores a new custom template
func (s *Service) SaveCustom(ctx context.Context, req SaveCustomRequest) (int64, error) {
	if req.Title == "" {
		return 0, errors.Validation("Habit title is required")
	}
	if err := validation.Struct(req); err != nil {
		return 0, err
	}

	t := models.Template{
		Source:          models.TemplateCustom,
		UserID:          req.UserID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        valueOr(req.Category, "Custom"),
		Frequency:       constants.Frequency(valueOr(req.Frequency, string(constants.DefaultFrequency))),
		ColorCode:       valueOr(req.ColorCode, constants.DefaultColorCode),
		IconName:        valueOr(req.IconName, constants.DefaultIconName),
		ReminderTime:    valueOr(req.ReminderTime, constants.DefaultReminderTime),
		ReminderEnabled: constants.DefaultReminderEnabled,
	}
	if req.ReminderEnabled != nil {
		t.ReminderEnabled = *req.ReminderEnabled
	}

	id, err := s.store.SaveCustomTemplate(ctx, t)
	if err != nil {
		logger.Error("Failed to save custom habit", "user_id", req.UserID, "error", err)
		return 0, errors.Transient("Database error", err)
	}
	logger.Info("Custom habit template created", "user_id", req.UserID, "template_id", id)
	return id, nil
}

func lookupError(err error, notFound string) error {
	if stderrors.Is(err, storage.ErrNotFound) {
		return errors.NotFoundOrForbidden(notFound)
	}
	return errors.Transient("Database error", err)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
