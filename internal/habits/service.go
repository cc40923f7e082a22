// Package habits implements the per-user habit operations: status
// transitions, creation, configuration edits, deletion and the read models
// shown by the client.
package habits

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitify/internal/catalog"
	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/logger"
	"github.com/julianstephens/habitify/internal/metrics"
	"github.com/julianstephens/habitify/internal/models"
	"github.com/julianstephens/habitify/internal/storage"
	"github.com/julianstephens/habitify/internal/utils"
	"github.com/julianstephens/habitify/internal/validation"
)

// Service runs habit operations against a storage provider
type Service struct {
	store   storage.Provider
	catalog catalog.Provider
	clock   utils.Clock
}

// NewService builds a Service. A nil clock reads the local wall clock.
func NewService(store storage.Provider, cat catalog.Provider, clock utils.Clock) *Service {
	if clock == nil {
		clock = utils.ZoneClock{}
	}
	return &Service{store: store, catalog: cat, clock: clock}
}

// Today returns the service's current date
func (s *Service) Today() string {
	return utils.Today(s.clock)
}

// StatusResult is the outcome of SetHabitStatus
type StatusResult struct {
	Habit         models.HabitView `json:"habit"`
	UpdatedStatus string           `json:"updated_status"`
	Today         string           `json:"today"`
}

// SetHabitStatus records a completion or failure for today and moves the
// habit's streak counters accordingly. day may be empty; otherwise it must be
// today, so a client with a stale calendar cannot write another day's log.
func (s *Service) SetHabitStatus(ctx context.Context, userID int64, habitID, status, day string) (StatusResult, error) {
	if userID <= 0 || strings.TrimSpace(habitID) == "" || status == "" {
		return StatusResult{}, errors.Validation("Missing required fields")
	}
	if status != string(constants.StatusCompleted) && status != string(constants.StatusFailed) {
		return StatusResult{}, errors.Validation(`Invalid status. Must be "completed" or "failed"`)
	}
	today := s.Today()
	if day == "" {
		day = today
	} else if _, err := utils.ParseDate(day); err != nil {
		return StatusResult{}, errors.Validation("Invalid date format. Use YYYY-MM-DD")
	} else if day != today {
		return StatusResult{}, errors.Validation("Status can only be set for today (%s)", today)
	}

	previousDay, err := utils.AddDays(day, -1)
	if err != nil {
		return StatusResult{}, errors.Validation("Invalid date format. Use YYYY-MM-DD")
	}
	now := s.clock.Now()
	var view models.HabitView

	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		h, err := tx.LockHabit(ctx, userID, habitID)
		if stderrors.Is(err, storage.ErrNotFound) || (err == nil && h.IsArchived()) {
			return errors.NotFoundOrForbidden("Habit not found or archived")
		}
		if err != nil {
			return err
		}

		log, err := tx.UpsertLog(ctx, models.DailyLog{
			HabitID:     h.ID,
			UserID:      userID,
			LogDate:     day,
			Status:      constants.LogStatus(status),
			CompletedAt: &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		if status == string(constants.StatusCompleted) {
			// Yesterday still open means the rollover has not run yet and
			// the streak is already broken
			if h.Frequency == constants.FrequencyDaily {
				prev, err := tx.GetLog(ctx, h.ID, previousDay)
				if err != nil && !stderrors.Is(err, storage.ErrNotFound) {
					return err
				}
				if err == nil && prev.Status == constants.LogTodo {
					h.CurrentStreak = 0
				}
			}
			h.Complete()
		} else {
			h.Fail()
		}
		h.UpdatedAt = now
		if err := tx.SaveHabit(ctx, h); err != nil {
			return err
		}

		view = models.NewHabitView(h, &log)
		return nil
	})
	if err != nil {
		return StatusResult{}, storeError("update_status", err)
	}

	metrics.RecordStatusTransition(status)
	logger.Info("Habit status updated", "user_id", userID, "habit_id", habitID, "status", status,
		"date", day, "current_streak", view.CurrentStreak)

	return StatusResult{Habit: view, UpdatedStatus: status, Today: day}, nil
}

// CreateRequest is the body of a habit creation. Nil fields take the
// template's value, or the default when no template is given.
type CreateRequest struct {
	UserID            int64   `json:"user_id" validate:"required,gt=0"`
	Title             string  `json:"title" validate:"max=255"`
	Description       *string `json:"description"`
	Frequency         *string `json:"frequency" validate:"omitempty,oneof=daily weekly"`
	ColorCode         *string `json:"color_code" validate:"omitempty,hexcolor"`
	IconName          *string `json:"icon_name" validate:"omitempty,max=50"`
	ReminderTime      *string `json:"reminder_time" validate:"omitempty,reminder_time"`
	ReminderEnabled   *bool   `json:"reminder_enabled"`
	PredefinedHabitID *int64  `json:"predefined_habit_id"`
	CustomHabitID     *int64  `json:"custom_habit_id"`
}

// CreateResult identifies a newly created habit
type CreateResult struct {
	HabitID   string                `json:"habit_id"`
	StartDate string                `json:"start_date"`
	Status    constants.HabitStatus `json:"status"`
}

// CreateHabit adds a habit in the todo bucket with a todo log for today
func (s *Service) CreateHabit(ctx context.Context, req CreateRequest) (CreateResult, error) {
	if req.UserID <= 0 {
		return CreateResult{}, errors.Validation("Invalid user ID")
	}
	if err := validation.Struct(req); err != nil {
		return CreateResult{}, err
	}

	// Templates are resolved before the transaction opens
	tpl, err := s.resolveTemplate(ctx, req)
	if err != nil {
		return CreateResult{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = tpl.Title
	}
	if title == "" {
		return CreateResult{}, errors.Validation("Habit title is required")
	}

	now := s.clock.Now()
	today := utils.Today(s.clock)
	h := models.Habit{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Title:           title,
		Description:     stringOr(req.Description, tpl.Description),
		Frequency:       constants.Frequency(stringOr(req.Frequency, string(tpl.Frequency))),
		ColorCode:       stringOr(req.ColorCode, tpl.ColorCode),
		IconName:        stringOr(req.IconName, tpl.IconName),
		ReminderTime:    stringOr(req.ReminderTime, tpl.ReminderTime),
		ReminderEnabled: tpl.ReminderEnabled,
		Status:          constants.StatusTodo,
		StartDate:       today,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.ReminderEnabled != nil {
		h.ReminderEnabled = *req.ReminderEnabled
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.InsertHabit(ctx, h); err != nil {
			return err
		}
		_, err := tx.EnsureTodoLog(ctx, h.ID, h.UserID, today, now)
		return err
	})
	if err != nil {
		return CreateResult{}, storeError("create", err)
	}

	metrics.HabitsCreated.Inc()
	logger.Info("Habit created", "user_id", h.UserID, "habit_id", h.ID, "title", h.Title, "frequency", h.Frequency)

	return CreateResult{HabitID: h.ID, StartDate: today, Status: h.Status}, nil
}

// AddCustomToHabits creates a habit from one of the user's custom templates
func (s *Service) AddCustomToHabits(ctx context.Context, userID, customHabitID int64) (CreateResult, error) {
	if userID <= 0 || customHabitID <= 0 {
		return CreateResult{}, errors.Validation("Missing required fields")
	}
	return s.CreateHabit(ctx, CreateRequest{UserID: userID, CustomHabitID: &customHabitID})
}

// resolveTemplate returns the defaults a new habit starts from
func (s *Service) resolveTemplate(ctx context.Context, req CreateRequest) (models.Template, error) {
	switch {
	case req.CustomHabitID != nil && s.catalog != nil:
		return s.catalog.Custom(ctx, req.UserID, *req.CustomHabitID)
	case req.PredefinedHabitID != nil && s.catalog != nil:
		return s.catalog.Predefined(ctx, *req.PredefinedHabitID)
	}
	return models.Template{
		Frequency:       constants.DefaultFrequency,
		ColorCode:       constants.DefaultColorCode,
		IconName:        constants.DefaultIconName,
		ReminderTime:    constants.DefaultReminderTime,
		ReminderEnabled: constants.DefaultReminderEnabled,
	}, nil
}

// UpdateRequest is a partial edit. Status only accepts archived and todo;
// completion state changes through SetHabitStatus and the rollover.
type UpdateRequest struct {
	UserID          int64   `json:"user_id"`
	HabitID         string  `json:"habit_id"`
	Title           *string `json:"title" validate:"omitempty,max=255"`
	Description     *string `json:"description"`
	Frequency       *string `json:"frequency" validate:"omitempty,oneof=daily weekly"`
	ColorCode       *string `json:"color_code" validate:"omitempty,hexcolor"`
	IconName        *string `json:"icon_name" validate:"omitempty,max=50"`
	ReminderTime    *string `json:"reminder_time" validate:"omitempty,reminder_time"`
	ReminderEnabled *bool   `json:"reminder_enabled"`
	Status          *string `json:"status" validate:"omitempty,oneof=archived todo"`
}

func (r UpdateRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Frequency == nil && r.ColorCode == nil &&
		r.IconName == nil && r.ReminderTime == nil && r.ReminderEnabled == nil && r.Status == nil
}

// UpdateHabit applies a partial configuration edit, archive or unarchive
func (s *Service) UpdateHabit(ctx context.Context, req UpdateRequest) (models.HabitView, error) {
	if req.UserID <= 0 || strings.TrimSpace(req.HabitID) == "" {
		return models.HabitView{}, errors.Validation("Missing required fields")
	}
	if req.empty() {
		return models.HabitView{}, errors.Validation("No changes to update")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return models.HabitView{}, errors.Validation("Habit title is required")
	}
	if err := validation.Struct(req); err != nil {
		return models.HabitView{}, err
	}

	now := s.clock.Now()
	today := utils.Today(s.clock)
	var view models.HabitView

	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		h, err := tx.LockHabit(ctx, req.UserID, req.HabitID)
		if stderrors.Is(err, storage.ErrNotFound) {
			return errors.NotFoundOrForbidden("Habit not found or you don't have permission to edit it")
		}
		if err != nil {
			return err
		}

		wasArchived := h.IsArchived()
		wasDaily := h.Frequency == constants.FrequencyDaily
		applyUpdate(&h, req)
		h.UpdatedAt = now

		if err := tx.SaveHabit(ctx, h); err != nil {
			return err
		}

		// A habit coming back into tracking gets today's todo log
		reopened := wasArchived && !h.IsArchived()
		becameDaily := !wasDaily && h.Frequency == constants.FrequencyDaily && !h.IsArchived()
		if reopened || becameDaily {
			if _, err := tx.EnsureTodoLog(ctx, h.ID, h.UserID, today, now); err != nil {
				return err
			}
		}

		log, err := tx.GetLog(ctx, h.ID, today)
		switch {
		case err == nil:
			view = models.NewHabitView(h, &log)
		case stderrors.Is(err, storage.ErrNotFound):
			view = models.NewHabitView(h, nil)
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return models.HabitView{}, storeError("update", err)
	}

	logger.Info("Habit updated", "user_id", req.UserID, "habit_id", req.HabitID, "status", view.Status)
	return view, nil
}

func applyUpdate(h *models.Habit, req UpdateRequest) {
	if req.Title != nil {
		h.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.Frequency != nil {
		h.Frequency = constants.Frequency(*req.Frequency)
	}
	if req.ColorCode != nil {
		h.ColorCode = *req.ColorCode
	}
	if req.IconName != nil {
		h.IconName = *req.IconName
	}
	if req.ReminderTime != nil {
		h.ReminderTime = *req.ReminderTime
	}
	if req.ReminderEnabled != nil {
		h.ReminderEnabled = *req.ReminderEnabled
	}
	if req.Status != nil {
		switch constants.HabitStatus(*req.Status) {
		case constants.StatusArchived:
			h.Status = constants.StatusArchived
		case constants.StatusTodo:
			// Unarchive only; an active habit keeps its bucket
			if h.IsArchived() {
				h.Status = constants.StatusTodo
			}
		}
	}
}

// DeleteHabit removes a habit and all of its logs
func (s *Service) DeleteHabit(ctx context.Context, userID int64, habitID string) error {
	if userID <= 0 || strings.TrimSpace(habitID) == "" {
		return errors.Validation("Missing user_id or habit_id")
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		err := tx.DeleteHabit(ctx, userID, habitID)
		if stderrors.Is(err, storage.ErrNotFound) {
			return errors.NotFoundOrForbidden("Habit not found or you don't have permission to delete it")
		}
		return err
	})
	if err != nil {
		return storeError("delete", err)
	}

	metrics.HabitsDeleted.Inc()
	logger.Info("Habit deleted", "user_id", userID, "habit_id", habitID)
	return nil
}

// storeError passes typed errors through and turns anything else into a
// transient store failure so driver text never reaches the client.
func storeError(op string, err error) error {
	switch errors.KindOf(err) {
	case errors.KindValidation, errors.KindNotFoundOrForbidden:
		return err
	case errors.KindTransientStore:
		metrics.RecordTransactionError(op)
		logger.Error("Transaction failed", "operation", op, "error", err)
		return err
	}
	metrics.RecordTransactionError(op)
	logger.Error("Transaction failed", "operation", op, "error", err)
	return errors.Transient("Database error", err)
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
