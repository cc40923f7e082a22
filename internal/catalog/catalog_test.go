package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/storage/sqlite"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitify.db"), 0)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewService(store)
}

func TestPredefined(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tpl, err := svc.Predefined(ctx, 1)
	if err != nil {
		t.Fatalf("Predefined(1) error = %v", err)
	}
	if tpl.Title != "Drink Water" || tpl.ColorCode != "#2196F3" || tpl.Frequency != constants.FrequencyDaily {
		t.Errorf("unexpected template: %+v", tpl)
	}

	tests := []struct {
		name string
		id   int64
		kind errors.Kind
	}{
		{"unknown id", 999, errors.KindNotFoundOrForbidden},
		{"zero id", 0, errors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Predefined(ctx, tt.id)
			if errors.KindOf(err) != tt.kind {
				t.Errorf("kind = %v, want %v (err=%v)", errors.KindOf(err), tt.kind, err)
			}
		})
	}
}

func TestSaveCustomAndResolve(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	enabled := false
	id, err := svc.SaveCustom(ctx, SaveCustomRequest{
		UserID:          7,
		Title:           "Stretch",
		ReminderEnabled: &enabled,
	})
	if err != nil {
		t.Fatalf("SaveCustom() error = %v", err)
	}

	tpl, err := svc.Custom(ctx, 7, id)
	if err != nil {
		t.Fatalf("Custom() error = %v", err)
	}
	if tpl.Category != "Custom" || tpl.ColorCode != constants.DefaultColorCode ||
		tpl.ReminderTime != constants.DefaultReminderTime || tpl.ReminderEnabled {
		t.Errorf("defaults not applied: %+v", tpl)
	}

	// Another user cannot see it
	if _, err := svc.Custom(ctx, 8, id); errors.KindOf(err) != errors.KindNotFoundOrForbidden {
		t.Errorf("foreign lookup kind = %v, want not found", errors.KindOf(err))
	}
	if got := errors.Message(func() error { _, err := svc.Custom(ctx, 8, id); return err }()); got != "Custom habit not found" {
		t.Errorf("message = %q", got)
	}
}

func TestSaveCustomValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     SaveCustomRequest
		wantMsg string
	}{
		{"missing title", SaveCustomRequest{UserID: 1}, "Habit title is required"},
		{"bad frequency", SaveCustomRequest{UserID: 1, Title: "x", Frequency: "hourly"}, "Invalid frequency. Must be one of: daily, weekly"},
		{"bad reminder", SaveCustomRequest{UserID: 1, Title: "x", ReminderTime: "9am"}, "Invalid reminder_time format. Use HH:MM:SS"},
		{"missing user", SaveCustomRequest{Title: "x"}, "Missing required field: user_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveCustom(ctx, tt.req)
			if errors.KindOf(err) != errors.KindValidation {
				t.Fatalf("kind = %v, want validation", errors.KindOf(err))
			}
			if got := errors.Message(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}
