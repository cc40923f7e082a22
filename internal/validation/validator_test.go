package validation

import (
	"testing"

	"github.com/julianstephens/habitify/internal/errors"
)

type statusRequest struct {
	UserID  int64  `json:"user_id" validate:"required,gt=0"`
	HabitID string `json:"habit_id" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=completed failed"`
}

type configRequest struct {
	ColorCode    string `json:"color_code" validate:"omitempty,hexcolor"`
	ReminderTime string `json:"reminder_time" validate:"omitempty,reminder_time"`
	Date         string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Timezone     string `koanf:"timezone" validate:"timezone"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantMsg string
	}{
		{
			name:  "valid status request",
			input: statusRequest{UserID: 1, HabitID: "abc", Status: "completed"},
		},
		{
			name:    "missing habit id",
			input:   statusRequest{UserID: 1, Status: "completed"},
			wantMsg: "Missing required field: habit_id",
		},
		{
			name:    "unsupported status",
			input:   statusRequest{UserID: 1, HabitID: "abc", Status: "skipped"},
			wantMsg: "Invalid status. Must be one of: completed, failed",
		},
		{
			name:    "non positive user",
			input:   statusRequest{UserID: -3, HabitID: "abc", Status: "failed"},
			wantMsg: "user_id must be greater than 0",
		},
		{
			name:  "valid optional config",
			input: configRequest{ColorCode: "#4CAF50", ReminderTime: "21:15:00", Date: "2025-05-10", Timezone: "UTC"},
		},
		{
			name:    "bad reminder time",
			input:   configRequest{ReminderTime: "9pm"},
			wantMsg: "Invalid reminder_time format. Use HH:MM:SS",
		},
		{
			name:    "bad date",
			input:   configRequest{Date: "10/05/2025"},
			wantMsg: "Invalid date format. Use YYYY-MM-DD",
		},
		{
			name:    "bad color",
			input:   configRequest{ColorCode: "green"},
			wantMsg: "color_code must be a hex color such as #4CAF50",
		},
		{
			name:    "bad timezone uses koanf tag",
			input:   configRequest{Timezone: "Mars/Olympus"},
			wantMsg: "timezone must be a valid IANA timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Struct() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Struct() = nil, want %q", tt.wantMsg)
			}
			if errors.KindOf(err) != errors.KindValidation {
				t.Errorf("kind = %v, want validation", errors.KindOf(err))
			}
			if got := errors.Message(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestMessagesListsEveryFailure(t *testing.T) {
	msgs := Messages(statusRequest{})
	if len(msgs) != 3 {
		t.Errorf("Messages() = %v, want 3 entries", msgs)
	}
	if Messages(statusRequest{UserID: 1, HabitID: "x", Status: "failed"}) != nil {
		t.Error("Messages() should be nil for a valid struct")
	}
}
