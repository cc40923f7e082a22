package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"empty string returns local", "", false},
		{"Local returns local", "Local", false},
		{"valid timezone UTC", "UTC", false},
		{"valid timezone Europe/Istanbul", "Europe/Istanbul", false},
		{"invalid timezone", "Invalid/Timezone", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestNowInTimezone(t *testing.T) {
	now, err := NowInTimezone("UTC")
	if err != nil {
		t.Fatalf("NowInTimezone() error = %v", err)
	}
	if now.Location().String() != "UTC" {
		t.Errorf("location = %v, want UTC", now.Location())
	}
	if _, err := NowInTimezone("Invalid/Timezone"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestClocks(t *testing.T) {
	at := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)
	if got := Today(FixedClock{At: at}); got != "2025-12-31" {
		t.Errorf("Today(FixedClock) = %q", got)
	}

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	if loc := (ZoneClock{Location: tokyo}).Now().Location(); loc != tokyo {
		t.Errorf("ZoneClock location = %v, want Asia/Tokyo", loc)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		n       int
		want    string
		wantErr bool
	}{
		{"previous day", "2025-05-10", -1, "2025-05-09", false},
		{"across month", "2025-03-01", -1, "2025-02-28", false},
		{"leap day", "2024-02-28", 1, "2024-02-29", false},
		{"across year", "2025-12-31", 1, "2026-01-01", false},
		{"malformed", "05/10/2025", -1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddDays(tt.date, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddDays() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AddDays() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextBoundary(t *testing.T) {
	utc := time.UTC
	tests := []struct {
		name    string
		now     time.Time
		at      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "later today",
			now:  time.Date(2025, 5, 10, 8, 0, 0, 0, utc),
			at:   "09:30",
			want: time.Date(2025, 5, 10, 9, 30, 0, 0, utc),
		},
		{
			name: "already passed rolls to tomorrow",
			now:  time.Date(2025, 5, 10, 10, 0, 0, 0, utc),
			at:   "09:30",
			want: time.Date(2025, 5, 11, 9, 30, 0, 0, utc),
		},
		{
			name: "exactly at boundary rolls to tomorrow",
			now:  time.Date(2025, 5, 10, 0, 0, 0, 0, utc),
			at:   "00:00",
			want: time.Date(2025, 5, 11, 0, 0, 0, 0, utc),
		},
		{
			name: "end of month",
			now:  time.Date(2025, 1, 31, 12, 0, 0, 0, utc),
			at:   "00:00",
			want: time.Date(2025, 2, 1, 0, 0, 0, 0, utc),
		},
		{
			name:    "bad format",
			now:     time.Date(2025, 5, 10, 8, 0, 0, 0, utc),
			at:      "midnight",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBoundary(tt.now, tt.at, utc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NextBoundary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("NextBoundary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextBoundaryInZone(t *testing.T) {
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 22:00 UTC is 01:00 the next day in Istanbul (UTC+3)
	now := time.Date(2025, 5, 10, 22, 0, 0, 0, time.UTC)
	got, err := NextBoundary(now, "00:00", istanbul)
	if err != nil {
		t.Fatalf("NextBoundary() error = %v", err)
	}
	want := time.Date(2025, 5, 12, 0, 0, 0, 0, istanbul)
	if !got.Equal(want) {
		t.Errorf("NextBoundary() = %v, want %v", got, want)
	}
}

func TestValidators(t *testing.T) {
	if !ValidateReminderTime("09:00:00") || ValidateReminderTime("9am") || ValidateReminderTime("25:00:00") {
		t.Error("ValidateReminderTime gave unexpected results")
	}
	if !ValidateTimeFormat("23:59") || ValidateTimeFormat("24:00") {
		t.Error("ValidateTimeFormat gave unexpected results")
	}
	if !ValidateTimezone("") || !ValidateTimezone("UTC") || ValidateTimezone("not-a-timezone") {
		t.Error("ValidateTimezone gave unexpected results")
	}
}
