package sqlstore

import (
	"testing"
	"time"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "sqlite unchanged",
			dialect:  SQLite,
			query:    "SELECT id FROM habits WHERE id = ? AND user_id = ?",
			expected: "SELECT id FROM habits WHERE id = ? AND user_id = ?",
		},
		{
			name:     "postgres numbered",
			dialect:  Postgres,
			query:    "SELECT id FROM habits WHERE id = ? AND user_id = ?",
			expected: "SELECT id FROM habits WHERE id = $1 AND user_id = $2",
		},
		{
			name:     "postgres double digits",
			dialect:  Postgres,
			query:    "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			expected: "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		},
		{
			name:     "no placeholders",
			dialect:  Postgres,
			query:    "SELECT 1",
			expected: "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rebind(tt.dialect, tt.query); got != tt.expected {
				t.Errorf("Rebind() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2025, time.June, 1, 23, 30, 0, 0, loc)

	out, err := parseTime("created_at", formatTime(in))
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}

	if _, err := parseTime("created_at", "yesterday"); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}

func TestNullTime(t *testing.T) {
	if nullTime(nil).Valid {
		t.Error("nil time should be NULL")
	}
	now := time.Now()
	if v := nullTime(&now); !v.Valid || v.String == "" {
		t.Errorf("unexpected value %+v", v)
	}
}
