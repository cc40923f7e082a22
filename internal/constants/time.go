package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// ReminderTimeFormat is the wire format of habit reminder times (HH:MM:SS)
	ReminderTimeFormat = "15:04:05"

	// TimestampFormat is how timestamps are persisted
	TimestampFormat = "2006-01-02T15:04:05Z07:00"
)
