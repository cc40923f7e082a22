package constants

const (
	// Default habit configuration, applied when a create request omits a field
	DefaultColorCode       = "#4CAF50"
	DefaultIconName        = "default"
	DefaultReminderTime    = "09:00:00"
	DefaultReminderEnabled = true
	DefaultFrequency       = FrequencyDaily

	// Default server settings
	DefaultServerAddr        = ":8080"
	DefaultRateLimitRequests = 120
	DefaultRolloverAt        = "00:00"
	DefaultTimezone          = "Local" // Use system local timezone by default
)
