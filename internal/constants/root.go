package constants

import "time"

// HabitStatus is the bucket a habit currently sits in
type HabitStatus string

// LogStatus is the outcome recorded for a habit on one day
type LogStatus string

// Frequency is how often a habit is expected to be done
type Frequency string

const (
	AppName            = "habitify"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitify"
	DefaultDSN         = "~/.config/habitify/habitify.db"
	Version            = "v0.1.0"

	// KeyringDSN selects the OS keyring as the source of the database DSN
	KeyringDSN = "keyring"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitify-"
	BackupFileSuffix = ".db"

	// Run lock constants
	RunLockFileName   = "habitify-rollover.lock"
	RunLockExecutable = "habitify"

	// Habit status constants
	StatusTodo      HabitStatus = "todo"
	StatusCompleted HabitStatus = "completed"
	StatusFailed    HabitStatus = "failed"
	StatusArchived  HabitStatus = "archived"

	// Daily log status constants
	LogTodo      LogStatus = "todo"
	LogCompleted LogStatus = "completed"
	LogFailed    LogStatus = "failed"

	// Frequency constants
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"

	// Streak milestones reported by statistics
	WeekStreakDays  = 7
	MonthStreakDays = 30

	// StatsWindowDays is the number of trailing days covered by daily statistics
	StatsWindowDays = 7

	// Database
	DefaultTxTimeout     = 5 * time.Second
	DefaultMaxOpenConns  = 25
	DefaultConnLifetime  = 5 * time.Minute
	SQLiteBusyTimeoutMs  = 5000
	PostgresSchemaName   = AppName
	OperatorTokenHeader  = "X-Operator-Token"
	RequestBodyLimitByte = 1 << 20
)
