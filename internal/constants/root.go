package constants

const (
	AppName = "streaks"
	Version = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// StreaksFileName is the name of the data file inside the application data directory
	StreaksFileName = "streaks.json"
	// ConfigFileName is the name of the optional TOML configuration file
	ConfigFileName = "config.toml"
	// LockFileSuffix is appended to the data file path to name its lockfile
	LockFileSuffix = ".lock"

	// DefaultSpanDays is the number of days visible in a fresh timeline
	DefaultSpanDays = 7
	// MinSpanDays is the narrowest the timeline can be zoomed
	MinSpanDays = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streaks-"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "streaks.log"
)
