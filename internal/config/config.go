package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultDelayThresholdDays is how long a task may sit IN_PROCESS
	// before the delay audit stamps it DELAYED.
	DefaultDelayThresholdDays = 3

	// DefaultDelayAuditSchedule is the cron expression for the delay
	// audit job. Runs at the top of every hour.
	DefaultDelayAuditSchedule = "0 * * * *"
)
