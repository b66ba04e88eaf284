package scheduler

import "time"

// Config controls the periodic reconciliation sweep.
type Config struct {
	RunInterval time.Duration

	// CheckPreviousWeek also sweeps the week that just ended, catching
	// orders that went missing right around the weekly rollover.
	CheckPreviousWeek bool

	// AutoBackfill inserts missing orders instead of only reporting
	// them. Off by default, backfill is an operator decision.
	AutoBackfill bool
}

func DefaultConfig() Config {
	return Config{
		RunInterval:       time.Hour,
		CheckPreviousWeek: true,
		AutoBackfill:      false,
	}
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = DefaultConfig().RunInterval
	}
	return c
}
