package analyzer

// Policy holds the thresholds health classification and cleanup planning
// run against. Values come from config or flags; zero values are replaced
// by defaults at load time, so a Policy in use is always fully populated.
type Policy struct {
	// StaleDays is the age of the last activation, in days, beyond which
	// an environment is considered stale.
	StaleDays int

	// CriticalDays is the staleness, in days, beyond which an environment
	// needs attention and becomes a cleanup candidate on its own.
	CriticalDays int

	// LowUsageThreshold is the lifetime activation count at or below which
	// an environment counts as barely used.
	LowUsageThreshold int

	// IncludeLowUsage lets low usage alone (without critical staleness)
	// qualify an environment for cleanup.
	IncludeLowUsage bool
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		StaleDays:         30,
		CriticalDays:      90,
		LowUsageThreshold: 5,
		IncludeLowUsage:   false,
	}
}
