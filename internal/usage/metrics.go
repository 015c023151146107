// Package usage records activations and derives recency metrics from
// environment records.
package usage

import (
	"time"

	"github.com/uvve-dev/uvve/internal/store"
)

// Metrics are the derived usage numbers for one environment at a given
// instant. They are computed on demand and never persisted.
type Metrics struct {
	// AgeDays is the number of whole days since creation.
	AgeDays int

	// DaysSinceUse is the number of whole days since the last activation,
	// or -1 when the environment has never been used.
	DaysSinceUse int

	// Frequency is usage_count divided by max(AgeDays, 1), in uses per day.
	Frequency float64
}

// NeverUsed reports whether the metrics describe an environment with no
// recorded activations.
func (m Metrics) NeverUsed() bool {
	return m.DaysSinceUse < 0
}

// ComputeMetrics derives usage metrics for rec as of now.
func ComputeMetrics(rec *store.EnvironmentRecord, now time.Time) Metrics {
	m := Metrics{
		AgeDays:      wholeDays(rec.CreatedAt, now),
		DaysSinceUse: -1,
	}
	if rec.LastUsed != nil {
		m.DaysSinceUse = wholeDays(*rec.LastUsed, now)
	}

	ageDays := m.AgeDays
	if ageDays < 1 {
		ageDays = 1
	}
	m.Frequency = float64(rec.UsageCount) / float64(ageDays)
	return m
}

// FrequencyLabel maps a frequency to the coarse buckets shown in analytics
// output.
func FrequencyLabel(m Metrics) string {
	switch {
	case m.NeverUsed():
		return "never"
	case m.Frequency >= 0.7:
		return "daily"
	case m.Frequency >= 1.0/7:
		return "weekly"
	case m.Frequency >= 1.0/30:
		return "monthly"
	default:
		return "rare"
	}
}

// wholeDays returns the count of full days between from and to, never
// negative.
func wholeDays(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
