// Package analyzer classifies environment health and plans cleanups from
// metadata records. Everything here is a pure function of its inputs;
// nothing loads, saves, or deletes.
package analyzer

import (
	"time"

	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/usage"
)

// Tier is the health classification of one environment.
type Tier string

const (
	TierHealthy        Tier = "healthy"
	TierWarning        Tier = "warning"
	TierNeedsAttention Tier = "needs-attention"
)

// rule pairs a predicate with the tier it produces.
type rule struct {
	tier  Tier
	match func(rec *store.EnvironmentRecord, m usage.Metrics, p Policy) bool
}

// healthRules are evaluated top-down and the first match wins, so the order
// is the severity order. Anything no rule claims is healthy.
var healthRules = []rule{
	{
		tier: TierNeedsAttention,
		match: func(rec *store.EnvironmentRecord, m usage.Metrics, p Policy) bool {
			return !rec.Used() || m.DaysSinceUse >= p.CriticalDays
		},
	},
	{
		tier: TierWarning,
		match: func(rec *store.EnvironmentRecord, m usage.Metrics, p Policy) bool {
			return rec.UsageCount <= p.LowUsageThreshold || m.DaysSinceUse >= p.StaleDays
		},
	},
}

// Classify returns the health tier for rec as of now under policy p.
func Classify(rec *store.EnvironmentRecord, now time.Time, p Policy) Tier {
	m := usage.ComputeMetrics(rec, now)
	for _, r := range healthRules {
		if r.match(rec, m, p) {
			return r.tier
		}
	}
	return TierHealthy
}
