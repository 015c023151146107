package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/usage"
)

// ReasonKind identifies why an environment qualified for cleanup.
type ReasonKind string

const (
	ReasonNeverUsed ReasonKind = "never-used"
	ReasonStale     ReasonKind = "stale"
	ReasonLowUsage  ReasonKind = "low-usage"
)

// Reason is one matching cleanup criterion. Days carries the observed
// staleness for ReasonStale; Count carries the activation count for
// ReasonLowUsage.
type Reason struct {
	Kind  ReasonKind
	Days  int
	Count int
}

// String renders the reason the way cleanup tables display it.
func (r Reason) String() string {
	switch r.Kind {
	case ReasonNeverUsed:
		return "never used"
	case ReasonStale:
		return fmt.Sprintf("no activation in %d days", r.Days)
	case ReasonLowUsage:
		if r.Count == 1 {
			return "only 1 activation"
		}
		return fmt.Sprintf("only %d activations", r.Count)
	default:
		return string(r.Kind)
	}
}

// Candidate is one environment a cleanup plan proposes to remove, with the
// full set of criteria it matched. Reasons is never empty.
type Candidate struct {
	Name         string
	UsageCount   int
	LastUsed     *time.Time
	DaysSinceUse int
	SizeBytes    int64
	Reasons      []Reason
}

// Plan selects cleanup candidates from records under policy p. The plan is
// a proposal only: nothing is mutated or deleted here, and callers decide
// what to do with it.
//
// Candidates are ordered most-stale first: descending days since use with
// never-used environments ahead of everything, ties broken by name.
func Plan(records []*store.EnvironmentRecord, now time.Time, p Policy) []Candidate {
	var candidates []Candidate
	for _, rec := range records {
		m := usage.ComputeMetrics(rec, now)
		if !qualifies(rec, m, p) {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:         rec.Name,
			UsageCount:   rec.UsageCount,
			LastUsed:     rec.LastUsed,
			DaysSinceUse: m.DaysSinceUse,
			SizeBytes:    rec.SizeBytes,
			Reasons:      reasonsFor(rec, m, p),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aNever, bNever := a.DaysSinceUse < 0, b.DaysSinceUse < 0
		if aNever != bNever {
			return aNever
		}
		if a.DaysSinceUse != b.DaysSinceUse {
			return a.DaysSinceUse > b.DaysSinceUse
		}
		return a.Name < b.Name
	})
	return candidates
}

// qualifies applies the candidacy rule: never used, critically stale, or —
// when the policy opts in — barely used.
func qualifies(rec *store.EnvironmentRecord, m usage.Metrics, p Policy) bool {
	if !rec.Used() {
		return true
	}
	if m.DaysSinceUse >= p.CriticalDays {
		return true
	}
	return p.IncludeLowUsage && rec.UsageCount <= p.LowUsageThreshold
}

// reasonsFor collects every criterion rec matches, not just the one that
// qualified it. Never-used subsumes low usage, so a count of zero yields
// only the never-used reason.
func reasonsFor(rec *store.EnvironmentRecord, m usage.Metrics, p Policy) []Reason {
	var reasons []Reason
	if !rec.Used() {
		reasons = append(reasons, Reason{Kind: ReasonNeverUsed})
	}
	if !m.NeverUsed() && m.DaysSinceUse >= p.StaleDays {
		reasons = append(reasons, Reason{Kind: ReasonStale, Days: m.DaysSinceUse})
	}
	if rec.Used() && rec.UsageCount <= p.LowUsageThreshold {
		reasons = append(reasons, Reason{Kind: ReasonLowUsage, Count: rec.UsageCount})
	}
	return reasons
}
