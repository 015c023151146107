package analyzer

import (
	"sort"
	"time"

	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/usage"
)

// Summary aggregates fleet-wide health for status output.
type Summary struct {
	Total          int
	Healthy        int
	Warning        int
	NeedsAttention int

	// NeverUsed counts environments with zero activations.
	NeverUsed int

	// Unused counts environments idle past the stale threshold, including
	// never-used ones.
	Unused int

	// TotalSizeBytes sums the cached size fields; zero entries are
	// environments that have never been measured.
	TotalSizeBytes int64
}

// Summarize rolls up records into a Summary as of now under policy p.
func Summarize(records []*store.EnvironmentRecord, now time.Time, p Policy) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		switch Classify(rec, now, p) {
		case TierHealthy:
			s.Healthy++
		case TierWarning:
			s.Warning++
		case TierNeedsAttention:
			s.NeedsAttention++
		}

		m := usage.ComputeMetrics(rec, now)
		if !rec.Used() {
			s.NeverUsed++
		}
		if m.NeverUsed() || m.DaysSinceUse >= p.StaleDays {
			s.Unused++
		}
		s.TotalSizeBytes += rec.SizeBytes
	}
	return s
}

// Efficiency is the share of environments seeing recent use, as a
// percentage. An empty fleet reports zero.
func (s Summary) Efficiency() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Total-s.Unused) / float64(s.Total) * 100
}

// MostUsed returns up to n records ordered by activation count, busiest
// first, ties by name. The input slice is not reordered.
func MostUsed(records []*store.EnvironmentRecord, n int) []*store.EnvironmentRecord {
	sorted := make([]*store.EnvironmentRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UsageCount != sorted[j].UsageCount {
			return sorted[i].UsageCount > sorted[j].UsageCount
		}
		return sorted[i].Name < sorted[j].Name
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
