// Package output renders uvve's terminal output.
//
// This package includes:
//   - Table rendering for environment listings and cleanup candidates
//   - A detail view for a single environment
//   - Progress bars and spinners for slow uv operations
//
// Renderers work on flat row types filled in by the caller, so how health is
// classified or sizes are measured stays out of this package. Tables use
// ASCII layout with ANSI colors; colored cells always sit in the last column
// because escape codes would break fixed-width padding anywhere else.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// ANSI color codes for health tier display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// EnvRow is one row of the environment listing. The caller fills Health from
// the classifier; the renderer never computes it.
type EnvRow struct {
	Name          string
	PythonVersion string
	UsageCount    int
	LastUsed      *time.Time
	Tags          []string
	SizeBytes     int64
	Health        string // "healthy", "warning", "needs-attention"
}

// RenderEnvTable renders the environment listing, sorted by name. The size
// column only appears when showSizes is set since sizes are often unmeasured.
func RenderEnvTable(rows []EnvRow, showSizes bool) string {
	if len(rows) == 0 {
		return "No environments found.\n"
	}

	sorted := make([]EnvRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var sb strings.Builder

	if showSizes {
		sb.WriteString(fmt.Sprintf("%-18s %-9s %-7s %-15s %-20s %-9s %s\n",
			"Name", "Python", "Usage", "Last Used", "Tags", "Size", "Health"))
		sb.WriteString(strings.Repeat("─", 92))
	} else {
		sb.WriteString(fmt.Sprintf("%-18s %-9s %-7s %-15s %-20s %s\n",
			"Name", "Python", "Usage", "Last Used", "Tags", "Health"))
		sb.WriteString(strings.Repeat("─", 82))
	}
	sb.WriteString("\n")

	for _, row := range sorted {
		lastUsed := formatRelativeTime(row.LastUsed)
		tags := truncate(joinTags(row.Tags), 20)
		health := formatTierLabel(row.Health)
		healthColor := getTierColor(row.Health)

		if showSizes {
			if IsColorEnabled() {
				sb.WriteString(fmt.Sprintf("%-18s %-9s %-7d %-15s %-20s %-9s %s%s%s\n",
					truncate(row.Name, 18), row.PythonVersion, row.UsageCount,
					lastUsed, tags, formatSize(row.SizeBytes),
					healthColor, health, colorReset))
			} else {
				sb.WriteString(fmt.Sprintf("%-18s %-9s %-7d %-15s %-20s %-9s %s\n",
					truncate(row.Name, 18), row.PythonVersion, row.UsageCount,
					lastUsed, tags, formatSize(row.SizeBytes), health))
			}
		} else {
			if IsColorEnabled() {
				sb.WriteString(fmt.Sprintf("%-18s %-9s %-7d %-15s %-20s %s%s%s\n",
					truncate(row.Name, 18), row.PythonVersion, row.UsageCount,
					lastUsed, tags, healthColor, health, colorReset))
			} else {
				sb.WriteString(fmt.Sprintf("%-18s %-9s %-7d %-15s %-20s %s\n",
					truncate(row.Name, 18), row.PythonVersion, row.UsageCount,
					lastUsed, tags, health))
			}
		}
	}

	return sb.String()
}

// CandidateRow is one row of the cleanup candidate table.
type CandidateRow struct {
	Name         string
	UsageCount   int
	DaysSinceUse int // -1 when never used
	SizeBytes    int64
	Reasons      []string
}

// RenderCandidateTable renders cleanup candidates.
// Note: Does not sort - expects rows in the planner's order.
func RenderCandidateTable(rows []CandidateRow) string {
	if len(rows) == 0 {
		return "No cleanup candidates.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-18s %-7s %-15s %-9s %s\n",
		"Name", "Usage", "Last Used", "Size", "Reasons"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-18s %-7d %-15s %-9s %s\n",
			truncate(row.Name, 18),
			row.UsageCount,
			formatDaysAgo(row.DaysSinceUse),
			formatSize(row.SizeBytes),
			strings.Join(row.Reasons, "; ")))
	}

	return sb.String()
}

// StatusView carries everything the single-environment detail view shows.
type StatusView struct {
	Name          string
	Description   string
	PythonVersion string
	Health        string
	CreatedAt     time.Time
	LastUsed      *time.Time
	UsageCount    int
	AgeDays       int
	Frequency     string
	Tags          []string
	ProjectRoot   string
	SizeBytes     int64
	HasLockfile   bool
	Active        bool
}

// RenderStatus renders the detail view for one environment.
func RenderStatus(v StatusView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Environment: %s\n", v.Name))
	if v.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", v.Description))
	}
	sb.WriteString(fmt.Sprintf("Python:      %s\n", v.PythonVersion))

	label := formatTierLabel(v.Health)
	if IsColorEnabled() {
		sb.WriteString(fmt.Sprintf("Health:      %s%s%s\n", getTierColor(v.Health), label, colorReset))
	} else {
		sb.WriteString(fmt.Sprintf("Health:      %s\n", label))
	}

	sb.WriteString(fmt.Sprintf("Created:     %s (%s)\n",
		v.CreatedAt.Format("2006-01-02"), humanize.Time(v.CreatedAt)))
	sb.WriteString(fmt.Sprintf("Last used:   %s\n", formatRelativeTime(v.LastUsed)))
	sb.WriteString(fmt.Sprintf("Activations: %d (%s)\n", v.UsageCount, v.Frequency))
	sb.WriteString(fmt.Sprintf("Age:         %d days\n", v.AgeDays))
	sb.WriteString(fmt.Sprintf("Tags:        %s\n", joinTags(v.Tags)))
	if v.ProjectRoot != "" {
		sb.WriteString(fmt.Sprintf("Project:     %s\n", v.ProjectRoot))
	}
	sb.WriteString(fmt.Sprintf("Size:        %s\n", formatSize(v.SizeBytes)))
	if v.HasLockfile {
		sb.WriteString("Lockfile:    present\n")
	} else {
		sb.WriteString("Lockfile:    none\n")
	}
	if v.Active {
		sb.WriteString("Active:      yes\n")
	}

	return sb.String()
}

// RenderHealthSummary renders a colored one-line tier breakdown.
// Format: "HEALTHY: 5 · WARNING: 2 · NEEDS ATTENTION: 3"
func RenderHealthSummary(healthy, warning, attention int) string {
	var sb strings.Builder

	if IsColorEnabled() {
		sb.WriteString(fmt.Sprintf("%sHEALTHY%s: %d", colorGreen, colorReset, healthy))
		sb.WriteString(" · ")
		sb.WriteString(fmt.Sprintf("%sWARNING%s: %d", colorYellow, colorReset, warning))
		sb.WriteString(" · ")
		sb.WriteString(fmt.Sprintf("%sNEEDS ATTENTION%s: %d", colorRed, colorReset, attention))
	} else {
		sb.WriteString(fmt.Sprintf("HEALTHY: %d", healthy))
		sb.WriteString(" · ")
		sb.WriteString(fmt.Sprintf("WARNING: %d", warning))
		sb.WriteString(" · ")
		sb.WriteString(fmt.Sprintf("NEEDS ATTENTION: %d", attention))
	}

	return sb.String()
}

// RenderReclaimFooter renders the space summary under the candidate table.
// Sizes are cached values and may be stale or unmeasured.
func RenderReclaimFooter(count int, totalBytes int64) string {
	noun := "environments"
	if count == 1 {
		noun = "environment"
	}
	if totalBytes <= 0 {
		return fmt.Sprintf("Reclaimable: %d %s (sizes not measured, run uvve list --sizes)", count, noun)
	}
	return fmt.Sprintf("Reclaimable: %s across %d %s", formatSize(totalBytes), count, noun)
}

// formatSize converts cached byte counts to human-readable sizes. Zero means
// the environment was never measured.
func formatSize(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(bytes))
}

// formatRelativeTime converts an optional timestamp to relative time
// (e.g. "2 days ago"). A nil timestamp means never used.
func formatRelativeTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return humanize.Time(*t)
}

// formatDaysAgo renders a whole-day distance as the planner computed it, so
// the table agrees with the reasons column. Negative means never used.
func formatDaysAgo(days int) string {
	switch {
	case days < 0:
		return "never"
	case days == 0:
		return "today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// formatTierLabel returns the display label for a health tier.
func formatTierLabel(tier string) string {
	switch strings.ToLower(tier) {
	case "healthy":
		return "✓ healthy"
	case "warning":
		return "~ warning"
	case "needs-attention":
		return "⚠ attention"
	default:
		return tier
	}
}

// getTierColor returns the ANSI color code for a health tier.
func getTierColor(tier string) string {
	switch strings.ToLower(tier) {
	case "healthy":
		return colorGreen
	case "warning":
		return colorYellow
	case "needs-attention":
		return colorRed
	default:
		return colorGray
	}
}

// joinTags renders a tag set for a table cell.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
