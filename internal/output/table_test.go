package output

import (
	"strings"
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestRenderEnvTable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		rows      []EnvRow
		showSizes bool
		contains  []string
	}{
		{
			name:     "empty listing",
			rows:     []EnvRow{},
			contains: []string{"No environments found"},
		},
		{
			name: "single environment",
			rows: []EnvRow{
				{
					Name:          "web",
					PythonVersion: "3.12.1",
					UsageCount:    47,
					LastUsed:      timePtr(now.Add(-48 * time.Hour)),
					Tags:          []string{"api", "prod"},
					Health:        "healthy",
				},
			},
			contains: []string{"web", "3.12.1", "47", "2 days ago", "api, prod", "✓ healthy"},
		},
		{
			name: "never used environment",
			rows: []EnvRow{
				{
					Name:          "scratch",
					PythonVersion: "3.11.8",
					UsageCount:    0,
					LastUsed:      nil,
					Health:        "needs-attention",
				},
			},
			contains: []string{"scratch", "never", "⚠ attention", "-"},
		},
		{
			name: "sizes column",
			rows: []EnvRow{
				{
					Name:          "ml",
					PythonVersion: "3.12.1",
					UsageCount:    3,
					LastUsed:      timePtr(now.Add(-1 * time.Hour)),
					SizeBytes:     250000000,
					Health:        "warning",
				},
			},
			showSizes: true,
			contains:  []string{"ml", "Size", "250 MB", "~ warning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderEnvTable(tt.rows, tt.showSizes)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("RenderEnvTable() missing expected string %q\nGot:\n%s", expected, result)
				}
			}
		})
	}
}

func TestRenderEnvTable_SortsByName(t *testing.T) {
	rows := []EnvRow{
		{Name: "zeta", PythonVersion: "3.12.1", Health: "healthy"},
		{Name: "alpha", PythonVersion: "3.12.1", Health: "healthy"},
	}

	result := RenderEnvTable(rows, false)
	if strings.Index(result, "alpha") > strings.Index(result, "zeta") {
		t.Errorf("rows should be sorted by name:\n%s", result)
	}
	if rows[0].Name != "zeta" {
		t.Error("input slice should not be reordered")
	}
}

func TestRenderCandidateTable(t *testing.T) {
	tests := []struct {
		name     string
		rows     []CandidateRow
		contains []string
	}{
		{
			name:     "no candidates",
			rows:     []CandidateRow{},
			contains: []string{"No cleanup candidates"},
		},
		{
			name: "never used candidate",
			rows: []CandidateRow{
				{
					Name:         "scratch",
					UsageCount:   0,
					DaysSinceUse: -1,
					Reasons:      []string{"never used"},
				},
			},
			contains: []string{"scratch", "never", "never used"},
		},
		{
			name: "stale candidate with reasons joined",
			rows: []CandidateRow{
				{
					Name:         "legacy-api",
					UsageCount:   3,
					DaysSinceUse: 120,
					SizeBytes:    250000000,
					Reasons:      []string{"no activation in 120 days", "only 3 activations"},
				},
			},
			contains: []string{"legacy-api", "120 days ago", "250 MB", "no activation in 120 days; only 3 activations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderCandidateTable(tt.rows)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("RenderCandidateTable() missing expected string %q\nGot:\n%s", expected, result)
				}
			}
		})
	}
}

func TestRenderCandidateTable_PreservesOrder(t *testing.T) {
	rows := []CandidateRow{
		{Name: "second-oldest", DaysSinceUse: 200, Reasons: []string{"stale"}},
		{Name: "also-old", DaysSinceUse: 100, Reasons: []string{"stale"}},
	}

	result := RenderCandidateTable(rows)
	if strings.Index(result, "second-oldest") > strings.Index(result, "also-old") {
		t.Errorf("candidate order should be preserved:\n%s", result)
	}
}

func TestRenderStatus(t *testing.T) {
	created := time.Now().Add(-90 * 24 * time.Hour)
	lastUsed := time.Now().Add(-48 * time.Hour)

	v := StatusView{
		Name:          "web",
		Description:   "production API environment",
		PythonVersion: "3.12.1",
		Health:        "healthy",
		CreatedAt:     created,
		LastUsed:      &lastUsed,
		UsageCount:    47,
		AgeDays:       90,
		Frequency:     "daily",
		Tags:          []string{"api", "prod"},
		ProjectRoot:   "/home/dev/src/web",
		SizeBytes:     250000000,
		HasLockfile:   true,
	}

	result := RenderStatus(v)
	for _, expected := range []string{
		"Environment: web",
		"Description: production API environment",
		"Python:      3.12.1",
		"✓ healthy",
		"2 days ago",
		"Activations: 47 (daily)",
		"Age:         90 days",
		"api, prod",
		"/home/dev/src/web",
		"250 MB",
		"Lockfile:    present",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderStatus() missing %q\nGot:\n%s", expected, result)
		}
	}
	if strings.Contains(result, "Active:") {
		t.Errorf("inactive environment should not show Active line:\n%s", result)
	}
}

func TestRenderStatus_MinimalRecord(t *testing.T) {
	v := StatusView{
		Name:          "scratch",
		PythonVersion: "3.11.8",
		Health:        "needs-attention",
		CreatedAt:     time.Now().Add(-time.Hour),
		UsageCount:    0,
		Frequency:     "never",
		Active:        true,
	}

	result := RenderStatus(v)
	if strings.Contains(result, "Description:") {
		t.Errorf("empty description should be omitted:\n%s", result)
	}
	if strings.Contains(result, "Project:") {
		t.Errorf("empty project root should be omitted:\n%s", result)
	}
	for _, expected := range []string{"Last used:   never", "Lockfile:    none", "Active:      yes", "Size:        -"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderStatus() missing %q\nGot:\n%s", expected, result)
		}
	}
}

func TestRenderHealthSummary(t *testing.T) {
	result := RenderHealthSummary(5, 2, 3)

	for _, expected := range []string{"HEALTHY: 5", "WARNING: 2", "NEEDS ATTENTION: 3"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderHealthSummary() missing %q, got: %q", expected, result)
		}
	}
}

func TestRenderReclaimFooter(t *testing.T) {
	tests := []struct {
		name  string
		count int
		bytes int64
		want  string
	}{
		{"measured sizes", 3, 250000000, "Reclaimable: 250 MB across 3 environments"},
		{"single environment", 1, 1048576, "Reclaimable: 1.0 MB across 1 environment"},
		{"unmeasured", 2, 0, "Reclaimable: 2 environments (sizes not measured, run uvve list --sizes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderReclaimFooter(tt.count, tt.bytes)
			if got != tt.want {
				t.Errorf("RenderReclaimFooter(%d, %d) = %q, want %q", tt.count, tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"unmeasured", 0, "-"},
		{"bytes", 512, "512 B"},
		{"megabytes", 1048576, "1.0 MB"},
		{"round megabytes", 250000000, "250 MB"},
		{"gigabytes", 2147483648, "2.1 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSize(tt.bytes)
			if got != tt.want {
				t.Errorf("formatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatRelativeTime(t *testing.T) {
	if got := formatRelativeTime(nil); got != "never" {
		t.Errorf("formatRelativeTime(nil) = %q, want never", got)
	}

	twoDays := time.Now().Add(-48 * time.Hour)
	if got := formatRelativeTime(&twoDays); got != "2 days ago" {
		t.Errorf("formatRelativeTime(-48h) = %q, want 2 days ago", got)
	}
}

func TestFormatDaysAgo(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-1, "never"},
		{0, "today"},
		{1, "1 day ago"},
		{45, "45 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatDaysAgo(tt.days)
			if got != tt.want {
				t.Errorf("formatDaysAgo(%d) = %q, want %q", tt.days, got, tt.want)
			}
		})
	}
}

func TestFormatTierLabel(t *testing.T) {
	tests := []struct {
		tier string
		want string
	}{
		{"healthy", "✓ healthy"},
		{"warning", "~ warning"},
		{"needs-attention", "⚠ attention"},
		{"HEALTHY", "✓ healthy"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			got := formatTierLabel(tt.tier)
			if got != tt.want {
				t.Errorf("formatTierLabel(%q) = %q, want %q", tt.tier, got, tt.want)
			}
		})
	}
}

func TestGetTierColor(t *testing.T) {
	tests := []struct {
		tier string
		want string
	}{
		{"healthy", colorGreen},
		{"warning", colorYellow},
		{"needs-attention", colorRed},
		{"NEEDS-ATTENTION", colorRed},
		{"unknown", colorGray},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			got := getTierColor(tt.tier)
			if got != tt.want {
				t.Errorf("getTierColor(%q) = %q, want %q", tt.tier, got, tt.want)
			}
		})
	}
}

func TestJoinTags(t *testing.T) {
	if got := joinTags(nil); got != "-" {
		t.Errorf("joinTags(nil) = %q, want -", got)
	}
	if got := joinTags([]string{"api", "prod"}); got != "api, prod" {
		t.Errorf("joinTags() = %q, want api, prod", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"equal to max", "hello", 5, "hello"},
		{"longer than max", "hello world", 8, "hello..."},
		{"very short max", "hello", 2, "he"},
		{"max of 3", "hello", 3, "hel"},
		{"max of 4", "hello world", 4, "h..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
