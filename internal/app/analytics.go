package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/analyzer"
	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/usage"
	"github.com/uvve-dev/uvve/internal/uv"
)

var (
	analyticsDays int

	analyticsCmd = &cobra.Command{
		Use:   "analytics [name]",
		Short: "Show usage analytics for one environment or the fleet",
		Long: `With a name, show the full detail for that environment: health tier,
activation count and frequency, age, size, lockfile presence, and a
day-by-day activation trend from the event ledger.

Without a name, show fleet-level analytics: the health breakdown,
usage efficiency, and the most active environments.`,
		Example: `  # Fleet analytics
  uvve analytics

  # One environment in detail
  uvve analytics web

  # Longer trend window
  uvve analytics web --days 90`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalytics,
	}
)

func init() {
	analyticsCmd.Flags().IntVar(&analyticsDays, "days", 30, "time window for the activation trend")

	RootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	if analyticsDays <= 0 {
		return fmt.Errorf("invalid days value: %d (must be positive)", analyticsDays)
	}

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)

	policy, err := loadPolicy(root)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return environmentAnalytics(root, st, args[0], clock.Now().UTC(), policy)
	}
	return fleetAnalytics(st, clock.Now().UTC(), policy)
}

func environmentAnalytics(root string, st *store.Store, name string, now time.Time, policy analyzer.Policy) error {
	rec, err := st.Load(name)
	if err != nil {
		return err
	}

	prov := uv.NewProvisioner(envsDir(root))
	if size, err := prov.SizeBytes(name); err == nil {
		rec.SizeBytes = size
		if err := st.Save(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache size for %s: %v\n", name, err)
		}
	}

	m := usage.ComputeMetrics(rec, now)
	view := output.StatusView{
		Name:          rec.Name,
		Description:   rec.Description,
		PythonVersion: rec.PythonVersion,
		Health:        string(analyzer.Classify(rec, now, policy)),
		CreatedAt:     rec.CreatedAt,
		LastUsed:      rec.LastUsed,
		UsageCount:    rec.UsageCount,
		AgeDays:       m.AgeDays,
		Frequency:     usage.FrequencyLabel(m),
		Tags:          rec.Tags,
		ProjectRoot:   rec.ProjectRoot,
		SizeBytes:     rec.SizeBytes,
		HasLockfile:   st.HasLockfile(name),
		Active:        currentEnvironment(envsDir(root)) == name,
	}
	fmt.Print(output.RenderStatus(view))

	ledger, err := history.Open(historyPath(root))
	if err != nil {
		return err
	}
	defer ledger.Close()

	counts, err := ledger.ActivationsByDay(name, analyticsDays, now)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Trend:       %s  (last %d days, oldest first)\n", trendLine(counts, analyticsDays, now), analyticsDays)
	return nil
}

func fleetAnalytics(st *store.Store, now time.Time, policy analyzer.Policy) error {
	records, err := st.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No environments found. Run 'uvve create <name> <python>' to create one.")
		return nil
	}

	summary := analyzer.Summarize(records, now, policy)

	fmt.Println("Environment Usage Analytics")
	fmt.Println()
	fmt.Printf("Environments: %d\n", summary.Total)
	fmt.Printf("Health:       %s\n", output.RenderHealthSummary(summary.Healthy, summary.Warning, summary.NeedsAttention))
	fmt.Printf("Efficiency:   %.0f%% activated in the last %d days\n", summary.Efficiency(), policy.StaleDays)
	if summary.TotalSizeBytes > 0 {
		fmt.Printf("Disk:         %s\n", humanize.Bytes(uint64(summary.TotalSizeBytes)))
	}

	fmt.Println()
	fmt.Println("Most active:")
	for i, rec := range analyzer.MostUsed(records, 5) {
		lastUsed := "never used"
		if rec.LastUsed != nil {
			lastUsed = "last used " + humanize.Time(*rec.LastUsed)
		}
		fmt.Printf("  %d. %-20s %4d activation(s), %s\n", i+1, rec.Name, rec.UsageCount, lastUsed)
	}

	if summary.Unused > 0 {
		fmt.Println()
		fmt.Printf("%d environment(s) sit unused. Review them with 'uvve cleanup --dry-run'.\n", summary.Unused)
	}
	return nil
}

// trendLine renders the trailing window as one character per day, oldest
// first: '.' for idle days, digits for 1-9 activations, '+' for ten or
// more.
func trendLine(counts []history.DayCount, days int, now time.Time) string {
	byDay := make(map[string]int, len(counts))
	for _, dc := range counts {
		byDay[dc.Day] = dc.Count
	}

	var sb strings.Builder
	for i := days - 1; i >= 0; i-- {
		day := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		n := byDay[day]
		switch {
		case n == 0:
			sb.WriteByte('.')
		case n > 9:
			sb.WriteByte('+')
		default:
			sb.WriteByte(byte('0' + n))
		}
	}
	return sb.String()
}
