package app

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/analyzer"
	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var (
	cleanupDryRun          bool
	cleanupForce           bool
	cleanupIncludeLowUsage bool
	cleanupStaleDays       int
	cleanupCriticalDays    int

	cleanupCmd = &cobra.Command{
		Use:   "cleanup",
		Short: "Plan and remove unused environments",
		Long: `Find environments that qualify for removal and remove them after
confirmation.

An environment qualifies when it was never used, or when its last
activation is older than the critical threshold. With
--include-low-usage, a very low lifetime activation count qualifies
on its own. Every candidate is listed with the full set of reasons it
matched, most stale first, so the plan is reviewable before anything
is deleted.

Thresholds default from config.yaml under the uvve root; the flags
override them for this run only.`,
		Example: `  # Review the plan without removing anything
  uvve cleanup --dry-run

  # Remove after one confirmation
  uvve cleanup

  # More aggressive: barely-used environments qualify too
  uvve cleanup --include-low-usage --dry-run

  # Tighter window, no prompt
  uvve cleanup --critical-days 45 --force`,
		RunE: runCleanup,
	}
)

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "show the plan without removing anything")
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "skip the confirmation prompt")
	cleanupCmd.Flags().BoolVar(&cleanupIncludeLowUsage, "include-low-usage", false, "let a low activation count alone qualify an environment")
	cleanupCmd.Flags().IntVar(&cleanupStaleDays, "stale-days", 0, "override the stale threshold in days")
	cleanupCmd.Flags().IntVar(&cleanupCriticalDays, "critical-days", 0, "override the critical threshold in days")

	RootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("stale-days") && cleanupStaleDays <= 0 {
		return fmt.Errorf("invalid --stale-days value: %d (must be positive)", cleanupStaleDays)
	}
	if cmd.Flags().Changed("critical-days") && cleanupCriticalDays <= 0 {
		return fmt.Errorf("invalid --critical-days value: %d (must be positive)", cleanupCriticalDays)
	}

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)
	prov := uv.NewProvisioner(envsDir(root))

	base, err := loadPolicy(root)
	if err != nil {
		return err
	}
	policy := overridePolicy(base, cleanupStaleDays, cleanupCriticalDays, cleanupIncludeLowUsage)

	records, err := st.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No environments found. Nothing to clean up.")
		return nil
	}

	candidates := analyzer.Plan(records, clock.Now().UTC(), policy)
	if len(candidates) == 0 {
		fmt.Println("No cleanup candidates. Every environment is in recent use.")
		return nil
	}

	measureCandidates(st, prov, candidates)

	fmt.Print(output.RenderCandidateTable(candidateRows(candidates)))
	fmt.Println()

	var total int64
	for _, c := range candidates {
		total += c.SizeBytes
	}
	fmt.Println(output.RenderReclaimFooter(len(candidates), total))

	if cleanupDryRun {
		fmt.Println()
		fmt.Println("Dry-run mode: no environments will be removed.")
		return nil
	}

	fmt.Println()
	if !cleanupForce {
		if !confirm(fmt.Sprintf("Remove %d environment(s)?", len(candidates))) {
			fmt.Println("Cleanup cancelled.")
			return nil
		}
	}

	ledger, lerr := history.Open(historyPath(root))
	if lerr != nil {
		fmt.Fprintf(os.Stderr, "Warning: history ledger unavailable, removals will not be recorded: %v\n", lerr)
	} else {
		defer ledger.Close()
	}

	progress := output.NewProgress(len(candidates), "Removing environments")
	removed := 0
	var freed int64
	var failures []string
	for _, c := range candidates {
		if err := prov.Remove(c.Name); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", c.Name, err))
			progress.Increment()
			continue
		}
		if ledger != nil {
			if aerr := ledger.Append(c.Name, history.KindRemoved, clock.Now().UTC()); aerr != nil {
				fmt.Fprintf(os.Stderr, "Warning: removed %s but failed to record the event: %v\n", c.Name, aerr)
			}
		}
		removed++
		freed += c.SizeBytes
		progress.Increment()
	}
	progress.Finish()

	fmt.Println()
	if freed > 0 {
		fmt.Printf("✓ Removed %d environment(s), freed %s\n", removed, humanize.Bytes(uint64(freed)))
	} else {
		fmt.Printf("✓ Removed %d environment(s)\n", removed)
	}
	if len(failures) > 0 {
		fmt.Printf("⚠ %d removal(s) failed:\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		return fmt.Errorf("cleanup finished with %d failure(s)", len(failures))
	}
	return nil
}

// overridePolicy layers per-run flag overrides onto the configured policy.
// Zero means the flag was not set.
func overridePolicy(base analyzer.Policy, staleDays, criticalDays int, includeLowUsage bool) analyzer.Policy {
	p := base
	if staleDays > 0 {
		p.StaleDays = staleDays
	}
	if criticalDays > 0 {
		p.CriticalDays = criticalDays
	}
	if includeLowUsage {
		p.IncludeLowUsage = true
	}
	return p
}

// candidateRows converts plan candidates into table rows, flattening the
// reason set into display strings.
func candidateRows(candidates []analyzer.Candidate) []output.CandidateRow {
	rows := make([]output.CandidateRow, len(candidates))
	for i, c := range candidates {
		reasons := make([]string, len(c.Reasons))
		for j, r := range c.Reasons {
			reasons[j] = r.String()
		}
		rows[i] = output.CandidateRow{
			Name:         c.Name,
			UsageCount:   c.UsageCount,
			DaysSinceUse: c.DaysSinceUse,
			SizeBytes:    c.SizeBytes,
			Reasons:      reasons,
		}
	}
	return rows
}

// measureCandidates refreshes the size cache for each candidate so the
// reclaim figures reflect what deletion would actually free.
func measureCandidates(st *store.Store, prov *uv.Provisioner, candidates []analyzer.Candidate) {
	for i := range candidates {
		size, err := prov.SizeBytes(candidates[i].Name)
		if err != nil {
			continue
		}
		candidates[i].SizeBytes = size
		rec, err := st.Load(candidates[i].Name)
		if err != nil {
			continue
		}
		rec.SizeBytes = size
		if err := st.Save(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache size for %s: %v\n", rec.Name, err)
		}
	}
}
