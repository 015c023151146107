package app

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/doctor"
	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
	"github.com/uvve-dev/uvve/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check on-disk state for inconsistencies",
	Long: `Run consistency checks over the uvve root.

Checks:
  • uv is installed and responding
  • every metadata record has its venv payload, and vice versa
  • metadata and lockfile documents parse
  • the history database opens and is readable

Findings are reported, never repaired: a partial removal or a rogue
directory needs a human decision. Exit code is 0 when everything
passes, 2 when there are only warnings, 1 on critical issues.`,
	Example: `  # Full diagnostics
  uvve doctor`,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Running uvve diagnostics...")
	fmt.Println()

	criticalIssues := 0
	warningIssues := 0

	root, err := uvveRoot()
	if err != nil {
		fmt.Printf("✗ Cannot resolve the uvve root: %v\n", err)
		return fmt.Errorf("diagnostics failed")
	}
	fmt.Printf("✓ Root: %s\n", root)

	// Everything except provisioning, lock, and thaw still works without
	// uv, so a missing binary is a warning rather than a failure.
	if uvVersion, err := uv.Version(); err != nil {
		fmt.Printf("⚠ uv not available: %v\n", err)
		fmt.Println("  Action: install uv (https://docs.astral.sh/uv/)")
		warningIssues++
	} else {
		fmt.Printf("✓ uv available: %s\n", uvVersion)
	}

	st := store.New(envsDir(root), clockwork.NewRealClock())
	prov := uv.NewProvisioner(envsDir(root))

	checker := &doctor.Checker{Store: st, Prov: prov}
	findings, err := checker.Run()
	switch {
	case err != nil:
		fmt.Printf("✗ Consistency check failed: %v\n", err)
		criticalIssues++
	case len(findings) == 0:
		fmt.Println("✓ Metadata and venvs are consistent")
	default:
		for _, f := range findings {
			if f.Critical() {
				fmt.Printf("✗ %s: %s\n    %s\n", f.Environment, f.Detail, f.Path)
				criticalIssues++
			} else {
				fmt.Printf("⚠ %s: %s\n    %s\n", f.Environment, f.Detail, f.Path)
				warningIssues++
			}
		}
		fmt.Println("  Action: review each finding; 'uvve remove --force <name>' clears a broken environment")
	}

	if ledger, err := history.Open(historyPath(root)); err != nil {
		fmt.Printf("✗ History database cannot be opened: %v\n", err)
		criticalIssues++
	} else {
		n, cerr := ledger.EventCount()
		ledger.Close()
		if cerr != nil {
			fmt.Printf("✗ History database is unreadable: %v\n", cerr)
			criticalIssues++
		} else {
			fmt.Printf("✓ History database OK (%d event(s))\n", n)
		}
	}

	// The drift watcher is optional, so not running is informational only.
	if running, err := watcher.IsDaemonRunning(defaultPIDFile(root)); err == nil && running {
		fmt.Println("✓ Drift watcher running")
	} else {
		fmt.Println("  (drift watcher not running; 'uvve watch --daemon' audits out-of-band changes)")
	}

	fmt.Println()
	if criticalIssues == 0 && warningIssues == 0 {
		fmt.Println("✓ All checks passed!")
		return nil
	}
	if criticalIssues > 0 {
		fmt.Printf("Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		return fmt.Errorf("diagnostics failed")
	}

	fmt.Printf("Found %d warning(s). uvve is usable, but take a look.\n", warningIssues)
	// Warnings only: exit 2 directly so main's error prefix stays out of
	// the report.
	os.Exit(2)
	return nil
}
