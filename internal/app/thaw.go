package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/lockfile"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var (
	thawStrict bool
	thawDryRun bool

	thawCmd = &cobra.Command{
		Use:   "thaw <name>",
		Short: "Rebuild an environment's packages from its lockfile",
		Long: `Install the exact package set recorded in the environment's lockfile.

If the environment no longer exists it is provisioned first, using
the python version from the lockfile. A python version or platform
mismatch between the lockfile and the target is an advisory: the thaw
proceeds with a warning unless --strict makes it fatal.`,
		Example: `  # Rebuild packages from the lockfile
  uvve thaw web

  # Show the install plan only
  uvve thaw web --dry-run

  # Treat advisories as fatal
  uvve thaw web --strict`,
		Args: cobra.ExactArgs(1),
		RunE: runThaw,
	}
)

func init() {
	thawCmd.Flags().BoolVar(&thawStrict, "strict", false, "abort when the lockfile does not match the target")
	thawCmd.Flags().BoolVar(&thawDryRun, "dry-run", false, "print the install plan without installing")

	RootCmd.AddCommand(thawCmd)
}

func runThaw(cmd *cobra.Command, args []string) error {
	name := args[0]

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)
	prov := uv.NewProvisioner(envsDir(root))

	data, err := st.ReadLockfile(name)
	if err != nil {
		if errors.Is(err, store.ErrNoLockfile) {
			return fmt.Errorf("no lockfile for %q; run 'uvve lock %s' first", name, name)
		}
		return err
	}
	snap, err := lockfile.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", st.LockfilePath(name), err)
	}

	var rec *store.EnvironmentRecord
	targetPython := ""
	rec, err = st.Load(name)
	switch {
	case err == nil:
		targetPython = rec.PythonVersion
	case errors.Is(err, store.ErrNotFound):
		// Environment is gone; it will be provisioned from the snapshot.
		rec = nil
	default:
		return err
	}

	plan := lockfile.Thaw(snap, targetPython, lockfile.CurrentPlatform())
	for _, w := range plan.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
	}
	if thawStrict && len(plan.Warnings) > 0 {
		return fmt.Errorf("thaw aborted: %d mismatch(es) with --strict set", len(plan.Warnings))
	}

	if thawDryRun {
		fmt.Printf("Install plan for %s (python %s):\n", name, plan.PythonVersion)
		for _, spec := range plan.Specs {
			fmt.Printf("  %s\n", spec)
		}
		fmt.Println()
		fmt.Println("Dry-run mode: nothing will be installed.")
		return nil
	}

	if rec == nil {
		spinner := output.NewSpinner(fmt.Sprintf("Recreating environment %s (python %s)", name, plan.PythonVersion))
		spinner.Start()
		if err := prov.Create(name, plan.PythonVersion); err != nil {
			spinner.Stop()
			return err
		}
		if _, err := st.Create(name, plan.PythonVersion, store.CreateOptions{}); err != nil {
			spinner.Stop()
			if rmErr := prov.Remove(name); rmErr != nil {
				return fmt.Errorf("metadata creation failed (%v); venv rollback also failed: %w", err, rmErr)
			}
			return fmt.Errorf("failed to create metadata for %s: %w", name, err)
		}
		spinner.StopWithMessage(fmt.Sprintf("✓ Environment %s recreated", name))

		if ledger, lerr := history.Open(historyPath(root)); lerr == nil {
			if aerr := ledger.Append(name, history.KindCreated, clock.Now().UTC()); aerr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to record the creation event: %v\n", aerr)
			}
			ledger.Close()
		} else {
			fmt.Fprintf(os.Stderr, "Warning: history ledger unavailable: %v\n", lerr)
		}
	}

	if len(plan.Specs) == 0 {
		fmt.Printf("✓ Thawed %s: lockfile has no packages, nothing to install\n", name)
		return nil
	}

	spinner := output.NewSpinner(fmt.Sprintf("Installing %d package(s) into %s", len(plan.Specs), name))
	spinner.Start()
	if err := prov.InstallPackages(name, plan.Specs); err != nil {
		spinner.Stop()
		return err
	}
	spinner.StopWithMessage(fmt.Sprintf("✓ Thawed %s: %d package(s) installed", name, len(plan.Specs)))
	return nil
}
