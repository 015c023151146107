package app

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/lockfile"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var lockCmd = &cobra.Command{
	Use:   "lock <name>",
	Short: "Write a lockfile capturing the exact package set",
	Long: `Capture the environment's installed packages as exact pins in a TOML
lockfile (uvve.lock) inside the environment directory.

The lockfile records the python version and the platform it was
captured on; 'uvve thaw' warns when either differs at restore time.
Packages are sorted by name so lockfiles diff cleanly. Locking again
overwrites the previous lockfile.`,
	Example: `  # Capture the current package set
  uvve lock web

  # Rebuild from it later, here or on another machine
  uvve thaw web`,
	Args: cobra.ExactArgs(1),
	RunE: runLock,
}

func init() {
	RootCmd.AddCommand(lockCmd)
}

func runLock(cmd *cobra.Command, args []string) error {
	name := args[0]

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)
	prov := uv.NewProvisioner(envsDir(root))

	rec, err := st.Load(name)
	if err != nil {
		return err
	}
	if !prov.Exists(name) {
		return fmt.Errorf("%q has metadata but no venv payload; run 'uvve doctor'", name)
	}

	spinner := output.NewSpinner(fmt.Sprintf("Inspecting packages in %s", name))
	spinner.Start()
	deps, err := prov.SnapshotDependencies(name)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.Stop()

	snap := lockfile.Generate(rec, lockfilePackages(deps), clock, lockfile.CurrentPlatform(), version)
	data, err := lockfile.Marshal(snap)
	if err != nil {
		return err
	}
	if err := st.WriteLockfile(name, data); err != nil {
		return err
	}

	fmt.Printf("✓ Locked %s: %d package(s)\n", name, len(snap.Packages))
	fmt.Printf("  %s\n", st.LockfilePath(name))
	return nil
}

// lockfilePackages converts uv's package listing into lockfile pins.
func lockfilePackages(deps []uv.Package) []lockfile.Package {
	pkgs := make([]lockfile.Package, len(deps))
	for i, d := range deps {
		pkgs[i] = lockfile.Package{Name: d.Name, Version: d.Version}
	}
	return pkgs
}
