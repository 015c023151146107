package app

import (
	"fmt"
	"os"
	"sort"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze <name>",
	Short: "Print the installed packages as exact pins",
	Long: `Print the environment's currently installed packages in requirements
format (name==version), sorted by name.

Unlike 'uvve lock' this writes nothing. It is the quick way to see
what is installed, or to pipe pins into another tool.`,
	Example: `  # Show installed packages
  uvve freeze web

  # Feed them to something else
  uvve freeze web > requirements.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runFreeze,
}

func init() {
	RootCmd.AddCommand(freezeCmd)
}

func runFreeze(cmd *cobra.Command, args []string) error {
	name := args[0]

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	st := store.New(envsDir(root), clockwork.NewRealClock())
	prov := uv.NewProvisioner(envsDir(root))

	if !st.Exists(name) && !prov.Exists(name) {
		return fmt.Errorf("environment %q not found; run 'uvve list' to see what exists", name)
	}

	deps, err := prov.SnapshotDependencies(name)
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		fmt.Fprintln(os.Stderr, "No packages installed.")
		return nil
	}

	pkgs := lockfilePackages(deps)
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	for _, p := range pkgs {
		fmt.Println(p.Spec())
	}
	return nil
}
