package app

import (
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var addCmd = &cobra.Command{
	Use:   "add <package>...",
	Short: "Install packages into the active environment",
	Long: `Install packages into the environment active in this shell.

The active environment is detected from $VIRTUAL_ENV, so this only
works after 'eval "$(uvve activate <name>)"'. Specs are passed to uv
verbatim: bare names, pins like django==4.2, extras, and so on.

The lockfile is not updated automatically; run 'uvve lock' afterwards
to capture the new set.`,
	Example: `  # Install into the active environment
  uvve add requests

  # Several at once, with a pin
  uvve add "django==4.2" pytest`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	RootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	root, err := uvveRoot()
	if err != nil {
		return err
	}
	st := store.New(envsDir(root), clockwork.NewRealClock())
	prov := uv.NewProvisioner(envsDir(root))

	name := currentEnvironment(envsDir(root))
	if name == "" {
		return fmt.Errorf("no uvve environment is active; run 'eval \"$(uvve activate <name>)\"' first")
	}
	if !st.Exists(name) {
		return fmt.Errorf("active environment %q has no metadata record; run 'uvve doctor'", name)
	}

	spinner := output.NewSpinner(fmt.Sprintf("Installing %s into %s", strings.Join(args, ", "), name))
	spinner.Start()
	if err := prov.InstallPackages(name, args); err != nil {
		spinner.Stop()
		return err
	}
	spinner.StopWithMessage(fmt.Sprintf("✓ Added %s to %s", strings.Join(args, ", "), name))

	if st.HasLockfile(name) {
		fmt.Printf("Note: the lockfile is now stale; run 'uvve lock %s' to refresh it.\n", name)
	}
	return nil
}
