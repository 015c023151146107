package app

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/shell"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/usage"
	"github.com/uvve-dev/uvve/internal/uv"
)

var activateCmd = &cobra.Command{
	Use:   "activate <name>",
	Short: "Record an activation and print the shell line to source it",
	Long: `Record one activation of the environment and print the line that
sources its activate script.

Only the activation line goes to stdout, so the command composes with
eval; everything else goes to stderr. Each run counts as one use:
last_used is set to now and the activation count goes up by one. The
script variant follows $SHELL (bash/zsh, fish, csh).`,
	Example: `  # Activate in the current shell
  eval "$(uvve activate web)"`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

func init() {
	RootCmd.AddCommand(activateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	name := args[0]

	root, err := uvveRoot()
	if err != nil {
		return err
	}
	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)
	prov := uv.NewProvisioner(envsDir(root))

	if !st.Exists(name) {
		if prov.Exists(name) {
			return fmt.Errorf("%q has a venv but no metadata record; run 'uvve doctor'", name)
		}
		return fmt.Errorf("environment %q not found; run 'uvve list' to see what exists", name)
	}
	if !prov.Exists(name) {
		return fmt.Errorf("%q has metadata but no venv payload; run 'uvve doctor'", name)
	}

	ledger, err := history.Open(historyPath(root))
	if err != nil {
		return err
	}
	defer ledger.Close()

	tracker := usage.NewTracker(st, ledger, clock)
	rec, err := tracker.RecordActivation(name)
	if err != nil {
		if rec == nil {
			return err
		}
		// The record was updated; only the ledger append failed. The
		// activation still counts, so print the line and warn on stderr.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	fmt.Println(shell.ActivationLine(st.Dir(name)))
	return nil
}
