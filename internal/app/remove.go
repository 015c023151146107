package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

var (
	removeForce  bool
	removeDryRun bool

	removeCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an environment and its metadata",
		Long: `Remove an environment. The venv payload, the metadata record, and the
lockfile all live in the environment directory and are deleted
together.

Removal asks for confirmation unless --force is set. --dry-run shows
what would be removed without touching anything. An environment whose
metadata no longer parses can only be removed with --force.`,
		Example: `  # Remove with confirmation
  uvve remove old-api

  # Preview only
  uvve remove old-api --dry-run

  # Skip the prompt
  uvve remove old-api --force`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}
)

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "skip the confirmation prompt")
	removeCmd.Flags().BoolVar(&removeDryRun, "dry-run", false, "show what would be removed without removing")

	RootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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
		switch {
		case errors.Is(err, store.ErrCorrupt) && removeForce:
			// Unreadable metadata; --force removes the directory wholesale.
			rec = nil
		case errors.Is(err, store.ErrCorrupt):
			return fmt.Errorf("%v\nmetadata is unreadable; rerun with --force to remove the environment anyway", err)
		case errors.Is(err, store.ErrNotFound) && prov.Exists(name):
			return fmt.Errorf("%q has a venv but no metadata record; run 'uvve doctor' before deleting anything", name)
		default:
			return err
		}
	}

	size := int64(0)
	if rec != nil {
		size = rec.SizeBytes
	}
	if size == 0 {
		if measured, err := prov.SizeBytes(name); err == nil {
			size = measured
		}
	}

	if rec != nil {
		fmt.Printf("Environment: %s (python %s)\n", rec.Name, rec.PythonVersion)
		fmt.Printf("  Activations: %d\n", rec.UsageCount)
		if rec.LastUsed != nil {
			fmt.Printf("  Last used:   %s\n", humanize.Time(*rec.LastUsed))
		} else {
			fmt.Printf("  Last used:   never\n")
		}
	} else {
		fmt.Printf("Environment: %s (metadata unreadable)\n", name)
	}
	if size > 0 {
		fmt.Printf("  Size:        %s\n", humanize.Bytes(uint64(size)))
	}
	if st.HasLockfile(name) {
		fmt.Printf("  Lockfile:    present (removed with the environment)\n")
	}
	fmt.Println()

	if removeDryRun {
		fmt.Println("Dry-run mode: nothing was removed.")
		return nil
	}

	if !removeForce {
		if !confirm(fmt.Sprintf("Remove %s?", name)) {
			fmt.Println("Removal cancelled.")
			return nil
		}
	}

	if err := prov.Remove(name); err != nil {
		return err
	}

	if ledger, err := history.Open(historyPath(root)); err == nil {
		defer ledger.Close()
		if aerr := ledger.Append(name, history.KindRemoved, clock.Now().UTC()); aerr != nil {
			fmt.Fprintf(os.Stderr, "Warning: removed %s but failed to record the event: %v\n", name, aerr)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Warning: removed %s but the history ledger failed to open: %v\n", name, err)
	}

	if size > 0 {
		fmt.Printf("✓ Removed %s, freed %s\n", name, humanize.Bytes(uint64(size)))
	} else {
		fmt.Printf("✓ Removed %s\n", name)
	}
	return nil
}
