package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/uvve-dev/uvve/internal/store"
)

// version is the uvve release. It is reported by --version and stamped
// into generated lockfiles.
const version = "0.4.0"

var (
	rootDir string

	// RootCmd is the root command for uvve
	RootCmd = &cobra.Command{
		Use:   "uvve",
		Short: "Python virtual environment manager with usage analytics",
		Long: `uvve manages named Python virtual environments provisioned with uv,
tracking how often each one is actually used.

Environments live under ~/.uvve/envs, one directory per environment,
with a metadata record stored next to the venv itself. Every
'uvve activate' counts as one use; health tiers (healthy, warning,
needs attention) and cleanup recommendations are derived from that
history. Lockfiles capture the exact package set for rebuilding an
environment on another machine.

Quick Start:
  1. uvve create web 3.11.0
  2. eval "$(uvve activate web)"
  3. uvve list
  4. uvve lock web

Features:
  • One-command venv provisioning via uv
  • Per-environment activation tracking and health tiers
  • Cleanup planning with full reasons, dry-run first
  • TOML lockfiles with freeze/thaw reproduction
  • Drift watcher for out-of-band changes under the envs root

Examples:
  # List environments with health tiers
  uvve list

  # Fleet overview: totals, health, disk
  uvve status

  # Review what cleanup would remove
  uvve cleanup --dry-run

  # Capture the exact package set
  uvve lock web

  # Rebuild it elsewhere
  uvve thaw web`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := uvveRoot()
			if err != nil {
				return err
			}
			st := store.New(envsDir(root), clockwork.NewRealClock())
			records, err := st.List()
			if err != nil || len(records) == 0 {
				fmt.Println("uvve: Python virtual environment manager with usage analytics")
				fmt.Println()
				fmt.Println("Run 'uvve create <name> <python>' to create your first environment.")
				fmt.Println("Run 'uvve --help' for the full reference.")
				return nil
			}
			fmt.Println("uvve: Python virtual environment manager with usage analytics")
			fmt.Println()
			fmt.Printf("Tip: %d environment(s) under management.\n", len(records))
			fmt.Println("     Run 'uvve list' to see them with health tiers.")
			fmt.Println("     Run 'uvve status' for the fleet overview.")
			fmt.Println("     Run 'uvve --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "uvve state root (default: $UVVE_ROOT or ~/.uvve)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// uvveRoot resolves the state root: the --root flag wins, then UVVE_ROOT,
// then ~/.uvve. The directory is created so callers can assume it exists.
func uvveRoot() (string, error) {
	dir := rootDir
	if dir == "" {
		dir = os.Getenv("UVVE_ROOT")
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, ".uvve")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uvve root %s: %w", dir, err)
	}
	return dir, nil
}

// envsDir returns the directory holding one subdirectory per environment.
func envsDir(root string) string {
	return filepath.Join(root, "envs")
}

// historyPath returns the path of the activation event database.
func historyPath(root string) string {
	return filepath.Join(root, "usage.db")
}

// defaultPIDFile returns the default watch daemon PID file path.
func defaultPIDFile(root string) string {
	return filepath.Join(root, "watch.pid")
}

// defaultLogFile returns the default watch daemon log file path.
func defaultLogFile(root string) string {
	return filepath.Join(root, "watch.log")
}
