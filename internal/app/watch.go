package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/output"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/watcher"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchPIDFile     string
	watchLogFile     string
	watchStop        bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the envs root for out-of-band changes",
		Long: `Watch the envs root with filesystem events and record drift: venvs
that appear without a metadata record (created behind uvve's back)
and managed environments that disappear without 'uvve remove'.

Drift events go to the history ledger and the log. Detection is
advisory and best-effort; 'uvve doctor' stays the authoritative
consistency check.

Watch modes:
  • Foreground (default): run in the current terminal, Ctrl+C to stop
  • Daemon: run in the background with a PID file
  • Stop: stop a running daemon`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  uvve watch

  # Run as a background daemon
  uvve watch --daemon

  # Stop the daemon
  uvve watch --stop`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as a background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for the daemon child process")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: <root>/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: <root>/watch.log)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop a running daemon")

	watchCmd.Flags().MarkHidden("daemon-child") //nolint:errcheck

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := uvveRoot()
	if err != nil {
		return err
	}

	if watchPIDFile == "" {
		watchPIDFile = defaultPIDFile(root)
	}
	if watchLogFile == "" {
		watchLogFile = defaultLogFile(root)
	}

	if watchStop {
		return stopWatchDaemon()
	}

	clock := clockwork.NewRealClock()
	st := store.New(envsDir(root), clock)

	ledger, err := history.Open(historyPath(root))
	if err != nil {
		return err
	}
	defer ledger.Close()

	logger, err := watchLogger(watchDaemonChild)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	w, err := watcher.New(envsDir(root), st, ledger, logger)
	if err != nil {
		return err
	}

	if watchDaemon {
		return startWatchDaemon(w, root)
	}
	if watchDaemonChild {
		return w.RunDaemon(watchPIDFile)
	}
	return runWatchForeground(w)
}

// watchLogger builds the watcher's logger. The daemon child's stderr is
// redirected to the log file by its parent, so structured JSON goes
// there; foreground runs get console output.
func watchLogger(daemonChild bool) (*zap.Logger, error) {
	if daemonChild {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// startWatchDaemon spawns the background watcher and reports where its
// PID and log files live.
func startWatchDaemon(w *watcher.Watcher, root string) error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running (PID file: %s)", watchPIDFile)
	}

	// The child re-execs this binary; flags do not survive that, so the
	// resolved root rides along in the environment.
	os.Setenv("UVVE_ROOT", root) //nolint:errcheck

	spinner := output.NewSpinner("Starting drift watcher")
	spinner.Start()
	if err := w.StartDaemon(watchPIDFile, watchLogFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Drift watcher started")

	fmt.Println()
	fmt.Printf("  PID file: %s\n", watchPIDFile)
	fmt.Printf("  Log file: %s\n", watchLogFile)
	fmt.Println()
	fmt.Println("To stop: uvve watch --stop")
	return nil
}

// stopWatchDaemon stops the background watcher if one is running.
func stopWatchDaemon() error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Println("Drift watcher is not running.")
		return nil
	}

	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	fmt.Println("✓ Drift watcher stopped")
	return nil
}

// runWatchForeground runs the watcher in the current terminal until a
// signal arrives.
func runWatchForeground(w *watcher.Watcher) error {
	fmt.Println("Watching for out-of-band changes (press Ctrl+C to stop)...")

	if err := w.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	fmt.Printf("\nReceived signal %v, shutting down...\n", sig)

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}

	fmt.Println("Watcher stopped")
	return nil
}
