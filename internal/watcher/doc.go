// Package watcher detects out-of-band changes to the envs root.
//
// uvve owns the directories under ~/.uvve/envs, but nothing stops a user
// from running `uv venv` straight into it or rm -rf'ing an environment.
// The Watcher subscribes to filesystem events on the envs root and, after a
// grace period, compares what it saw against the metadata store and the
// event ledger. A directory that appears without a metadata record is logged
// as drift-created; a managed directory that vanishes without a matching
// removal event is logged as drift-removed.
//
// Drift is recorded in the history ledger and logged, never repaired.
// Detection is best effort: a create slower than the grace period can be
// misreported, and `uvve doctor` remains the authoritative consistency check.
//
// Key features:
//   - fsnotify events on the envs root (no polling)
//   - Grace period so uvve's own operations settle before classification
//   - Drift events appended to the history ledger for later audit
//   - Daemon mode support with PID file management
//   - Graceful shutdown with SIGTERM/SIGINT handling
//
// Example usage:
//
//	w, err := watcher.New(envsDir, st, ledger, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Start watching in foreground
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
//
//	// Or start as daemon
//	if err := w.StartDaemon("~/.uvve/watch.pid", "~/.uvve/watch.log"); err != nil {
//		log.Fatal(err)
//	}
package watcher
