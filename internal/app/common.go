package app

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uvve-dev/uvve/internal/analyzer"
	"github.com/uvve-dev/uvve/internal/config"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

// confirm prompts on stdin and accepts y or yes (case-insensitive).
// Anything else, including read errors, declines.
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// loadPolicy reads config.yaml under root and returns the effective
// cleanup policy. A missing config file yields the defaults.
func loadPolicy(root string) (analyzer.Policy, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return analyzer.Policy{}, err
	}
	return cfg.Policy(), nil
}

// currentEnvironment maps $VIRTUAL_ENV back to a managed environment name.
// It returns "" when no environment is active or the active venv does not
// live directly under envsRoot.
func currentEnvironment(envsRoot string) string {
	venv := os.Getenv("VIRTUAL_ENV")
	if venv == "" {
		return ""
	}
	rootAbs, err := filepath.Abs(envsRoot)
	if err != nil {
		return ""
	}
	parentAbs, err := filepath.Abs(filepath.Dir(venv))
	if err != nil {
		return ""
	}
	if parentAbs != rootAbs {
		return ""
	}
	return filepath.Base(venv)
}

// refreshSizes measures each environment on disk and persists the result
// as the new cached size. Failures are reported but never abort the
// caller: a stale size is better than no listing.
func refreshSizes(st *store.Store, prov *uv.Provisioner, records []*store.EnvironmentRecord) {
	for _, rec := range records {
		size, err := prov.SizeBytes(rec.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to measure %s: %v\n", rec.Name, err)
			continue
		}
		rec.SizeBytes = size
		if err := st.Save(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache size for %s: %v\n", rec.Name, err)
		}
	}
}
