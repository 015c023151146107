package uv

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Package is one installed distribution as reported by uv.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// SnapshotDependencies lists every package installed in the environment,
// in uv's reporting order. Lockfile generation sorts; this does not.
func (p *Provisioner) SnapshotDependencies(name string) ([]Package, error) {
	cmd := exec.Command("uv", "pip", "list", "--format", "json", "--python", p.PythonPath(name))
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("uv pip list failed for %s: %w (stderr: %s)", name, err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("uv pip list failed for %s: %w", name, err)
	}

	return parsePipList(output)
}

// parsePipList decodes `uv pip list --format json` output.
func parsePipList(output []byte) ([]Package, error) {
	var packages []Package
	if err := json.Unmarshal(output, &packages); err != nil {
		return nil, fmt.Errorf("failed to parse uv pip list output: %w", err)
	}
	return packages, nil
}

// Version returns the uv version string, e.g. "0.5.9".
func Version() (string, error) {
	cmd := exec.Command("uv", "--version")
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("uv --version failed: %w (stderr: %s)", err, string(exitErr.Stderr))
		}
		return "", fmt.Errorf("uv --version failed: %w", err)
	}

	return parseVersion(string(output))
}

// parseVersion extracts the bare version from "uv 0.5.9 (hash date)" style
// output.
func parseVersion(output string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || fields[0] != "uv" {
		return "", fmt.Errorf("unexpected uv --version output: %q", output)
	}
	return fields[1], nil
}
