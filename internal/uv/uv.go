// Package uv shells out to the uv tool for everything that touches venv
// payloads: provisioning, package installs, and dependency introspection.
// The core packages never exec uv themselves; they receive its results.
package uv

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// Provisioner creates and destroys environments under a single envs root.
type Provisioner struct {
	root string
}

// NewProvisioner returns a Provisioner rooted at the envs directory.
func NewProvisioner(root string) *Provisioner {
	return &Provisioner{root: root}
}

// Dir returns the directory the named environment lives in.
func (p *Provisioner) Dir(name string) string {
	return filepath.Join(p.root, name)
}

// PythonPath returns the interpreter path inside the environment.
func (p *Provisioner) PythonPath(name string) string {
	return filepath.Join(p.root, name, "bin", "python")
}

// Exists reports whether a venv payload is present for name. The marker is
// pyvenv.cfg, which every venv carries.
func (p *Provisioner) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(p.root, name, "pyvenv.cfg"))
	return err == nil
}

// Create provisions a fresh venv with the requested python version.
func (p *Provisioner) Create(name, pythonVersion string) error {
	if err := os.MkdirAll(p.root, 0755); err != nil {
		return fmt.Errorf("failed to create envs root %s: %w", p.root, err)
	}

	cmd := exec.Command("uv", "venv", "--python", pythonVersion, p.Dir(name))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("uv venv failed for %s: %w (output: %s)", name, err, string(output))
	}
	return nil
}

// Remove deletes the environment directory and everything in it, including
// the metadata and lockfile documents stored inside. Removing a missing
// environment is not an error.
func (p *Provisioner) Remove(name string) error {
	if err := os.RemoveAll(p.Dir(name)); err != nil {
		return fmt.Errorf("failed to remove environment %s: %w", name, err)
	}
	return nil
}

// InstallPackages installs exact pins into the environment.
func (p *Provisioner) InstallPackages(name string, specs []string) error {
	if len(specs) == 0 {
		return nil
	}

	args := append([]string{"pip", "install", "--python", p.PythonPath(name)}, specs...)
	cmd := exec.Command("uv", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("uv pip install failed for %s: %w (output: %s)", name, err, string(output))
	}
	return nil
}

// SizeBytes walks the environment directory and sums file sizes. This is
// the expensive call behind the cached size_bytes field; callers decide
// when a rescan is worth it.
func (p *Provisioner) SizeBytes(name string) (int64, error) {
	var total int64
	err := filepath.WalkDir(p.Dir(name), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to measure environment %s: %w", name, err)
	}
	return total, nil
}
