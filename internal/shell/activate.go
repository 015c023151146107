// Package shell renders activation lines for the user's shell.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
)

// Name returns the base name of the user's shell from $SHELL, or "" when
// it is unset.
func Name() string {
	shellPath := os.Getenv("SHELL")
	if shellPath == "" {
		return ""
	}
	return filepath.Base(shellPath)
}

// ActivationLine returns the line to eval in the current shell to activate
// the environment at envDir.
func ActivationLine(envDir string) string {
	return ActivationLineFor(Name(), envDir)
}

// ActivationLineFor renders the activation line for a specific shell.
// Venvs ship one activate script per shell family; POSIX shells share the
// plain one.
func ActivationLineFor(shellName, envDir string) string {
	switch shellName {
	case "fish":
		return fmt.Sprintf("source %q", filepath.Join(envDir, "bin", "activate.fish"))
	case "csh", "tcsh":
		return fmt.Sprintf("source %q", filepath.Join(envDir, "bin", "activate.csh"))
	default:
		return fmt.Sprintf("source %q", filepath.Join(envDir, "bin", "activate"))
	}
}
