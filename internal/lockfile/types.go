// Package lockfile captures and restores the exact dependency state of an
// environment as a versioned TOML document (uvve.lock).
package lockfile

import (
	"errors"
	"runtime"
	"time"
)

// FormatVersion is the current lockfile schema version. Readers accept this
// version and older; newer documents are rejected rather than misread.
const FormatVersion = 1

var (
	// ErrCorrupt indicates lockfile bytes that cannot be parsed as TOML.
	ErrCorrupt = errors.New("corrupt lockfile")

	// ErrFormatVersion indicates a document written by a newer uvve.
	ErrFormatVersion = errors.New("unsupported lockfile format version")
)

// Package is one pinned dependency.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Spec returns the pip-style exact pin for the package.
func (p Package) Spec() string {
	return p.Name + "==" + p.Version
}

// Platform describes where a snapshot was taken. Mismatches on thaw are
// advisory: pure-Python dependency sets move across platforms fine, ones
// with native wheels may not.
type Platform struct {
	System  string `toml:"system"`
	Machine string `toml:"machine"`
}

// CurrentPlatform returns the platform descriptor for this process.
func CurrentPlatform() Platform {
	return Platform{System: runtime.GOOS, Machine: runtime.GOARCH}
}

func (p Platform) String() string {
	return p.System + "/" + p.Machine
}

// Snapshot is the in-memory form of a lockfile document.
type Snapshot struct {
	FormatVersion   int
	ToolVersion     string
	GeneratedAt     time.Time
	EnvironmentName string
	PythonVersion   string
	Packages        []Package
	Platform        Platform
}
