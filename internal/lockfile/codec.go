package lockfile

import (
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pelletier/go-toml/v2"

	"github.com/uvve-dev/uvve/internal/store"
)

// document is the on-disk TOML layout. The section split keeps tool
// identity, environment identity, the pinned set, and provenance metadata
// separately diffable.
type document struct {
	Uvve        toolSection `toml:"uvve"`
	Environment envSection  `toml:"environment"`
	Packages    []Package   `toml:"packages"`
	Metadata    metaSection `toml:"metadata"`
}

type toolSection struct {
	FormatVersion int    `toml:"format_version"`
	Version       string `toml:"version"`
}

type envSection struct {
	Name          string `toml:"name"`
	PythonVersion string `toml:"python_version"`
}

type metaSection struct {
	GeneratedAt time.Time `toml:"generated_at"`
	Platform    Platform  `toml:"platform"`
}

// Generate builds a snapshot of rec's dependency state. The dependency list
// is copied and sorted lexicographically by name so lockfiles from the same
// state are byte-identical regardless of introspection order.
func Generate(rec *store.EnvironmentRecord, deps []Package, clock clockwork.Clock, plat Platform, toolVersion string) Snapshot {
	pkgs := make([]Package, len(deps))
	copy(pkgs, deps)
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })

	return Snapshot{
		FormatVersion:   FormatVersion,
		ToolVersion:     toolVersion,
		GeneratedAt:     clock.Now().UTC().Truncate(time.Second),
		EnvironmentName: rec.Name,
		PythonVersion:   rec.PythonVersion,
		Packages:        pkgs,
		Platform:        plat,
	}
}

// Marshal serializes the snapshot to TOML.
func Marshal(s Snapshot) ([]byte, error) {
	doc := document{
		Uvve: toolSection{
			FormatVersion: s.FormatVersion,
			Version:       s.ToolVersion,
		},
		Environment: envSection{
			Name:          s.EnvironmentName,
			PythonVersion: s.PythonVersion,
		},
		Packages: s.Packages,
		Metadata: metaSection{
			GeneratedAt: s.GeneratedAt,
			Platform:    s.Platform,
		},
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lockfile for %s: %w", s.EnvironmentName, err)
	}
	return data, nil
}

// Unmarshal parses lockfile bytes. Unparseable input fails with ErrCorrupt;
// a format_version from a newer writer fails with ErrFormatVersion instead
// of being misread.
func Unmarshal(data []byte) (Snapshot, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if doc.Uvve.FormatVersion < 1 || doc.Uvve.FormatVersion > FormatVersion {
		return Snapshot{}, fmt.Errorf("%w: %d (this uvve reads up to %d)", ErrFormatVersion, doc.Uvve.FormatVersion, FormatVersion)
	}

	snap := Snapshot{
		FormatVersion:   doc.Uvve.FormatVersion,
		ToolVersion:     doc.Uvve.Version,
		GeneratedAt:     doc.Metadata.GeneratedAt.UTC(),
		EnvironmentName: doc.Environment.Name,
		PythonVersion:   doc.Environment.PythonVersion,
		Packages:        doc.Packages,
		Platform:        doc.Metadata.Platform,
	}
	if snap.Packages == nil {
		snap.Packages = []Package{}
	}
	return snap, nil
}
