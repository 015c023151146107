// Package doctor detects inconsistent on-disk state: metadata without a
// venv, venvs without metadata, and unparseable documents. It only reports;
// remediation stays in the user's hands.
package doctor

import (
	"path/filepath"

	"github.com/uvve-dev/uvve/internal/lockfile"
	"github.com/uvve-dev/uvve/internal/store"
	"github.com/uvve-dev/uvve/internal/uv"
)

// FindingKind classifies one detected problem.
type FindingKind string

const (
	// FindingEnvironmentMissing means a metadata record exists but the venv
	// payload is gone, usually from a partial removal.
	FindingEnvironmentMissing FindingKind = "environment-missing"

	// FindingMetadataMissing means a venv exists with no metadata record,
	// usually created behind uvve's back.
	FindingMetadataMissing FindingKind = "metadata-missing"

	FindingCorruptMetadata FindingKind = "corrupt-metadata"
	FindingCorruptLockfile FindingKind = "corrupt-lockfile"

	// FindingStrayEntry covers anything else in the envs root that uvve
	// does not recognize, including leftover temp files.
	FindingStrayEntry FindingKind = "stray-entry"
)

// Finding is one detected inconsistency.
type Finding struct {
	Environment string
	Kind        FindingKind
	Path        string
	Detail      string
}

// Critical reports whether the finding blocks normal operation rather than
// just deserving a look.
func (f Finding) Critical() bool {
	return f.Kind != FindingStrayEntry
}

// Checker walks the envs root comparing the store's view with the
// provisioner's.
type Checker struct {
	Store *store.Store
	Prov  *uv.Provisioner
}

// Run returns every inconsistency found, in envs-root order. A clean tree
// yields a nil slice.
func (c *Checker) Run() ([]Finding, error) {
	dirs, strays, err := c.Store.Scan()
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, name := range dirs {
		hasMeta := c.Store.Exists(name)
		hasVenv := c.Prov.Exists(name)

		switch {
		case hasMeta:
			if _, err := c.Store.Load(name); err != nil {
				findings = append(findings, Finding{
					Environment: name,
					Kind:        FindingCorruptMetadata,
					Path:        c.Store.MetadataPath(name),
					Detail:      err.Error(),
				})
			}
			findings = append(findings, c.checkLockfile(name)...)
			if !hasVenv {
				findings = append(findings, Finding{
					Environment: name,
					Kind:        FindingEnvironmentMissing,
					Path:        c.Prov.Dir(name),
					Detail:      "metadata exists but the venv payload is missing",
				})
			}
		case hasVenv:
			findings = append(findings, Finding{
				Environment: name,
				Kind:        FindingMetadataMissing,
				Path:        c.Store.MetadataPath(name),
				Detail:      "venv exists but has no metadata record",
			})
		default:
			findings = append(findings, Finding{
				Environment: name,
				Kind:        FindingStrayEntry,
				Path:        c.Store.Dir(name),
				Detail:      "directory is neither a venv nor managed by uvve",
			})
		}
	}

	for _, stray := range strays {
		findings = append(findings, Finding{
			Environment: stray,
			Kind:        FindingStrayEntry,
			Path:        filepath.Join(c.Store.Root(), stray),
			Detail:      "unexpected file in envs root",
		})
	}
	return findings, nil
}

// checkLockfile validates the lockfile document when one is present.
func (c *Checker) checkLockfile(name string) []Finding {
	if !c.Store.HasLockfile(name) {
		return nil
	}
	data, err := c.Store.ReadLockfile(name)
	if err != nil {
		return []Finding{{
			Environment: name,
			Kind:        FindingCorruptLockfile,
			Path:        c.Store.LockfilePath(name),
			Detail:      err.Error(),
		}}
	}
	if _, err := lockfile.Unmarshal(data); err != nil {
		return []Finding{{
			Environment: name,
			Kind:        FindingCorruptLockfile,
			Path:        c.Store.LockfilePath(name),
			Detail:      err.Error(),
		}}
	}
	return nil
}
