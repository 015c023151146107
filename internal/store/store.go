// Package store persists environment metadata records.
//
// Each managed environment is a directory under the envs root holding the
// venv payload plus two documents owned by this package: uvve.json (the
// metadata record) and uvve.lock (the optional lockfile). All writes go
// through an atomic temp-file-and-rename so a concurrent reader sees either
// the previous document or the new one, never a partial write.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	metadataFile = "uvve.json"
	lockFile     = "uvve.lock"
)

// Store reads and writes environment records under a single envs root.
type Store struct {
	root  string
	clock clockwork.Clock
}

// New creates a Store rooted at the given envs directory. The directory is
// created lazily on first save.
func New(root string, clock clockwork.Clock) *Store {
	return &Store{root: root, clock: clock}
}

// Root returns the envs root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory for the named environment.
func (s *Store) Dir(name string) string {
	return filepath.Join(s.root, name)
}

// MetadataPath returns the path of the environment's metadata document.
func (s *Store) MetadataPath(name string) string {
	return filepath.Join(s.root, name, metadataFile)
}

// LockfilePath returns the path of the environment's lockfile document.
func (s *Store) LockfilePath(name string) string {
	return filepath.Join(s.root, name, lockFile)
}

// Exists reports whether a metadata record exists for name.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.MetadataPath(name))
	return err == nil
}

// CreateOptions carries the optional fields accepted at creation time.
type CreateOptions struct {
	Description string
	Tags        []string
	ProjectRoot string
}

// Create writes a fresh record for name. It fails with ErrExists when a
// record is already present and never overwrites one.
func (s *Store) Create(name, pythonVersion string, opts CreateOptions) (*EnvironmentRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if pythonVersion == "" {
		return nil, fmt.Errorf("python version required for %s", name)
	}
	if s.Exists(name) {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}

	rec := &EnvironmentRecord{
		Name:          name,
		Description:   opts.Description,
		Tags:          normalizeTags(opts.Tags),
		PythonVersion: pythonVersion,
		CreatedAt:     s.clock.Now().UTC().Truncate(time.Second),
		ProjectRoot:   opts.ProjectRoot,
	}

	if err := s.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load reads the record for name, applying schema defaults for fields an
// older writer may not have known about. It fails with ErrNotFound when no
// record exists and ErrCorrupt only when the bytes cannot be parsed.
func (s *Store) Load(name string) (*EnvironmentRecord, error) {
	path := s.MetadataPath(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata for %s: %w", name, err)
	}

	var rec EnvironmentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	rec.applyDefaults()
	if rec.Name == "" {
		rec.Name = name
	}
	return &rec, nil
}

// Save persists the record atomically: the document is written to a temp
// file in the environment directory and renamed over the previous one.
func (s *Store) Save(rec *EnvironmentRecord) error {
	if err := validateName(rec.Name); err != nil {
		return err
	}
	rec.Tags = normalizeTags(rec.Tags)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata for %s: %w", rec.Name, err)
	}
	data = append(data, '\n')

	dir := s.Dir(rec.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create environment directory %s: %w", dir, err)
	}

	return writeFileAtomic(s.MetadataPath(rec.Name), data, 0644)
}

// Delete removes the metadata and lockfile documents for name. The venv
// payload is the provisioner's to remove; deleting the record alone leaves
// an unmanaged directory behind, which doctor reports.
func (s *Store) Delete(name string) error {
	path := s.MetadataPath(name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete metadata for %s: %w", name, err)
	}
	if err := os.Remove(s.LockfilePath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete lockfile for %s: %w", name, err)
	}
	return nil
}

// List loads records for every managed environment, ordered by name.
// Directories without a metadata document are skipped here and surfaced by
// doctor instead. A corrupt record fails the listing with its path so it is
// never silently dropped.
func (s *Store) List() ([]*EnvironmentRecord, error) {
	entries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read envs root %s: %w", s.root, err)
	}

	var records []*EnvironmentRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !s.Exists(entry.Name()) {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Scan returns the names of all directories under the envs root plus any
// stray non-directory entries. Temp files left by an interrupted atomic
// write show up as strays.
func (s *Store) Scan() (dirs []string, strays []string, err error) {
	entries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read envs root %s: %w", s.root, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			strays = append(strays, entry.Name())
		}
	}
	return dirs, strays, nil
}

// HasLockfile reports whether a lockfile document exists for name.
func (s *Store) HasLockfile(name string) bool {
	_, err := os.Stat(s.LockfilePath(name))
	return err == nil
}

// ReadLockfile returns the raw lockfile bytes for name.
func (s *Store) ReadLockfile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.LockfilePath(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w for %s", ErrNoLockfile, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile for %s: %w", name, err)
	}
	return data, nil
}

// WriteLockfile atomically replaces the lockfile document for name.
func (s *Store) WriteLockfile(name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create environment directory %s: %w", dir, err)
	}
	return writeFileAtomic(s.LockfilePath(name), data, 0644)
}

// validateName rejects names that would escape the envs root or collide
// with the documents stored inside an environment directory.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("environment name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("invalid environment name %q", name)
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place. Readers observe the old document or the new one, nothing in
// between.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
