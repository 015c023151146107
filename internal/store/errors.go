package store

import "errors"

// Sentinel errors returned by metadata operations. Callers match with
// errors.Is; messages wrapped around them carry the environment name or
// offending path.
var (
	// ErrNotFound indicates no metadata record exists for the environment.
	ErrNotFound = errors.New("environment not found")

	// ErrExists indicates a record already exists under the requested name.
	ErrExists = errors.New("environment already exists")

	// ErrCorrupt indicates metadata bytes that cannot be parsed. A record
	// with missing fields is not corrupt; only unparseable bytes are.
	ErrCorrupt = errors.New("corrupt metadata")

	// ErrNoLockfile indicates the environment has no lockfile document yet.
	ErrNoLockfile = errors.New("no lockfile")
)
