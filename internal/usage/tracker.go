package usage

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/uvve-dev/uvve/internal/history"
	"github.com/uvve-dev/uvve/internal/store"
)

// Tracker applies activation events to environment records and mirrors them
// into the history ledger.
type Tracker struct {
	store *store.Store
	log   *history.Log
	clock clockwork.Clock
}

// NewTracker creates a Tracker over the given store and ledger.
func NewTracker(st *store.Store, log *history.Log, clock clockwork.Clock) *Tracker {
	return &Tracker{store: st, log: log, clock: clock}
}

// RecordActivation marks one activation of the named environment: last_used
// becomes now, usage_count increments by exactly one, and the record is
// saved before the ledger is appended. Returns the updated record.
//
// The record save is authoritative. If the ledger append fails afterwards,
// the activation is still counted and the returned error says so.
func (t *Tracker) RecordActivation(name string) (*store.EnvironmentRecord, error) {
	rec, err := t.store.Load(name)
	if err != nil {
		return nil, err
	}

	now := t.clock.Now().UTC().Truncate(time.Second)
	rec.LastUsed = &now
	rec.UsageCount++

	if err := t.store.Save(rec); err != nil {
		return nil, fmt.Errorf("failed to record activation for %s: %w", name, err)
	}

	if err := t.log.Append(name, history.KindActivation, now); err != nil {
		return rec, fmt.Errorf("activation recorded, but history append failed: %w", err)
	}
	return rec, nil
}
