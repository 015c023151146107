package store

import (
	"sort"
	"strings"
	"time"
)

// EnvironmentRecord is the durable description of one managed environment.
// It is persisted as uvve.json inside the environment directory, so the
// record travels with the environment and is destroyed with it.
//
// Field names are part of the on-disk contract. Name and PythonVersion are
// immutable after creation; renames are modeled as create+delete.
type EnvironmentRecord struct {
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Tags          []string   `json:"tags"`
	PythonVersion string     `json:"python_version"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUsed      *time.Time `json:"last_used,omitempty"`
	UsageCount    int        `json:"usage_count"`
	Active        bool       `json:"active"`
	ProjectRoot   string     `json:"project_root,omitempty"`

	// SizeBytes is a cached value computed by a directory scan. It is
	// refreshed opportunistically and may be stale; zero means unknown.
	SizeBytes int64 `json:"size_bytes,omitempty"`
}

// Used reports whether the environment has ever been activated.
func (r *EnvironmentRecord) Used() bool {
	return r.UsageCount > 0
}

// HasTag reports whether tag is present in the record's tag set.
func (r *EnvironmentRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag inserts tag into the set, keeping it sorted and duplicate-free.
func (r *EnvironmentRecord) AddTag(tag string) {
	r.Tags = normalizeTags(append(r.Tags, tag))
}

// RemoveTag drops tag from the set if present.
func (r *EnvironmentRecord) RemoveTag(tag string) {
	out := r.Tags[:0]
	for _, t := range r.Tags {
		if t != tag {
			out = append(out, t)
		}
	}
	r.Tags = out
}

// normalizeTags trims whitespace, drops empties, deduplicates, and sorts.
// Tags are a set; sorted storage keeps saves deterministic.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// applyDefaults fills fields a record written by an older version may lack.
// Loading never fails on an outdated schema; absent fields get these values.
func (r *EnvironmentRecord) applyDefaults() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.UsageCount < 0 {
		r.UsageCount = 0
	}
}
