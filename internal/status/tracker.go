// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package status tracks per-user pipeline progress for polling. The
// default tracker is process-local; the interface exists so a shared
// external store can replace it in a multi-instance deployment without
// changing the read/write contract.
package status

import (
	"sync"

	"github.com/pdiddy/scholar-profile/pkg/types"
)

// Tracker stores the latest PipelineStatus per user. Entries have no
// expiry; they persist until explicitly cleared.
type Tracker interface {
	// Set replaces the user's entry. Stage and message always replace the
	// previous values; the warning list carries over from the previous
	// entry unless the update supplies its own; error and result never
	// carry over, so advancing a stage clears a stale error.
	Set(userID string, update types.PipelineStatus)

	// Get returns the user's entry and whether one exists.
	Get(userID string) (types.PipelineStatus, bool)

	// Clear removes one user's entry.
	Clear(userID string)

	// ClearAll removes every entry.
	ClearAll()
}

// MemoryTracker is a process-wide in-memory Tracker. Entries are mutated
// only by whole-entry replacement, never field-by-field.
type MemoryTracker struct {
	mu      sync.RWMutex
	entries map[string]types.PipelineStatus
}

// NewMemoryTracker creates an empty tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{entries: make(map[string]types.PipelineStatus)}
}

func (t *MemoryTracker) Set(userID string, update types.PipelineStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if update.Warnings == nil {
		if prev, ok := t.entries[userID]; ok {
			update.Warnings = prev.Warnings
		}
	}
	t.entries[userID] = update
}

func (t *MemoryTracker) Get(userID string) (types.PipelineStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.entries[userID]
	return s, ok
}

func (t *MemoryTracker) Clear(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, userID)
}

func (t *MemoryTracker) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]types.PipelineStatus)
}
