/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cache

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/log"
	"dirpx.dev/enumx/store"
)

var (
	// ErrAllocationConflict is returned by Add when the index is already bound
	// to a different name, or the name to a different index. The existing
	// binding always wins.
	ErrAllocationConflict = errors.New("enumx(cache): allocation conflict")
	// ErrEmptyName is returned by Add and Allocate for an empty name.
	ErrEmptyName = errors.New("enumx(cache): empty name provided")
	// ErrExhausted is returned by Allocate when the next index exceeds the limit.
	ErrExhausted = errors.New("enumx(cache): no index left below limit")
)

// Manager owns the name <-> index mapping of one enumeration kind.
//
// Allocation is monotonic: the next index is one past the highest index ever
// seen for the kind (bound, loaded or reserved), and never below the kind's
// base offset. Indices are never handed out twice, even after the name that
// claimed them stops registering.
type Manager struct {
	kind   apis.Kind
	store  apis.Store
	logger log.Logger

	mu       sync.RWMutex
	byName   map[string]int64
	byIndex  map[int64]string
	reserved mapset.Set[int64]
	// high is the highest index known, or BaseOffset()-1 when empty.
	high  int64
	dirty atomic.Bool
}

// Ensure Manager implements apis.Manager.
var _ apis.Manager = (*Manager)(nil)

// New creates an empty Manager for kind. Call Load before first use.
func New(kind apis.Kind, st apis.Store, logger log.Logger) *Manager {
	m := &Manager{
		kind:   kind,
		store:  st,
		logger: log.OrDiscard(logger).With("kind", kind.Name),
	}
	m.reset()
	return m
}

// reset must be called with mu held (or before the manager is shared).
func (m *Manager) reset() {
	m.byName = make(map[string]int64)
	m.byIndex = make(map[int64]string)
	m.reserved = mapset.NewThreadUnsafeSet[int64]()
	m.high = m.kind.BaseOffset() - 1
	m.dirty.Store(false)
}

// Kind returns the managed enumeration kind.
func (m *Manager) Kind() apis.Kind {
	return m.kind
}

// RequestEntry returns the entry bound to name, allocating one when create
// is true and name is unknown.
func (m *Manager) RequestEntry(name string, create bool) (apis.Entry, bool) {
	if !create {
		if name == "" {
			return apis.Entry{}, false
		}
		m.mu.RLock()
		defer m.mu.RUnlock()
		idx, ok := m.byName[name]
		if !ok {
			return apis.Entry{}, false
		}
		return apis.Entry{Name: name, Index: idx}, true
	}
	e, err := m.Allocate(name, math.MaxInt64)
	return e, err == nil
}

// Allocate returns the entry bound to name. An unknown name receives the
// next index, unless that index is above limit.
func (m *Manager) Allocate(name string, limit int64) (apis.Entry, error) {
	if name == "" {
		return apis.Entry{}, ErrEmptyName
	}

	// Fast read path.
	m.mu.RLock()
	idx, ok := m.byName[name]
	m.mu.RUnlock()
	if ok {
		return apis.Entry{Name: name, Index: idx}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under lock in case another caller allocated meanwhile.
	if idx, ok := m.byName[name]; ok {
		return apis.Entry{Name: name, Index: idx}, nil
	}

	for {
		if m.high >= limit {
			return apis.Entry{}, fmt.Errorf("%w: next index of %s is above %d", ErrExhausted, m.kind.Name, limit)
		}
		idx := m.next()
		_, err := m.add(idx, name)
		if err == nil {
			m.dirty.Store(true)
			m.logger.Debugf("allocated index %d for %q", idx, name)
			return apis.Entry{Name: name, Index: idx}, nil
		}
		// The index is taken by someone else: keep it reserved and move on.
		m.logger.Warnf("index %d already bound, requesting a new one for %q: %v", idx, name, err)
		m.reserve(idx)
	}
}

// NextAvailableIndex returns max(BaseOffset-1, highest known index) + 1.
func (m *Manager) NextAvailableIndex() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.next()
}

func (m *Manager) next() int64 {
	return m.high + 1
}

// Add binds index to name. Re-binding the same pair is a no-op; a new
// binding marks the manager dirty.
func (m *Manager) Add(index int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	added, err := m.add(index, name)
	if err != nil {
		m.logger.Warnf("rejected binding %q=%d: %v", name, index, err)
		return err
	}
	if added {
		m.dirty.Store(true)
	}
	return nil
}

// add reports whether a new binding was created.
func (m *Manager) add(index int64, name string) (bool, error) {
	if name == "" {
		return false, ErrEmptyName
	}
	if bound, ok := m.byIndex[index]; ok {
		if bound == name {
			return false, nil
		}
		return false, fmt.Errorf("%w: index %d is bound to %q", ErrAllocationConflict, index, bound)
	}
	if bound, ok := m.byName[name]; ok {
		return false, fmt.Errorf("%w: %q is bound to index %d", ErrAllocationConflict, name, bound)
	}
	if m.reserved.Contains(index) {
		return false, fmt.Errorf("%w: index %d is reserved", ErrAllocationConflict, index)
	}

	m.byName[name] = index
	m.byIndex[index] = name
	m.reserve(index)
	return true, nil
}

// reserve marks index as issued and raises the high-water mark.
func (m *Manager) reserve(index int64) {
	m.reserved.Add(index)
	if index > m.high {
		m.high = index
	}
}

// Lookup returns the entry bound to index.
func (m *Manager) Lookup(index int64) (apis.Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.byIndex[index]
	if !ok {
		return apis.Entry{}, false
	}
	return apis.Entry{Name: name, Index: index}, true
}

// Contains reports whether index is bound to an extension name.
func (m *Manager) Contains(index int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byIndex[index]
	return ok
}

// Entries returns all bound entries ordered by index.
func (m *Manager) Entries() []apis.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries()
}

func (m *Manager) entries() []apis.Entry {
	out := make([]apis.Entry, 0, len(m.byIndex))
	for idx, name := range m.byIndex {
		out = append(out, apis.Entry{Name: name, Index: idx})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// snapshot must be called with mu held.
func (m *Manager) snapshot() apis.Snapshot {
	var unbound []int64
	for _, idx := range m.reserved.ToSlice() {
		if _, ok := m.byIndex[idx]; !ok {
			unbound = append(unbound, idx)
		}
	}
	slices.Sort(unbound)
	return apis.Snapshot{Entries: m.entries(), Reserved: unbound}
}

// Count returns the number of bound entries.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byIndex)
}

// Dirty reports whether entries were allocated since the last successful save.
func (m *Manager) Dirty() bool {
	return m.dirty.Load()
}

// Load replaces in-memory state with the persisted entries. It never fails:
// a missing, corrupt or unreadable store leaves the manager empty.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
	snap, err := m.store.Load(m.kind)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		m.logger.Debugf("no persisted entries at %s, starting empty", m.store.Location(m.kind))
		return
	default:
		m.logger.Warnf("could not load persisted entries, starting empty: %v", err)
		return
	}

	for _, e := range snap.Entries {
		if _, err := m.add(e.Index, e.Name); err != nil {
			// Keep the index issued even though the record is dropped.
			m.reserve(e.Index)
			m.logger.Warnf("skipping persisted entry %q=%d: %v", e.Name, e.Index, err)
			continue
		}
		if e.Index < m.kind.BaseOffset() {
			m.logger.Warnf("persisted entry %q=%d is below base offset %d and may shadow a host value",
				e.Name, e.Index, m.kind.BaseOffset())
		}
	}
	for _, idx := range snap.Reserved {
		m.reserve(idx)
	}
	m.logger.Debugf("loaded %d entries (%d reserved) from %s", len(m.byIndex), len(snap.Reserved), m.store.Location(m.kind))
}

// Save persists the current entries when dirty. On failure the manager stays
// dirty so a later save retries.
func (m *Manager) Save() error {
	if !m.dirty.Load() {
		return nil
	}

	// Hold the write lock so no allocation slips in between the snapshot and
	// clearing the dirty flag.
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(m.kind, m.snapshot()); err != nil {
		m.logger.Warnf("saving to %s failed, will retry at next checkpoint: %v", m.store.Location(m.kind), err)
		return fmt.Errorf("enumx(cache): saving %s: %w", m.kind.Name, err)
	}
	m.dirty.Store(false)
	m.logger.Debugf("saved %d entries to %s", len(m.byIndex), m.store.Location(m.kind))
	return nil
}
