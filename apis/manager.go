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

package apis

// Manager owns the bijective name <-> index mapping of one Kind together
// with its allocation rule and persisted store.
type Manager interface {
	// Kind returns the enumeration kind managed.
	Kind() Kind
	// RequestEntry returns the entry bound to name. When name is unknown and
	// create is true a fresh index is allocated and the manager becomes dirty.
	// Repeated calls for a known name never mutate state.
	RequestEntry(name string, create bool) (Entry, bool)
	// Allocate returns the entry bound to name, allocating a fresh index
	// when name is unknown and the index does not exceed limit. The check
	// and the allocation are atomic.
	Allocate(name string, limit int64) (Entry, error)
	// NextAvailableIndex returns the index the next allocation would receive.
	NextAvailableIndex() int64
	// Add binds index to name in both directions.
	// Binding the same pair twice is a no-op.
	Add(index int64, name string) error
	// Lookup returns the entry bound to index.
	Lookup(index int64) (Entry, bool)
	// Contains reports whether index is a known extension index.
	Contains(index int64) bool
	// Entries returns all bound entries ordered by index.
	Entries() []Entry
	// Count returns the number of bound entries.
	Count() int
	// Dirty reports whether there are unsaved entries.
	Dirty() bool
	// Load replaces in-memory state with the persisted store content.
	// Failures are logged and leave the manager empty.
	Load()
	// Save persists all entries. A failed save keeps the manager dirty.
	Save() error
}
