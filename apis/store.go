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

// Store persists the entries of enumeration kinds between runs.
type Store interface {
	// Load returns the persisted state of kind, entries in stored order.
	Load(kind Kind) (Snapshot, error)
	// Save replaces the persisted state of kind. Implementations must
	// never leave a partially written store behind.
	Save(kind Kind, snap Snapshot) error
	// Location describes where kind is persisted, for diagnostics.
	Location(kind Kind) string
	// Close releases resources held by the store.
	Close() error
}
