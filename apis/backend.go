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

import (
	"fmt"
	"strings"
)

// Backend selects how Cache Entries are persisted between runs.
//
// Backend values are written to configuration dumps and logs, so the
// mapping between values and their String form must remain stable.
type Backend int

const (
	// FileBackend stores one JSON file per enumeration kind. Writes go to
	// a temporary file that atomically replaces the previous one.
	FileBackend Backend = iota

	// BoltBackend stores every kind in a single bbolt database, one
	// bucket per kind. Each save is a single write transaction.
	BoltBackend
)

// String returns a human-readable representation of the Backend value.
// Unknown values render as "Unknown(<n>)" and never panic.
func (b Backend) String() string {
	switch b {
	case FileBackend:
		return "file"
	case BoltBackend:
		return "bolt"
	default:
		return fmt.Sprintf("Unknown(%d)", int(b))
	}
}

// ParseBackend is the inverse of String for known backends.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file", "":
		return FileBackend, nil
	case "bolt", "bbolt":
		return BoltBackend, nil
	default:
		return 0, fmt.Errorf("apis: unknown backend %q", s)
	}
}
