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

package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/zeebo/xxh3"

	"dirpx.dev/enumx/apis"
)

// SchemaVersion is the persisted format version written by this package.
// Version 1 stores (no reserved indices) are still read.
const SchemaVersion = 2

const minSchemaVersion = 1

// document is the on-disk layout of one kind:
//
//	{"version":2,"kind":"pkg/path.Color","checksum":"9b1c...","entries":[{"name":"Foo","index":12}],"reserved":[13]}
type document struct {
	Version  int      `json:"version"`
	Kind     string   `json:"kind"`
	Checksum string   `json:"checksum,omitempty"`
	Entries  []record `json:"entries"`
	Reserved []int64  `json:"reserved,omitempty"`
}

type record struct {
	Name  string `json:"name"`
	Index int64  `json:"index"`
}

// Encode renders the state of kind in the persisted format.
func Encode(kind apis.Kind, snap apis.Snapshot) ([]byte, error) {
	doc := document{
		Version:  SchemaVersion,
		Kind:     kind.Name,
		Checksum: Checksum(snap),
		Entries:  make([]record, 0, len(snap.Entries)),
		Reserved: snap.Reserved,
	}
	for _, e := range snap.Entries {
		doc.Entries = append(doc.Entries, record(e))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses data written by Encode and verifies it belongs to kind.
// A missing checksum is accepted so stores can be written by hand.
func Decode(kind apis.Kind, data []byte) (apis.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return apis.Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := checkVersion(uint64(doc.Version)); err != nil {
		return apis.Snapshot{}, err
	}
	if doc.Kind != kind.Name {
		return apis.Snapshot{}, fmt.Errorf("%w: store belongs to kind %q, not %q", ErrCorrupt, doc.Kind, kind.Name)
	}

	snap := apis.Snapshot{
		Entries:  make([]apis.Entry, 0, len(doc.Entries)),
		Reserved: doc.Reserved,
	}
	for _, r := range doc.Entries {
		snap.Entries = append(snap.Entries, apis.Entry(r))
	}
	if doc.Checksum != "" {
		if sum := Checksum(snap); sum != doc.Checksum {
			return apis.Snapshot{}, fmt.Errorf("%w: checksum %s, want %s", ErrCorrupt, sum, doc.Checksum)
		}
	}
	return snap, nil
}

func checkVersion(v uint64) error {
	switch {
	case v == 0:
		return fmt.Errorf("%w: missing version", ErrCorrupt)
	case v < minSchemaVersion || v > SchemaVersion:
		return fmt.Errorf("%w: %d (want %d..%d)", ErrUnsupportedVersion, v, minSchemaVersion, SchemaVersion)
	default:
		return nil
	}
}

// Checksum returns the xxh3 digest of snap's entries followed by its
// reserved indices, in their given order. A snapshot without reserved
// indices hashes like a version 1 store.
func Checksum(snap apis.Snapshot) string {
	h := xxh3.New()
	var idx [8]byte
	for _, e := range snap.Entries {
		_, _ = h.WriteString(e.Name)
		binary.BigEndian.PutUint64(idx[:], uint64(e.Index))
		_, _ = h.Write(idx[:])
	}
	if len(snap.Reserved) > 0 {
		// separates reserved indices from a trailing empty-named entry
		_, _ = h.Write([]byte{0xff})
		for _, r := range snap.Reserved {
			binary.BigEndian.PutUint64(idx[:], uint64(r))
			_, _ = h.Write(idx[:])
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
