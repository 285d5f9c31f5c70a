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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	"dirpx.dev/enumx/apis"
)

const (
	// BoltFileName is the database file created under the data root.
	BoltFileName = "enumx.db"
	boltTimeout  = time.Second
)

var (
	versionKey  = []byte("version")
	entriesKey  = []byte("entries")
	reservedKey = []byte("reserved")
)

// Bolt persists every kind in one bbolt database.
//
// Layout: one top-level bucket per kind name holding a "version" key and an
// "entries" sub-bucket (name -> 8-byte big-endian index) plus a "reserved"
// sub-bucket of unbound issued indices. A save rewrites both sub-buckets
// inside a single write transaction, so readers never observe a
// partial save.
//
// bbolt takes an exclusive file lock; Open fails after a short timeout when
// another process holds the database.
type Bolt struct {
	db     *bbolt.DB
	path   string
	closed atomic.Bool
}

var _ apis.Store = (*Bolt)(nil)

// OpenBolt opens (or creates) the database under cfg.DataRoot.
func OpenBolt(cfg apis.Config) (*Bolt, error) {
	if err := os.MkdirAll(cfg.DataRoot, 0o755); err != nil {
		return nil, fmt.Errorf("enumx(store): creating %s: %w", cfg.DataRoot, err)
	}
	mode := cfg.FileMode
	if mode == 0 {
		mode = 0o644
	}

	path := filepath.Join(cfg.DataRoot, BoltFileName)
	db, err := bbolt.Open(path, mode, &bbolt.Options{Timeout: boltTimeout})
	if err != nil {
		return nil, fmt.Errorf("enumx(store): opening boltdb: %w", err)
	}
	return &Bolt{db: db, path: path}, nil
}

// Location returns "<db path>#<kind name>".
func (s *Bolt) Location(kind apis.Kind) string {
	return s.path + "#" + kind.Name
}

// Load reads kind's bucket. Entries are returned ordered by index.
func (s *Bolt) Load(kind apis.Kind) (apis.Snapshot, error) {
	if s.closed.Load() {
		return apis.Snapshot{}, ErrClosed
	}

	var snap apis.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kind.Name))
		if bucket == nil {
			return ErrNotFound
		}

		raw := bucket.Get(versionKey)
		if len(raw) != 8 {
			return fmt.Errorf("%w: missing version", ErrCorrupt)
		}
		if err := checkVersion(binary.BigEndian.Uint64(raw)); err != nil {
			return err
		}

		eb := bucket.Bucket(entriesKey)
		if eb == nil {
			return fmt.Errorf("%w: missing entries bucket", ErrCorrupt)
		}
		err := eb.ForEach(func(k, v []byte) error {
			if len(v) != 8 {
				return fmt.Errorf("%w: bad index for %q", ErrCorrupt, k)
			}
			snap.Entries = append(snap.Entries, apis.Entry{
				Name:  string(k),
				Index: int64(binary.BigEndian.Uint64(v)),
			})
			return nil
		})
		if err != nil {
			return err
		}

		// absent in version 1 databases
		rb := bucket.Bucket(reservedKey)
		if rb == nil {
			return nil
		}
		return rb.ForEach(func(k, _ []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("%w: bad reserved index %x", ErrCorrupt, k)
			}
			snap.Reserved = append(snap.Reserved, int64(binary.BigEndian.Uint64(k)))
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apis.Snapshot{}, ErrNotFound
		}
		return apis.Snapshot{}, fmt.Errorf("%s: %w", s.Location(kind), err)
	}

	sort.Slice(snap.Entries, func(i, j int) bool { return snap.Entries[i].Index < snap.Entries[j].Index })
	return snap, nil
}

// Save replaces kind's state in one write transaction.
func (s *Bolt) Save(kind apis.Kind, snap apis.Snapshot) error {
	if s.closed.Load() {
		return ErrClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(kind.Name))
		if err != nil {
			return err
		}
		eb, err := recreateBucket(bucket, entriesKey)
		if err != nil {
			return err
		}
		for _, e := range snap.Entries {
			if err := eb.Put([]byte(e.Name), indexKey(e.Index)); err != nil {
				return err
			}
		}

		rb, err := recreateBucket(bucket, reservedKey)
		if err != nil {
			return err
		}
		for _, idx := range snap.Reserved {
			if err := rb.Put(indexKey(idx), []byte{}); err != nil {
				return err
			}
		}

		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], SchemaVersion)
		return bucket.Put(versionKey, buf[:])
	})
}

func recreateBucket(parent *bbolt.Bucket, key []byte) (*bbolt.Bucket, error) {
	if parent.Bucket(key) != nil {
		if err := parent.DeleteBucket(key); err != nil {
			return nil, err
		}
	}
	return parent.CreateBucket(key)
}

// indexKey encodes idx as 8 big-endian bytes, so byte order matches
// numeric order for non-negative indices.
func indexKey(idx int64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(idx))
	return out
}

// Close closes the database. Further calls return nil.
func (s *Bolt) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
