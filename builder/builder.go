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

package builder

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"dirpx.dev/enumx/apis"
	uref "dirpx.dev/enumx/utils/reflect"
)

// Integral is the set of types an extensible enumeration may be backed by.
type Integral interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	// ErrInvalidEnumType is returned when a kind's backing type cannot carry
	// extension values. It indicates a misconfiguration, not a transient failure.
	ErrInvalidEnumType = errors.New("enumx(builder): invalid enum type")
	// ErrEmptyName is returned when an empty variant name is requested.
	ErrEmptyName = errors.New("enumx(builder): empty name provided")
)

// Builder is the handle extensions use to add variants to one enumeration
// kind T. It holds no state besides the kind descriptor; every lookup goes
// through the registry.
type Builder[T Integral] struct {
	reg  apis.Registry
	kind apis.Kind
	rng  uref.Range
}

// New validates T and its host-native bounds and returns a Builder for it.
// Extension values start at max+1.
//
// New fails with ErrInvalidEnumType when T is not a named package type,
// min > max, the bounds do not fit in int64, max+1 is not representable in
// T, no name can be resolved for T, the name is already used by another
// type, or T was defined earlier with different bounds.
func New[T Integral](reg apis.Registry, min, max T) (*Builder[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, err := uref.Normalize(t); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEnumType, t, err)
	}
	rng, err := uref.IntegralRange(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnumType, err)
	}

	lo, okLo := toInt64(min, rng)
	hi, okHi := toInt64(max, rng)
	switch {
	case !okLo || !okHi:
		return nil, fmt.Errorf("%w: %s bounds [%d, %d] exceed int64", ErrInvalidEnumType, t, min, max)
	case lo > hi:
		return nil, fmt.Errorf("%w: %s min %d is greater than max %d", ErrInvalidEnumType, t, lo, hi)
	case hi >= rng.Max:
		return nil, fmt.Errorf("%w: %s has no room above its native max %d in %s", ErrInvalidEnumType, t, hi, rng)
	}

	name := reg.Resolver().ResolveType(t)
	if name == "" {
		return nil, fmt.Errorf("%w: no name resolved for %s", ErrInvalidEnumType, t)
	}

	kind, err := reg.Claim(apis.Kind{Type: t, Name: name, Min: lo, Max: hi})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnumType, err)
	}

	return &Builder[T]{
		reg:  reg,
		kind: kind,
		rng:  rng,
	}, nil
}

// Kind returns the kind descriptor.
func (b *Builder[T]) Kind() apis.Kind {
	return b.kind
}

// ResolveOrCreate returns the value bound to name, allocating a new one on
// first use. Calling it again with the same name, from any caller, returns
// the same value.
func (b *Builder[T]) ResolveOrCreate(name string) (T, error) {
	if name == "" {
		return 0, ErrEmptyName
	}

	// The limit is enforced under the manager's lock, so an index that does
	// not fit T is never issued.
	e, err := b.reg.Ensure(b.kind).Allocate(name, b.rng.Max)
	if err != nil {
		return 0, fmt.Errorf("%w: %s does not fit %s: %v", ErrInvalidEnumType, b.kind.Name, b.rng, err)
	}
	return b.fromIndex(e.Index)
}

// TryResolve returns the value bound to name without allocating.
func (b *Builder[T]) TryResolve(name string) (T, bool) {
	e, ok := b.reg.Ensure(b.kind).RequestEntry(name, false)
	if !ok {
		return 0, false
	}
	v, err := b.fromIndex(e.Index)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Exists reports whether name has been registered.
func (b *Builder[T]) Exists(name string) bool {
	_, ok := b.TryResolve(name)
	return ok
}

// IsHostNative reports whether v is not an extension value. When no
// manager exists for the kind yet every value is host-native.
func (b *Builder[T]) IsHostNative(v T) bool {
	m, ok := b.reg.TryGet(b.kind.Type)
	if !ok {
		return true
	}
	idx, ok := toInt64(v, b.rng)
	if !ok {
		return true
	}
	return !m.Contains(idx)
}

// Name returns the extension name bound to v.
func (b *Builder[T]) Name(v T) (string, bool) {
	idx, ok := toInt64(v, b.rng)
	if !ok {
		return "", false
	}
	e, ok := b.reg.Ensure(b.kind).Lookup(idx)
	return e.Name, ok
}

// Values returns every extension value of the kind in index order.
// Entries that do not fit T are skipped.
func (b *Builder[T]) Values() []T {
	entries := b.reg.Ensure(b.kind).Entries()
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if v, err := b.fromIndex(e.Index); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// RegisterPersistenceHook subscribes the kind's save to the host's save
// checkpoints and shutdown. Calling it again is harmless.
func (b *Builder[T]) RegisterPersistenceHook(lc apis.Lifecycle) {
	m := b.reg.Ensure(b.kind)
	key := "enumx:" + b.kind.Name
	lc.Subscribe(apis.SaveCheckpoint, key, m.Save)
	lc.Subscribe(apis.Shutdown, key, m.Save)
}

// Initialize loads the kind and registers its persistence hook. It lets a
// Builder take part in a static list of kinds initialized at startup.
func (b *Builder[T]) Initialize(lc apis.Lifecycle) error {
	m := b.reg.Ensure(b.kind)
	for _, e := range m.Entries() {
		if !b.rng.Contains(e.Index) {
			return fmt.Errorf("%w: persisted entry %q=%d of %s does not fit %s",
				ErrInvalidEnumType, e.Name, e.Index, b.kind.Name, b.rng)
		}
	}
	b.RegisterPersistenceHook(lc)
	return nil
}

func (b *Builder[T]) fromIndex(idx int64) (T, error) {
	if !b.rng.Contains(idx) {
		return 0, fmt.Errorf("%w: index %d of %s does not fit %s", ErrInvalidEnumType, idx, b.kind.Name, b.rng)
	}
	return T(idx), nil
}

// toInt64 converts v losslessly, failing for unsigned values above MaxInt64.
func toInt64[T Integral](v T, rng uref.Range) (int64, bool) {
	if rng.Signed {
		return int64(v), true
	}
	u := uint64(v)
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}
