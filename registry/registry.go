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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/cache"
	"dirpx.dev/enumx/log"
	"dirpx.dev/enumx/resolver"
	uref "dirpx.dev/enumx/utils/reflect"
)

// ErrConflictingKind is returned by Claim when a kind name is already used
// by another type, or a type is claimed again with a different descriptor.
var ErrConflictingKind = errors.New("enumx(registry): conflicting kind registration")

// New constructs a Registry whose managers persist through st.
// A nil resolver selects resolver.Default(nil); a nil logger discards.
func New(st apis.Store, res apis.Resolver, logger log.Logger) apis.Registry {
	if res == nil {
		res = resolver.Default(nil)
	}
	return &registry{
		store:    st,
		res:      res,
		logger:   log.OrDiscard(logger),
		managers: make(map[reflect.Type]apis.Manager),
		kinds:    make(map[reflect.Type]apis.Kind),
		owners:   make(map[string]reflect.Type),
	}
}

// registry is a simple Registry implementation backed by a mutex-guarded map.
type registry struct {
	store  apis.Store
	res    apis.Resolver
	logger log.Logger
	// mu guards the maps below and keeps creation single-shot per kind
	mu sync.RWMutex
	// managers maps the normalized kind type to its manager.
	managers map[reflect.Type]apis.Manager
	// kinds holds the claimed descriptor of each type.
	kinds map[reflect.Type]apis.Kind
	// owners maps a store name to the only type allowed to use it.
	owners map[string]reflect.Type
	// order remembers creation order so SaveAll is deterministic.
	order []reflect.Type
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// Claim records kind under its resolved name. Claiming the same descriptor
// twice is a no-op.
func (r *registry) Claim(kind apis.Kind) (apis.Kind, error) {
	key := normalize(kind.Type)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claim(key, kind)
}

// claim must be called with mu held.
func (r *registry) claim(key reflect.Type, kind apis.Kind) (apis.Kind, error) {
	if kind.Name == "" {
		kind.Name = r.res.ResolveType(key)
	}
	if prev, ok := r.kinds[key]; ok {
		if prev.Name != kind.Name || prev.Min != kind.Min || prev.Max != kind.Max {
			return prev, fmt.Errorf("%w: %s is registered as %q [%d, %d], not %q [%d, %d]",
				ErrConflictingKind, key, prev.Name, prev.Min, prev.Max, kind.Name, kind.Min, kind.Max)
		}
		return prev, nil
	}
	if kind.Name == "" {
		return kind, fmt.Errorf("%w: no name resolved for %s", ErrConflictingKind, key)
	}
	if owner, ok := r.owners[kind.Name]; ok {
		return kind, fmt.Errorf("%w: name %q is used by %s, not %s", ErrConflictingKind, kind.Name, owner, key)
	}

	r.kinds[key] = kind
	r.owners[kind.Name] = key
	return kind, nil
}

// Ensure returns the manager for kind, creating and loading it on first use.
// The load completes before Ensure returns, so the first allocation for a
// kind always sees its persisted entries.
//
// A type claimed earlier keeps its first descriptor. A type whose name is
// owned by another type gets a name qualified with its own package path,
// so two kinds never share a store.
func (r *registry) Ensure(kind apis.Kind) apis.Manager {
	key := normalize(kind.Type)

	// Fast read path.
	r.mu.RLock()
	m, ok := r.managers[key]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another caller created it meanwhile.
	if m, ok := r.managers[key]; ok {
		return m
	}

	claimed, err := r.claim(key, kind)
	if err != nil {
		if _, known := r.kinds[key]; known {
			r.logger.Warnf("enumx(registry): keeping first registration: %v", err)
		} else {
			claimed.Name = r.qualify(key, claimed.Name)
			r.logger.Errorf("enumx(registry): %v; using %q instead", err, claimed.Name)
			r.kinds[key] = claimed
			r.owners[claimed.Name] = key
		}
	}

	nm := cache.New(claimed, r.store, r.logger)
	nm.Load()
	r.managers[key] = nm
	r.order = append(r.order, key)
	r.logger.Debugf("enumx(registry): manager ready for %s (base offset %d, %d entries)",
		claimed.Name, claimed.BaseOffset(), nm.Count())
	return nm
}

// TryGet returns the manager for t without creating one.
func (r *registry) TryGet(t reflect.Type) (apis.Manager, bool) {
	if t == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[normalize(t)]
	return m, ok
}

// Kinds returns the known kinds in creation order.
func (r *registry) Kinds() []apis.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]apis.Kind, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.managers[t].Kind())
	}
	return out
}

// SaveAll saves every dirty manager. Every failure is attempted, logged by
// its manager and returned combined.
func (r *registry) SaveAll() error {
	r.mu.RLock()
	managers := make([]apis.Manager, 0, len(r.order))
	for _, t := range r.order {
		managers = append(managers, r.managers[t])
	}
	r.mu.RUnlock()

	var err error
	for _, m := range managers {
		err = multierr.Append(err, m.Save())
	}
	return err
}

// Resolver returns the resolver used to name kinds.
func (r *registry) Resolver() apis.Resolver {
	return r.res
}

// qualify derives a fallback store name for t that no type owns yet.
// Types sharing package path and name (function-local types) are numbered
// in creation order. Must be called with mu held.
func (r *registry) qualify(t reflect.Type, name string) string {
	base := name + "@" + t.PkgPath() + "." + t.Name()
	q := base
	for i := 2; ; i++ {
		if _, taken := r.owners[q]; !taken {
			return q
		}
		q = fmt.Sprintf("%s#%d", base, i)
	}
}

// normalize maps pointer kinds to their named type; other types are kept
// as-is so identity never collapses.
func normalize(t reflect.Type) reflect.Type {
	if nt, err := uref.Normalize(t); err == nil {
		return nt
	}
	return t
}
