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

package registry_test

import (
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"
	"testing"
	texttemplate "text/template"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/config"
	"dirpx.dev/enumx/registry"
	"dirpx.dev/enumx/resolver"
	"dirpx.dev/enumx/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// A few named kinds.
type Color uint8
type Shape int
type Sound int64

func kindOf(t reflect.Type, maxNative int64) apis.Kind {
	return apis.Kind{Type: t, Min: 0, Max: maxNative}
}

func newRegistry(t *testing.T) (apis.Registry, apis.Config) {
	t.Helper()
	cfg := config.NewConfig(config.WithDataRoot(t.TempDir()))
	return registry.New(store.NewFile(cfg, nil), nil, nil), cfg
}

func TestEnsure_CreatesOnceAndNamesKind(t *testing.T) {
	reg, _ := newRegistry(t)

	_, ok := reg.TryGet(reflect.TypeOf(Color(0)))
	require.False(t, ok, "TryGet must not create")

	m := reg.Ensure(kindOf(reflect.TypeOf(Color(0)), 3))
	require.NotNil(t, m)
	require.Equal(t, "dirpx.dev/enumx/registry_test.Color", m.Kind().Name)
	require.EqualValues(t, 4, m.Kind().BaseOffset())

	again := reg.Ensure(kindOf(reflect.TypeOf(Color(0)), 3))
	require.Same(t, m, again)

	got, ok := reg.TryGet(reflect.TypeOf(new(Color)))
	require.True(t, ok, "pointer kinds resolve to the same manager")
	require.Same(t, m, got)

	_, ok = reg.TryGet(nil)
	require.False(t, ok)
}

func TestEnsure_KeepsExplicitName(t *testing.T) {
	reg, _ := newRegistry(t)
	kind := kindOf(reflect.TypeOf(Shape(0)), 10)
	kind.Name = "geo.shape"

	m := reg.Ensure(kind)
	require.Equal(t, "geo.shape", m.Kind().Name)
}

func TestEnsure_LoadsPersistedEntries(t *testing.T) {
	reg, cfg := newRegistry(t)
	m := reg.Ensure(kindOf(reflect.TypeOf(Color(0)), 3))
	foo, _ := m.RequestEntry("Foo", true)
	require.NoError(t, reg.SaveAll())

	// next run
	reg2 := registry.New(store.NewFile(cfg, nil), nil, nil)
	m2 := reg2.Ensure(kindOf(reflect.TypeOf(Color(0)), 3))
	got, ok := m2.RequestEntry("Foo", false)
	require.True(t, ok)
	require.Equal(t, foo, got)
}

func TestKinds_CreationOrder(t *testing.T) {
	reg, _ := newRegistry(t)
	reg.Ensure(kindOf(reflect.TypeOf(Sound(0)), 1))
	reg.Ensure(kindOf(reflect.TypeOf(Color(0)), 1))
	reg.Ensure(kindOf(reflect.TypeOf(Shape(0)), 1))

	kinds := reg.Kinds()
	require.Len(t, kinds, 3)
	require.Equal(t, "dirpx.dev/enumx/registry_test.Sound", kinds[0].Name)
	require.Equal(t, "dirpx.dev/enumx/registry_test.Color", kinds[1].Name)
	require.Equal(t, "dirpx.dev/enumx/registry_test.Shape", kinds[2].Name)
}

func TestSaveAll_AggregatesFailures(t *testing.T) {
	root := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))
	cfg := config.NewConfig(config.WithDataRoot(root))
	reg := registry.New(store.NewFile(cfg, nil), nil, nil)

	reg.Ensure(kindOf(reflect.TypeOf(Color(0)), 1)).RequestEntry("A", true)
	reg.Ensure(kindOf(reflect.TypeOf(Shape(0)), 1)).RequestEntry("B", true)
	reg.Ensure(kindOf(reflect.TypeOf(Sound(0)), 1)) // clean, not saved

	err := reg.SaveAll()
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)

	for _, k := range reg.Kinds()[:2] {
		m, _ := reg.TryGet(k.Type)
		require.True(t, m.Dirty())
	}
}

func TestResolver_DefaultAndCustom(t *testing.T) {
	reg, _ := newRegistry(t)
	require.NotNil(t, reg.Resolver())

	custom := resolver.Default(map[reflect.Type]string{reflect.TypeOf(Color(0)): "legacy.colour"})
	reg2 := registry.New(store.NewFile(config.NewConfig(config.WithDataRoot(t.TempDir())), nil), custom, nil)
	m := reg2.Ensure(kindOf(reflect.TypeOf(Color(0)), 1))
	require.Equal(t, "legacy.colour", m.Kind().Name)
}

// Two kinds that pick the same store name through KindNamer.
type Fruit int
type Vegetable int

func (Fruit) EnumKindName() string     { return "garden.produce" }
func (Vegetable) EnumKindName() string { return "garden.produce" }

func TestClaim_RejectsSharedName(t *testing.T) {
	reg, _ := newRegistry(t)

	fruit, err := reg.Claim(kindOf(reflect.TypeOf(Fruit(0)), 3))
	require.NoError(t, err)
	require.Equal(t, "garden.produce", fruit.Name)

	_, err = reg.Claim(kindOf(reflect.TypeOf(Vegetable(0)), 3))
	require.ErrorIs(t, err, registry.ErrConflictingKind)

	// claiming the same descriptor again is fine
	again, err := reg.Claim(kindOf(reflect.TypeOf(new(Fruit)), 3))
	require.NoError(t, err)
	require.Equal(t, fruit, again)
}

func TestClaim_RejectsDifferentBounds(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Claim(kindOf(reflect.TypeOf(Color(0)), 3))
	require.NoError(t, err)
	_, err = reg.Claim(kindOf(reflect.TypeOf(Color(0)), 7))
	require.ErrorIs(t, err, registry.ErrConflictingKind)

	// Ensure keeps the first descriptor
	m := reg.Ensure(kindOf(reflect.TypeOf(Color(0)), 7))
	require.EqualValues(t, 4, m.Kind().BaseOffset())
}

func TestClaim_SameShortNameDifferentPackages(t *testing.T) {
	reg, _ := newRegistry(t)

	// same package base name and type name, different import paths
	text, err := reg.Claim(kindOf(reflect.TypeOf(texttemplate.Template{}), 1))
	require.NoError(t, err)
	html, err := reg.Claim(kindOf(reflect.TypeOf(htmltemplate.Template{}), 1))
	require.NoError(t, err)
	require.Equal(t, "text/template.Template", text.Name)
	require.Equal(t, "html/template.Template", html.Name)

	c, err := reg.Claim(kindOf(reflect.TypeOf(Color(0)), 1))
	require.NoError(t, err)
	require.Equal(t, "dirpx.dev/enumx/registry_test.Color", c.Name)
}

func TestEnsure_SharedNameKeepsStoresApart(t *testing.T) {
	reg, cfg := newRegistry(t)

	fruits := reg.Ensure(kindOf(reflect.TypeOf(Fruit(0)), 3))
	vegetables := reg.Ensure(kindOf(reflect.TypeOf(Vegetable(0)), 3))
	require.NotEqual(t, fruits.Kind().Name, vegetables.Kind().Name)

	apple, _ := fruits.RequestEntry("Apple", true)
	leek, _ := vegetables.RequestEntry("Leek", true)
	require.NoError(t, reg.SaveAll())

	// next run, same registration order
	reg2 := registry.New(store.NewFile(cfg, nil), nil, nil)
	_, err := reg2.Claim(kindOf(reflect.TypeOf(Fruit(0)), 3))
	require.NoError(t, err)
	fruits2 := reg2.Ensure(kindOf(reflect.TypeOf(Fruit(0)), 3))
	vegetables2 := reg2.Ensure(kindOf(reflect.TypeOf(Vegetable(0)), 3))

	got, ok := fruits2.RequestEntry("Apple", false)
	require.True(t, ok)
	require.Equal(t, apple, got)
	_, ok = fruits2.RequestEntry("Leek", false)
	require.False(t, ok, "kinds never see each other's names")

	got, ok = vegetables2.RequestEntry("Leek", false)
	require.True(t, ok)
	require.Equal(t, leek, got)
}

// TestConcurrentEnsureAndRequest verifies that Ensure/RequestEntry are
// race-free and that concurrent callers agree on every index.
func TestConcurrentEnsureAndRequest(t *testing.T) {
	reg, _ := newRegistry(t)
	kind := kindOf(reflect.TypeOf(Shape(0)), 9)
	names := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7"}

	workers := runtime.GOMAXPROCS(0) * 4
	results := make([]map[string]int64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			got := make(map[string]int64, len(names))
			for i := 0; i < 200; i++ {
				name := names[(i+id)%len(names)]
				e, ok := reg.Ensure(kind).RequestEntry(name, true)
				if !ok {
					t.Errorf("RequestEntry(%q) failed", name)
					return
				}
				if prev, seen := got[name]; seen && prev != e.Index {
					t.Errorf("%q changed index: %d -> %d", name, prev, e.Index)
					return
				}
				got[name] = e.Index
			}
			results[id] = got
		}(w)
	}
	wg.Wait()

	m, ok := reg.TryGet(kind.Type)
	require.True(t, ok)
	require.Equal(t, len(names), m.Count())
	for _, r := range results {
		for name, idx := range r {
			e, _ := m.RequestEntry(name, false)
			require.Equal(t, e.Index, idx)
		}
	}

	seen := map[int64]bool{}
	for _, e := range m.Entries() {
		require.False(t, seen[e.Index])
		require.GreaterOrEqual(t, e.Index, int64(10))
		seen[e.Index] = true
	}
	require.NoError(t, reg.SaveAll())
}
