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

package strategy_test

import (
	htmltemplate "html/template"
	"reflect"
	"runtime"
	"sync"
	"testing"
	texttemplate "text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/strategy"
)

// Local test kinds.
type Color int
type Shape uint8
type Tagged int32
type Blank int16
type Gen[T any] int

func (Tagged) EnumKindName() string { return "game.tag" }
func (Blank) EnumKindName() string  { return "" }

// Ensure the local type actually satisfies apis.KindNamer (compile-time).
var _ apis.KindNamer = Tagged(0)

func TestNamerStrategy_TryResolveType(t *testing.T) {
	s := strategy.NewNamerStrategy()

	got, ok := s.TryResolveType(reflect.TypeOf(Tagged(0)))
	require.True(t, ok)
	require.Equal(t, "game.tag", got)

	// pointers normalize to the named type
	got, ok = s.TryResolveType(reflect.TypeOf(new(Tagged)))
	require.True(t, ok)
	require.Equal(t, "game.tag", got)

	// non-namer falls through
	got, ok = s.TryResolveType(reflect.TypeOf(Color(0)))
	require.False(t, ok)
	require.Empty(t, got)

	// empty name falls through
	_, ok = s.TryResolveType(reflect.TypeOf(Blank(0)))
	require.False(t, ok)

	_, ok = s.TryResolveType(nil)
	require.False(t, ok)
}

func TestReflectStrategy_TryResolveType(t *testing.T) {
	s := strategy.NewReflectStrategy()

	cases := []struct {
		name string
		typ  reflect.Type
		want string
		ok   bool
	}{
		{"named", reflect.TypeOf(Color(0)), "dirpx.dev/enumx/strategy_test.Color", true},
		{"ptr", reflect.TypeOf(new(Shape)), "dirpx.dev/enumx/strategy_test.Shape", true},
		{"generic", reflect.TypeOf(Gen[string](0)), "dirpx.dev/enumx/strategy_test.Gen", true},
		{"same base name, other path", reflect.TypeOf(htmltemplate.Template{}), "html/template.Template", true},
		{"same base name", reflect.TypeOf(texttemplate.Template{}), "text/template.Template", true},
		{"builtin", reflect.TypeOf(0), "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tc.typ)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReflectStrategy_ConcurrentMemoization(t *testing.T) {
	s := strategy.NewReflectStrategy()
	types := []reflect.Type{reflect.TypeOf(Color(0)), reflect.TypeOf(Shape(0)), reflect.TypeOf(Tagged(0))}
	want := []string{"dirpx.dev/enumx/strategy_test.Color", "dirpx.dev/enumx/strategy_test.Shape", "dirpx.dev/enumx/strategy_test.Tagged"}

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				j := (i + id) % len(types)
				if got, ok := s.TryResolveType(types[j]); !ok || got != want[j] {
					t.Errorf("TryResolveType(%v) = (%q,%v), want (%q,true)", types[j], got, ok, want[j])
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

func TestAliasStrategy_TryResolveType(t *testing.T) {
	s := strategy.NewAliasStrategy(map[reflect.Type]string{
		reflect.TypeOf(Color(0)): "legacy.Colour",
		reflect.TypeOf(0):        "ignored.builtin",
		reflect.TypeOf(Shape(0)): "",
	})

	got, ok := s.TryResolveType(reflect.TypeOf(new(Color)))
	require.True(t, ok)
	require.Equal(t, "legacy.Colour", got)

	_, ok = s.TryResolveType(reflect.TypeOf(0))
	require.False(t, ok, "builtin aliases are dropped")

	_, ok = s.TryResolveType(reflect.TypeOf(Shape(0)))
	require.False(t, ok, "empty aliases are dropped")
}
