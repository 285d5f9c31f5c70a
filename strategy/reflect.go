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

package strategy

import (
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/enumx/apis"
	uref "dirpx.dev/enumx/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that names kinds via
// reflection using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback that computes a stable
// "import/path.Type". The full import path keeps same-named types of
// different packages apart; it unwraps pointers via Normalize and strips
// generic instantiation parameters. Builtin types are never handled.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// typeNameCache caches resolved type names by type.
var typeNameCache sync.Map // key: reflect.Type, val: string

// TryResolveType computes the "import/path.Type" name for t.
func (reflectStrategy) TryResolveType(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	name := byType(t)
	return name, name != ""
}

// byType resolves the kind name for t with memoization.
func byType(t reflect.Type) string {
	if v, ok := typeNameCache.Load(t); ok {
		return v.(string)
	}

	base, err := uref.Normalize(t)
	if err != nil {
		typeNameCache.Store(t, "")
		return ""
	}

	name := base.PkgPath() + "." + stripTypeParams(base.Name())
	typeNameCache.Store(t, name)
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
