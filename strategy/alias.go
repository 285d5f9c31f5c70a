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

	"dirpx.dev/enumx/apis"
	uref "dirpx.dev/enumx/utils/reflect"
)

// NewAliasStrategy creates an apis.Strategy that pins store names for
// specific kinds. It is how a kind keeps its persisted identifiers after
// its Go type is renamed or moved to another package.
// Aliases whose type is not a named package type are ignored.
func NewAliasStrategy(aliases map[reflect.Type]string) apis.Strategy {
	m := make(map[reflect.Type]string, len(aliases))
	for t, name := range aliases {
		nt, err := uref.Normalize(t)
		if err != nil || name == "" {
			continue
		}
		m[nt] = name
	}
	return &aliasStrategy{m: m}
}

// aliasStrategy consults a fixed type -> name table (reflection-free lookup).
type aliasStrategy struct {
	m map[reflect.Type]string
}

// Ensure aliasStrategy implements apis.Strategy.
var _ apis.Strategy = (*aliasStrategy)(nil)

// TryResolveType looks up t in the alias table.
func (s *aliasStrategy) TryResolveType(t reflect.Type) (string, bool) {
	nt, err := uref.Normalize(t)
	if err != nil {
		return "", false
	}
	name, ok := s.m[nt]
	return name, ok
}
