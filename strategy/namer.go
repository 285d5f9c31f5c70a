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

// NewNamerStrategy creates an apis.Strategy that uses apis.KindNamer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is the fast path: if the zero value of the kind implements
// apis.KindNamer, return its EnumKindName() and stop the chain.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

// TryResolveType checks whether t's zero value implements apis.KindNamer.
// Empty names fall through.
func (*namerStrategy) TryResolveType(t reflect.Type) (string, bool) {
	nt, err := uref.Normalize(t)
	if err != nil {
		return "", false
	}
	n, ok := reflect.Zero(nt).Interface().(apis.KindNamer)
	if !ok {
		return "", false
	}
	if name := n.EnumKindName(); name != "" {
		return name, true
	}
	return "", false
}
