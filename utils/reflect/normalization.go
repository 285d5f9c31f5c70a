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

package reflect

import (
	"errors"
	"reflect"
)

// MaxUnwrap limits pointer unwrapping depth in Normalize.
const MaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named, package-level type.
	ErrReflectTypeNotNamed = errors.New("reflect: type is not a named package type")
)

// Normalize unwraps pointers and returns the nearest named inner type,
// or an error if none is found within MaxUnwrap steps.
//
// Builtin types ("int", "uint8", ...) are named but have no package; they are
// rejected because every kind backed by them would share one identity.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for i := 0; t.Kind() == reflect.Ptr && i < MaxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}
