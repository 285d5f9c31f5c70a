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

package apis

import "reflect"

// Kind identifies one closed, host-defined enumeration that extensions
// may append variants to.
type Kind struct {
	// Type is the Go type backing the enumeration. It is the identity key
	// used by the Registry.
	Type reflect.Type
	// Name is the stable store name of the kind, resolved from Type.
	Name string
	// Min is the smallest host-native ordinal.
	Min int64
	// Max is the largest host-native ordinal.
	Max int64
}

// BaseOffset returns the first index usable by extensions: one past the
// largest host-native ordinal.
func (k Kind) BaseOffset() int64 {
	return k.Max + 1
}

// String returns the kind name.
func (k Kind) String() string {
	return k.Name
}
