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

// Registry maps enumeration kinds to their Manager. Managers are created
// lazily on first use and live as long as the Registry.
type Registry interface {
	// Claim records kind's descriptor and store name without creating its
	// Manager. It fails when another type already uses the name, or when the
	// type was claimed with a different descriptor. The returned Kind carries
	// the resolved name.
	Claim(kind Kind) (Kind, error)
	// Ensure returns the Manager for kind, creating and loading it if absent.
	// It never fails: conflicts are logged and the first registration wins.
	Ensure(kind Kind) Manager
	// TryGet returns the Manager for t without creating one.
	TryGet(t reflect.Type) (Manager, bool)
	// Kinds returns a snapshot of the known kinds in creation order.
	Kinds() []Kind
	// SaveAll saves every dirty Manager and returns the aggregated failures.
	SaveAll() error
	// Resolver returns the resolver used to name kinds.
	Resolver() Resolver
}
