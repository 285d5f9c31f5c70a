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

// KindNamer lets an enumeration type pick its own store name instead of
// the reflect-derived "import/path.Type" form. The method is called on the zero
// value, so it must not depend on the receiver's value.
//
// The returned name becomes part of the persisted store location: changing
// it orphans every identifier issued under the old name.
type KindNamer interface {
	EnumKindName() string
}
