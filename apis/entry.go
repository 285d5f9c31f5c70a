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

// Entry is a single (name, index) binding issued for an enumeration kind.
// Entries are values: once created they are never mutated.
type Entry struct {
	// Name is the logical variant name chosen by the extension.
	Name string
	// Index is the numeric identifier handed out for Name.
	Index int64
}

// Snapshot is the persisted state of one kind.
type Snapshot struct {
	// Entries are the bound (name, index) pairs.
	Entries []Entry
	// Reserved lists issued indices no name is bound to (for example the
	// losing side of a conflicting record). They are kept so an index is
	// never handed out twice across runs.
	Reserved []int64
}
