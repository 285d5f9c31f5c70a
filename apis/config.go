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

import "os"

// Config carries read-only knobs for the persisted stores.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// DataRoot is the directory all persisted stores live under.
	// Store locations are derived deterministically from the kind name
	// inside this root.
	DataRoot string

	// Backend selects the persisted store implementation.
	Backend Backend

	// FileMode is the permission used for store files.
	FileMode os.FileMode
}
