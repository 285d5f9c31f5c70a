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

package store

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// FileName derives the store file name of a kind from its name.
// Names made only of [A-Za-z0-9._-] are used verbatim; anything else is
// replaced by '_' and suffixed with a short hash of the original name so
// distinct kinds never share a file.
func FileName(kindName string) string {
	safe := sanitize(kindName)
	if safe != kindName {
		safe = fmt.Sprintf("%s-%08x", safe, uint32(xxh3.HashString(kindName)))
	}
	return safe + ".json"
}

func sanitize(s string) string {
	if s == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	// never produce hidden or relative names
	if strings.Trim(out, ".") == "" || strings.HasPrefix(out, ".") {
		out = "_" + out
	}
	return out
}
