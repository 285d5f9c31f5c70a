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

import "errors"

var (
	// ErrNotFound is returned by Load when nothing was persisted for a kind yet.
	ErrNotFound = errors.New("enumx(store): no persisted entries")
	// ErrCorrupt is returned by Load when persisted content cannot be decoded
	// or fails its integrity check.
	ErrCorrupt = errors.New("enumx(store): corrupt persisted entries")
	// ErrUnsupportedVersion is returned by Load for an unknown schema version.
	ErrUnsupportedVersion = errors.New("enumx(store): unsupported schema version")
	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("enumx(store): store is closed")
)
