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

import "fmt"

// Event is a host lifecycle checkpoint the registry can subscribe to.
type Event int

const (
	// SaveCheckpoint is emitted by the host at its defined save points.
	SaveCheckpoint Event = iota
	// Shutdown is emitted once before normal process exit.
	Shutdown
)

// String returns a human-readable representation of the Event value.
func (e Event) String() string {
	switch e {
	case SaveCheckpoint:
		return "SaveCheckpoint"
	case Shutdown:
		return "Shutdown"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

// Hook is a callback invoked on a lifecycle Event.
type Hook func() error

// Lifecycle lets the registry subscribe callbacks to host events.
// The host decides when and how often events fire.
type Lifecycle interface {
	// Subscribe registers hook for ev under key. Subscribing the same
	// (ev, key) pair again replaces the previous hook.
	Subscribe(ev Event, key string, hook Hook)
}
