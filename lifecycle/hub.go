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

package lifecycle

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/log"
)

// Hub is an in-process apis.Lifecycle. The host calls Emit at its save
// points and before shutdown; the registry subscribes persistence hooks.
type Hub struct {
	logger log.Logger

	mu   sync.Mutex
	subs map[apis.Event][]subscription
}

type subscription struct {
	key  string
	hook apis.Hook
}

// Ensure Hub implements apis.Lifecycle.
var _ apis.Lifecycle = (*Hub)(nil)

// NewHub creates an empty Hub.
func NewHub(logger log.Logger) *Hub {
	return &Hub{
		logger: log.OrDiscard(logger),
		subs:   make(map[apis.Event][]subscription),
	}
}

// Subscribe registers hook for ev under key. Re-subscribing a key replaces
// the hook in place, keeping its original position. Nil hooks are ignored.
func (h *Hub) Subscribe(ev apis.Event, key string, hook apis.Hook) {
	if hook == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[ev]
	for i := range subs {
		if subs[i].key == key {
			subs[i].hook = hook
			return
		}
	}
	h.subs[ev] = append(subs, subscription{key: key, hook: hook})
}

// Subscribers returns the number of hooks registered for ev.
func (h *Hub) Subscribers(ev apis.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[ev])
}

// Emit runs every hook subscribed to ev in subscription order. A failing or
// panicking hook does not stop the others; failures are logged and returned
// combined.
func (h *Hub) Emit(ev apis.Event) error {
	h.mu.Lock()
	subs := append([]subscription(nil), h.subs[ev]...)
	h.mu.Unlock()

	var err error
	for _, s := range subs {
		if herr := run(s.hook); herr != nil {
			h.logger.Warnf("enumx(lifecycle): %s hook %q failed: %v", ev, s.key, herr)
			err = multierr.Append(err, fmt.Errorf("%s: %w", s.key, herr))
		}
	}
	return err
}

func run(hook apis.Hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enumx(lifecycle): hook panicked: %v", r)
		}
	}()
	return hook()
}
