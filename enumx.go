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

package enumx

import (
	"errors"
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/builder"
	"dirpx.dev/enumx/config"
	"dirpx.dev/enumx/lifecycle"
	"dirpx.dev/enumx/log"
	"dirpx.dev/enumx/registry"
	"dirpx.dev/enumx/store"
)

// ErrShutdown is returned by Checkpoint after Shutdown.
var ErrShutdown = errors.New("enumx: runtime is shut down")

// Initializer is a kind taking part in startup initialization.
// *builder.Builder[T] implements it.
type Initializer interface {
	Initialize(lc apis.Lifecycle) error
}

// Runtime wires one store, one kind registry and one lifecycle hub together.
// A process constructs it once at startup and hands it (or its Registry) to
// every extension.
type Runtime struct {
	cfg    apis.Config
	logger log.Logger
	store  apis.Store
	reg    apis.Registry
	hub    *lifecycle.Hub
	closed atomic.Bool
}

// Option customizes a Runtime during New.
type Option func(*options)

type options struct {
	store    apis.Store
	resolver apis.Resolver
}

// WithStore replaces the store selected by cfg.Backend.
func WithStore(st apis.Store) Option {
	return func(o *options) { o.store = st }
}

// WithResolver replaces the default kind naming chain.
func WithResolver(res apis.Resolver) Option {
	return func(o *options) { o.resolver = res }
}

// New validates cfg, opens its store and returns a ready Runtime.
// A nil logger discards.
func New(cfg apis.Config, logger log.Logger, opts ...Option) (*Runtime, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	logger = log.OrDiscard(logger)

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	st := o.store
	if st == nil {
		var err error
		if st, err = OpenStore(cfg, logger); err != nil {
			return nil, err
		}
	}

	return &Runtime{
		cfg:    cfg,
		logger: logger,
		store:  st,
		reg:    registry.New(st, o.resolver, logger),
		hub:    lifecycle.NewHub(logger),
	}, nil
}

// OpenStore opens the store selected by cfg.Backend.
func OpenStore(cfg apis.Config, logger log.Logger) (apis.Store, error) {
	switch cfg.Backend {
	case apis.FileBackend:
		return store.NewFile(cfg, logger), nil
	case apis.BoltBackend:
		return store.OpenBolt(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownBackend, cfg.Backend)
	}
}

// Define returns a Builder for kind T registered with rt.
func Define[T builder.Integral](rt *Runtime, min, max T) (*builder.Builder[T], error) {
	return builder.New(rt.reg, min, max)
}

// Init initializes a static list of kinds: each is loaded and its
// persistence hook registered. Every kind is attempted; failures are
// returned combined.
func (r *Runtime) Init(kinds ...Initializer) error {
	var err error
	for _, k := range kinds {
		if k == nil {
			continue
		}
		err = multierr.Append(err, k.Initialize(r.hub))
	}
	if err != nil {
		r.logger.Errorf("enumx: kind initialization failed: %v", err)
	}
	return err
}

// Checkpoint emits apis.SaveCheckpoint, saving every subscribed kind.
// Save failures are logged and returned; affected kinds stay dirty and are
// retried at the next checkpoint.
func (r *Runtime) Checkpoint() error {
	if r.closed.Load() {
		return ErrShutdown
	}
	return r.hub.Emit(apis.SaveCheckpoint)
}

// Shutdown emits apis.Shutdown, flushes every kind still dirty (including
// kinds never passed to Init) and closes the store. Later calls return nil.
func (r *Runtime) Shutdown() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := r.hub.Emit(apis.Shutdown)
	// hooked kinds are clean by now and skip the write
	err = multierr.Append(err, r.reg.SaveAll())
	err = multierr.Append(err, r.store.Close())
	if s, ok := r.logger.(syncer); ok {
		// stderr and pipes reject fsync; losing a log line is not a shutdown failure
		_ = s.Sync()
	}
	return err
}

// syncer is implemented by loggers that buffer, such as *log.Zap.
type syncer interface {
	Sync() error
}

// Registry returns the kind registry.
func (r *Runtime) Registry() apis.Registry {
	return r.reg
}

// Lifecycle returns the hub the host emits events on.
func (r *Runtime) Lifecycle() *lifecycle.Hub {
	return r.hub
}

// Store returns the persisted store.
func (r *Runtime) Store() apis.Store {
	return r.store
}

// Config returns the runtime configuration.
func (r *Runtime) Config() apis.Config {
	return r.cfg
}

// Logger returns the runtime logger.
func (r *Runtime) Logger() log.Logger {
	return r.logger
}
