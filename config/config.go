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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"dirpx.dev/enumx/apis"
)

const (
	// DefaultDataRoot is the plugin-data root used when none is provided.
	DefaultDataRoot = "plugindata/enumx"
	// DefaultBackend persists one JSON file per kind.
	DefaultBackend = apis.FileBackend
	// DefaultFileMode is the permission used for store files.
	DefaultFileMode os.FileMode = 0o644
)

var (
	// ErrEmptyDataRoot is returned when the data root is empty.
	ErrEmptyDataRoot = errors.New("enumx(config): empty data root")
	// ErrUnknownBackend is returned for a Backend value with no implementation.
	ErrUnknownBackend = errors.New("enumx(config): unknown backend")
	// ErrInvalidFileMode is returned when the file mode is not writable by the owner.
	ErrInvalidFileMode = errors.New("enumx(config): file mode must be owner-writable")
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure the root stays usable.
	if cfg.DataRoot == "" {
		cfg.DataRoot = DefaultDataRoot
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = DefaultFileMode
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		DataRoot: DefaultDataRoot,
		Backend:  DefaultBackend,
		FileMode: DefaultFileMode,
	}
}

// Validate reports every problem with cfg at once.
func Validate(cfg apis.Config) error {
	var err error
	if cfg.DataRoot == "" {
		err = multierr.Append(err, ErrEmptyDataRoot)
	}
	switch cfg.Backend {
	case apis.FileBackend, apis.BoltBackend:
	default:
		err = multierr.Append(err, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend))
	}
	if cfg.FileMode&0o200 == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %v", ErrInvalidFileMode, cfg.FileMode))
	}
	return err
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithDataRoot sets the DataRoot option. The path is cleaned; an empty
// path resets to the default.
func WithDataRoot(root string) Option {
	return func(c *apis.Config) {
		if root == "" {
			c.DataRoot = DefaultDataRoot
			return
		}
		c.DataRoot = filepath.Clean(root)
	}
}

// WithBackend sets the Backend option.
func WithBackend(b apis.Backend) Option {
	return func(c *apis.Config) {
		c.Backend = b
	}
}

// WithFileMode sets the FileMode option.
// A zero mode resets to the default.
func WithFileMode(mode os.FileMode) Option {
	return func(c *apis.Config) {
		if mode == 0 {
			c.FileMode = DefaultFileMode
			return
		}
		c.FileMode = mode
	}
}
