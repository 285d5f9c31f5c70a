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

// Package enumx lets independently developed extensions append variants to
// closed, host-defined enumerations while every variant keeps one stable
// numeric identifier across process restarts.
//
// # Design
//
// An enumeration kind is a named Go integer type plus the smallest and
// largest value the host itself defines. Extensions ask for variants by
// name; the first request for a name allocates the next free index above
// the host's values, later requests (from any caller) return the same one.
//
// The pieces, leaves first:
//
//   - apis.Entry: an immutable (name, index) pair, the unit of persistence.
//
//   - cache.Manager: one per kind. Owns the bijective name <-> index map,
//     the allocation rule and the load/save of the kind's store. Indices
//     are never reused: the next index is always one past the highest
//     index the kind has ever issued, even if the name that claimed it is
//     not registered in this run.
//
//   - registry: maps a kind's reflect.Type to its Manager and creates
//     managers lazily. A manager is loaded from its store before the
//     first allocation can happen. Each store name belongs to one type:
//     the default name is the full import path plus the type name, and a
//     second type claiming a name in use is rejected.
//
//   - builder.Builder[T]: the handle extensions use. It converts indices to
//     T with checked conversions and reports builder.ErrInvalidEnumType
//     when T cannot hold them.
//
//   - lifecycle.Hub: the host emits apis.SaveCheckpoint at its save points
//     and apis.Shutdown before exit; each kind subscribes its save.
//
// Persistence only happens at those events, never per allocation; Shutdown
// also flushes kinds that were used without being passed to Init. Issued
// indices no name is bound to are persisted as reserved. A failed save is
// logged, the kind stays dirty and the next checkpoint retries.
// A missing or corrupt store is logged and the kind starts empty; it never
// aborts host startup.
//
// # Usage pattern in a host
//
//	rt, err := enumx.New(config.NewConfig(config.WithDataRoot("plugindata/enumx")), log.NewZap(log.InfoLevel))
//	...
//	tech, err := enumx.Define(rt, Titanium, Quartz) // host values 0..2
//	...
//	_ = rt.Init(tech) // static list of kinds, once at startup
//
//	kyanite, err := tech.ResolveOrCreate("Kyanite") // extension code
//	if v, ok := tech.TryResolve("Ruby"); ok { ... } // lookup only
//
//	_ = rt.Checkpoint() // at host save points
//	_ = rt.Shutdown()   // before exit
//
// # Stores
//
// store.File writes one JSON file per kind under the data root through a
// temporary file and rename, then syncs the directory. store.Bolt keeps all kinds in one bbolt
// database. Concurrent use of one store by several processes is not
// supported.
package enumx
