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

package lifecycle_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/lifecycle"
	"dirpx.dev/enumx/log"
)

func TestEmit_RunsInOrder(t *testing.T) {
	hub := lifecycle.NewHub(nil)
	var calls []string
	hub.Subscribe(apis.SaveCheckpoint, "a", func() error { calls = append(calls, "a"); return nil })
	hub.Subscribe(apis.SaveCheckpoint, "b", func() error { calls = append(calls, "b"); return nil })
	hub.Subscribe(apis.Shutdown, "c", func() error { calls = append(calls, "c"); return nil })

	require.NoError(t, hub.Emit(apis.SaveCheckpoint))
	require.Equal(t, []string{"a", "b"}, calls)

	require.NoError(t, hub.Emit(apis.Shutdown))
	require.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestSubscribe_SameKeyReplaces(t *testing.T) {
	hub := lifecycle.NewHub(nil)
	var calls []string
	hub.Subscribe(apis.SaveCheckpoint, "a", func() error { calls = append(calls, "old"); return nil })
	hub.Subscribe(apis.SaveCheckpoint, "b", func() error { calls = append(calls, "b"); return nil })
	hub.Subscribe(apis.SaveCheckpoint, "a", func() error { calls = append(calls, "new"); return nil })
	hub.Subscribe(apis.SaveCheckpoint, "nil", nil)

	require.Equal(t, 2, hub.Subscribers(apis.SaveCheckpoint))
	require.NoError(t, hub.Emit(apis.SaveCheckpoint))
	require.Equal(t, []string{"new", "b"}, calls)
}

func TestEmit_FailuresAndPanicsAreCollected(t *testing.T) {
	buffer := new(bytes.Buffer)
	hub := lifecycle.NewHub(log.NewZap(log.WarningLevel, buffer))
	boom := errors.New("boom")
	ran := false
	hub.Subscribe(apis.Shutdown, "fails", func() error { return boom })
	hub.Subscribe(apis.Shutdown, "panics", func() error { panic("kaput") })
	hub.Subscribe(apis.Shutdown, "ok", func() error { ran = true; return nil })

	var err error
	require.NotPanics(t, func() { err = hub.Emit(apis.Shutdown) })
	require.True(t, ran, "later hooks still run")
	require.Len(t, multierr.Errors(err), 2)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "kaput")
	require.Contains(t, buffer.String(), "Shutdown hook")
}

func TestEmit_NoSubscribers(t *testing.T) {
	require.NoError(t, lifecycle.NewHub(nil).Emit(apis.Event(9)))
	require.Equal(t, "Unknown(9)", apis.Event(9).String())
}
