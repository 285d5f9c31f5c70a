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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/enumx/apis"
)

func TestSyncDir(t *testing.T) {
	require.NoError(t, syncDir(t.TempDir()))

	if runtime.GOOS != "windows" {
		require.Error(t, syncDir(filepath.Join(t.TempDir(), "missing")))
	}
}

func TestSave_LeavesOnlyTheTargetInItsDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "root")
	s := NewFile(apis.Config{DataRoot: root}, nil)
	kind := apis.Kind{Name: "host.Color", Max: 9}

	require.NoError(t, s.Save(kind, apis.Snapshot{Entries: []apis.Entry{{Name: "Foo", Index: 10}}}))
	files, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, FileName(kind.Name), files[0].Name())
}
