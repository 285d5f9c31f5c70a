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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"dirpx.dev/enumx/apis"
	"dirpx.dev/enumx/log"
)

// quarantineSuffix is appended to a store file that failed to decode.
const quarantineSuffix = ".corrupt"

// File persists each kind as one JSON file under a root directory.
//
// Saves write a temporary file next to the target and rename it into place,
// so a crash mid-write leaves the previous file intact. A file that fails to
// decode is moved aside to "<name>.corrupt" so the next save cannot destroy it.
type File struct {
	root   string
	mode   os.FileMode
	logger log.Logger
}

var _ apis.Store = (*File)(nil)

// NewFile creates a File store rooted at cfg.DataRoot. The directory is
// created on first save.
func NewFile(cfg apis.Config, logger log.Logger) *File {
	mode := cfg.FileMode
	if mode == 0 {
		mode = 0o644
	}
	return &File{root: cfg.DataRoot, mode: mode, logger: log.OrDiscard(logger)}
}

// Location returns the path of kind's store file.
func (s *File) Location(kind apis.Kind) string {
	return filepath.Join(s.root, FileName(kind.Name))
}

// Load reads and decodes kind's store file.
func (s *File) Load(kind apis.Kind) (apis.Snapshot, error) {
	path := s.Location(kind)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apis.Snapshot{}, ErrNotFound
		}
		return apis.Snapshot{}, fmt.Errorf("enumx(store): reading %s: %w", path, err)
	}

	snap, err := Decode(kind, data)
	if err != nil {
		s.quarantine(path)
		return apis.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Save atomically replaces kind's store file with snap.
func (s *File) Save(kind apis.Kind, snap apis.Snapshot) error {
	out, err := Encode(kind, snap)
	if err != nil {
		return fmt.Errorf("enumx(store): encoding %s: %w", kind.Name, err)
	}

	finalPath := s.Location(kind)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(finalPath), filepath.Base(finalPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(s.mode); err != nil {
		return err
	}
	if _, err := tmp.Write(out); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, finalPath); err != nil {
		return err
	}
	return syncDir(filepath.Dir(finalPath))
}

// syncDir flushes a directory so a completed rename survives power loss.
// Windows cannot fsync directory handles; NTFS journals the rename itself.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return fmt.Errorf("enumx(store): syncing %s: %w", dir, err)
	}
	return d.Close()
}

// Close is a no-op: File holds no open handles between calls.
func (s *File) Close() error {
	return nil
}

// quarantine moves an undecodable store file out of the way.
func (s *File) quarantine(path string) {
	dst := path + quarantineSuffix
	if err := os.Rename(path, dst); err != nil {
		s.logger.Warnf("enumx(store): could not move aside %s: %v", path, err)
		return
	}
	s.logger.Warnf("enumx(store): moved undecodable store %s to %s", path, dst)
}
