// Copyright 2026 The Debride Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package directive

import (
	"fmt"
	"os"
)

// File is a scoped handle on one test file being mutated. It captures the
// file's content exactly as it was when opened, so Restore can put the
// original bytes back no matter how many mutations were applied in between.
type File struct {
	path     string
	original []byte
	mode     os.FileMode
}

// Open reads the file at path and captures its content for later restore.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &File{
		path:     path,
		original: data,
		mode:     info.Mode().Perm(),
	}, nil
}

// Path returns the path the handle was opened on.
func (f *File) Path() string {
	return f.path
}

// Content returns the file content captured at Open time.
func (f *File) Content() string {
	return string(f.original)
}

// Apply writes content to the file. The write is atomic: the content goes to
// a temporary file in the same directory which is then renamed over the
// original, so a crash mid-write cannot leave a truncated test behind.
func (f *File) Apply(content string) error {
	tempFile := f.path + ".tmp"

	if err := os.WriteFile(tempFile, []byte(content), f.mode); err != nil {
		return fmt.Errorf("failed to write temporary file for %s: %w", f.path, err)
	}

	if err := os.Rename(tempFile, f.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file over %s: %w", f.path, err)
	}

	return nil
}

// Restore unconditionally writes the captured original content back to disk.
func (f *File) Restore() error {
	if err := f.Apply(string(f.original)); err != nil {
		return fmt.Errorf("failed to restore %s: %w", f.path, err)
	}
	return nil
}
