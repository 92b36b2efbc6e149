// Copyright 2025 Sander Nunes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache persists processed-document index records.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
	"github.com/SanderNunes/cellito-engine/pkg/utils"
)

// FileStore persists cache records as JSON files in a directory, one
// file per key. Writes go through a temp file and rename so readers
// never see a partially written record.
type FileStore struct {
	dir string
}

var _ rag.CacheStore = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Read returns the record for key, or (nil, nil) if absent.
func (s *FileStore) Read(ctx context.Context, key string) (*rag.CacheRecord, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache record %q: %w", key, err)
	}

	var record rag.CacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// A corrupt record is treated as absent so the manager
		// rebuilds over it.
		return nil, nil
	}
	return &record, nil
}

// Write replaces the record for key atomically.
func (s *FileStore) Write(ctx context.Context, key string, record *rag.CacheRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode cache record %q: %w", key, err)
	}

	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache record %q: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit cache record %q: %w", key, err)
	}
	return nil
}

// Delete removes the record for key. A missing record is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache record %q: %w", key, err)
	}
	return nil
}

// Dir returns the store's data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// path maps a key to its file, sanitizing separators.
func (s *FileStore) path(key string) string {
	safe := strings.ReplaceAll(key, string(filepath.Separator), "_")
	return filepath.Join(s.dir, safe+".json")
}
