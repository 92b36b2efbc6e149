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

package cache

import (
	"context"
	"sync"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
)

// MemoryStore keeps cache records in memory. Used in tests and for
// ephemeral deployments where a cold start simply reindexes.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*rag.CacheRecord
}

var _ rag.CacheStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*rag.CacheRecord)}
}

// Read returns the record for key, or (nil, nil) if absent.
func (s *MemoryStore) Read(ctx context.Context, key string) (*rag.CacheRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[key], nil
}

// Write replaces the record for key.
func (s *MemoryStore) Write(ctx context.Context, key string, record *rag.CacheRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	return nil
}

// Delete removes the record for key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
