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

package feedback

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps QnA records in memory. Used in tests and when no
// feedback database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*QnARecord
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*QnARecord)}
}

// ListApproved returns all approved records.
func (s *MemoryStore) ListApproved(ctx context.Context) ([]QnARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []QnARecord
	for _, r := range s.records {
		if r.IsApproved {
			records = append(records, *r)
		}
	}
	return records, nil
}

// Get returns the record with the given id, or (nil, nil) if absent.
func (s *MemoryStore) Get(ctx context.Context, id string) (*QnARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

// Save inserts or replaces a record.
func (s *MemoryStore) Save(ctx context.Context, record *QnARecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	s.records[record.ID] = &copied
	return nil
}

// TouchUsed folds a new rating into the rolling average and bumps the
// usage timestamp.
func (s *MemoryStore) TouchUsed(ctx context.Context, id string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil
	}
	r.AverageRating = (r.AverageRating*float64(r.RatingCount) + rating) / float64(r.RatingCount+1)
	r.RatingCount++
	r.LastUsed = time.Now()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
