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

package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
)

// MemorySource serves a fixed set of documents from memory. Used in
// tests and for corpora loaded from an embedded snapshot.
type MemorySource struct {
	mu   sync.RWMutex
	kind rag.SourceKind
	docs map[string]rag.Document
}

var _ rag.CorpusSource = (*MemorySource)(nil)

// NewMemorySource creates a source holding the given documents.
func NewMemorySource(kind rag.SourceKind, docs ...rag.Document) *MemorySource {
	s := &MemorySource{kind: kind, docs: make(map[string]rag.Document, len(docs))}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return s
}

// Kind identifies the corpus this source serves.
func (s *MemorySource) Kind() rag.SourceKind {
	return s.kind
}

// Put adds or replaces a document.
func (s *MemorySource) Put(doc rag.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

// Remove deletes a document by id.
func (s *MemorySource) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}

// ListDocuments returns all documents in id order.
func (s *MemorySource) ListDocuments(ctx context.Context) ([]rag.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]rag.Document, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.docs[id])
	}
	return result, nil
}

// Fingerprint summarizes the current document set.
func (s *MemorySource) Fingerprint(ctx context.Context) (rag.CorpusFingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fp := rag.CorpusFingerprint{Kind: s.kind, Count: len(s.docs)}
	for id, doc := range s.docs {
		fp.DocumentIDs = append(fp.DocumentIDs, id)
		if doc.ModifiedAt.After(fp.LastModified) {
			fp.LastModified = doc.ModifiedAt
		}
	}
	sort.Strings(fp.DocumentIDs)
	return fp, nil
}
