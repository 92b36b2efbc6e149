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

package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// CorpusSource provides raw documents and a cheap fingerprint of the
// corpus state. Implementations must filter to only published or
// eligible documents and must exclude the cache's own storage artifact
// from the corpus.
type CorpusSource interface {
	// Kind identifies the corpus this source serves.
	Kind() SourceKind

	// ListDocuments returns all eligible documents.
	ListDocuments(ctx context.Context) ([]Document, error)

	// Fingerprint returns the current corpus fingerprint without
	// reading document content.
	Fingerprint(ctx context.Context) (CorpusFingerprint, error)
}

// CacheStore persists cache records. Any key-value store with
// read-after-write consistency suffices.
type CacheStore interface {
	// Read returns the record for key, or (nil, nil) if absent.
	Read(ctx context.Context, key string) (*CacheRecord, error)

	// Write replaces the record for key atomically.
	Write(ctx context.Context, key string, record *CacheRecord) error

	// Delete removes the record for key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}

// RebuildResult reports the outcome of a rebuild-if-needed call.
type RebuildResult struct {
	FromCache          bool
	ProcessedDocuments []ProcessedDocument
}

// cacheRecordVersion tags persisted records so a future schema change
// can invalidate old files.
const cacheRecordVersion = "1.0"

// Manager keeps the processed-document index in sync with the live
// corpus. The in-memory index is replaced wholesale on rebuild and read
// by any number of in-flight queries; readers get whatever snapshot was
// current when they asked.
type Manager struct {
	source  CorpusSource
	store   CacheStore
	indexer *Indexer
	key     string
	logger  *slog.Logger
	metrics *QueryMetrics

	mu         sync.RWMutex
	current    []ProcessedDocument
	currentFP  *CorpusFingerprint
	isIndexing bool
}

// NewManager creates a cache manager. The key names the slot in the
// cache store; one manager owns exactly one slot.
func NewManager(source CorpusSource, store CacheStore, indexer *Indexer, key string) *Manager {
	return &Manager{
		source:  source,
		store:   store,
		indexer: indexer,
		key:     key,
		logger:  slog.Default().With("component", "cache_manager", "corpus", string(source.Kind())),
		metrics: &QueryMetrics{},
	}
}

// Metrics returns the manager's query metrics tracker.
func (m *Manager) Metrics() *QueryMetrics {
	return m.metrics
}

// Current returns the in-memory index snapshot. May be empty before the
// first successful rebuild.
func (m *Manager) Current() []ProcessedDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset discards the in-memory index. The persisted record is left in
// place; the next RebuildIfNeeded reloads or rebuilds as appropriate.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	m.currentFP = nil
}

// Invalidate drops the in-memory snapshot and deletes the persisted
// cache record, forcing the next rebuild to read the source.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.Reset()
	return m.store.Delete(ctx, m.key)
}

// IsValid reports whether a cache record still matches the live corpus.
// All three checks must pass: document count, canonical id list, and
// the modification watermark.
func IsValid(record *CacheRecord, live CorpusFingerprint) bool {
	return record != nil && record.Metadata.Fingerprint().Covers(live)
}

// RebuildIfNeeded checks the persisted record against the live corpus
// fingerprint and rebuilds only when they disagree. It is idempotent: a
// second call with no underlying corpus change neither re-fetches nor
// re-chunks. A rebuild requested while one is in flight returns the
// current snapshot instead of starting a second pass over the same
// cache slot.
func (m *Manager) RebuildIfNeeded(ctx context.Context) (*RebuildResult, error) {
	m.mu.Lock()
	if m.isIndexing {
		snapshot := m.current
		m.mu.Unlock()
		m.logger.Debug("Rebuild already in flight, returning current snapshot")
		return &RebuildResult{FromCache: true, ProcessedDocuments: snapshot}, nil
	}
	m.isIndexing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.isIndexing = false
		m.mu.Unlock()
	}()

	live, err := m.source.Fingerprint(ctx)
	if err != nil {
		// An unreachable source means an empty corpus for this cycle,
		// not a crash. Keep whatever snapshot we already have.
		m.logger.Warn("Corpus source unavailable, treating corpus as empty",
			"error", err)
		return &RebuildResult{FromCache: true, ProcessedDocuments: m.Current()},
			NewSourceUnavailableError(string(m.source.Kind()), "fingerprint", err)
	}

	// When the in-memory snapshot was built against a fingerprint that
	// still covers the live corpus there is nothing to reload, not even
	// from the store.
	m.mu.RLock()
	if m.currentFP != nil && m.currentFP.Covers(live) {
		snapshot := m.current
		m.mu.RUnlock()
		m.metrics.RecordCacheHit()
		m.logger.Debug("In-memory index current, skipping cache read")
		return &RebuildResult{FromCache: true, ProcessedDocuments: snapshot}, nil
	}
	m.mu.RUnlock()

	record, err := m.store.Read(ctx, m.key)
	if err != nil {
		m.logger.Warn("Cache read failed, rebuilding", "error", err)
		record = nil
	}

	if IsValid(record, live) {
		m.metrics.RecordCacheHit()
		m.swap(record.ProcessedDocuments, record.Metadata.Fingerprint())
		m.logger.Debug("Cache valid, loaded processed documents",
			"documents", len(record.ProcessedDocuments))
		return &RebuildResult{FromCache: true, ProcessedDocuments: record.ProcessedDocuments}, nil
	}

	return m.rebuild(ctx, live)
}

func (m *Manager) rebuild(ctx context.Context, live CorpusFingerprint) (*RebuildResult, error) {
	m.metrics.RecordRebuild()
	started := time.Now()

	docs, err := m.source.ListDocuments(ctx)
	if err != nil {
		m.logger.Warn("Document fetch failed during rebuild", "error", err)
		return &RebuildResult{FromCache: true, ProcessedDocuments: m.Current()},
			NewSourceUnavailableError(string(m.source.Kind()), "list_documents", err)
	}

	processed := m.indexer.Process(ctx, docs)
	record := &CacheRecord{
		Metadata: CacheMetadata{
			Kind:         live.Kind,
			TotalDocs:    live.Count,
			LastModified: live.LastModified,
			DocumentIDs:  live.DocumentIDs,
			TotalChunks:  TotalChunks(processed),
			LastUpdated:  time.Now(),
			Version:      cacheRecordVersion,
		},
		ProcessedDocuments: processed,
	}

	if err := m.store.Write(ctx, m.key, record); err != nil {
		// The in-memory index is still usable; persistence catches up
		// on the next rebuild.
		m.logger.Warn("Cache write failed, continuing with in-memory index",
			"error", err)
	}

	m.swap(processed, live)
	m.logger.Info("Corpus reindexed",
		"documents", len(processed),
		"chunks", record.Metadata.TotalChunks,
		"duration", time.Since(started))
	return &RebuildResult{FromCache: false, ProcessedDocuments: processed}, nil
}

// swap replaces the in-memory index snapshot together with the
// fingerprint it was built against.
func (m *Manager) swap(docs []ProcessedDocument, fp CorpusFingerprint) {
	m.mu.Lock()
	m.current = docs
	m.currentFP = &fp
	m.mu.Unlock()
}

// Key returns the cache slot name, e.g. "rag-cache-articles".
func (m *Manager) Key() string {
	return m.key
}

// CacheKeyFor builds the conventional slot name for a corpus kind.
func CacheKeyFor(kind SourceKind) string {
	return fmt.Sprintf("rag-cache-%s", kind)
}
