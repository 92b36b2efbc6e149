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
	"sync"
	"sync/atomic"
	"time"
)

// IndexMetrics tracks corpus indexing metrics.
//
// Thread-safe for concurrent access during indexing.
type IndexMetrics struct {
	corpus string

	totalDocs   int64
	indexedDocs int64
	skippedDocs int64
	errorDocs   int64

	startTime time.Time
	endTime   time.Time

	mu sync.RWMutex
}

// NewIndexMetrics creates a new metrics tracker.
func NewIndexMetrics(corpus string) *IndexMetrics {
	return &IndexMetrics{corpus: corpus}
}

// Reset clears all metrics.
func (m *IndexMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	atomic.StoreInt64(&m.totalDocs, 0)
	atomic.StoreInt64(&m.indexedDocs, 0)
	atomic.StoreInt64(&m.skippedDocs, 0)
	atomic.StoreInt64(&m.errorDocs, 0)
	m.startTime = time.Time{}
	m.endTime = time.Time{}
}

// SetStartTime sets the indexing start time.
func (m *IndexMetrics) SetStartTime(t time.Time) {
	m.mu.Lock()
	m.startTime = t
	m.mu.Unlock()
}

// SetEndTime sets the indexing end time.
func (m *IndexMetrics) SetEndTime(t time.Time) {
	m.mu.Lock()
	m.endTime = t
	m.mu.Unlock()
}

// IncrementTotal increments total document count.
func (m *IndexMetrics) IncrementTotal() {
	atomic.AddInt64(&m.totalDocs, 1)
}

// IncrementIndexed increments indexed document count.
func (m *IndexMetrics) IncrementIndexed() {
	atomic.AddInt64(&m.indexedDocs, 1)
}

// IncrementSkipped increments skipped document count.
func (m *IndexMetrics) IncrementSkipped() {
	atomic.AddInt64(&m.skippedDocs, 1)
}

// IncrementErrors increments error count.
func (m *IndexMetrics) IncrementErrors() {
	atomic.AddInt64(&m.errorDocs, 1)
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *IndexMetrics) Snapshot() IndexMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	indexed := atomic.LoadInt64(&m.indexedDocs)

	var docsPerSec float64
	if !m.startTime.IsZero() {
		endTime := m.endTime
		if endTime.IsZero() {
			endTime = time.Now()
		}
		if elapsed := endTime.Sub(m.startTime).Seconds(); elapsed > 0 {
			docsPerSec = float64(indexed) / elapsed
		}
	}

	return IndexMetricsSnapshot{
		Corpus:        m.corpus,
		TotalDocs:     atomic.LoadInt64(&m.totalDocs),
		IndexedDocs:   indexed,
		SkippedDocs:   atomic.LoadInt64(&m.skippedDocs),
		ErrorDocs:     atomic.LoadInt64(&m.errorDocs),
		DocsPerSecond: docsPerSec,
		StartTime:     m.startTime,
		EndTime:       m.endTime,
	}
}

// IndexMetricsSnapshot is a point-in-time copy of metrics.
type IndexMetricsSnapshot struct {
	Corpus        string    `json:"corpus"`
	TotalDocs     int64     `json:"total_docs"`
	IndexedDocs   int64     `json:"indexed_docs"`
	SkippedDocs   int64     `json:"skipped_docs"`
	ErrorDocs     int64     `json:"error_docs"`
	DocsPerSecond float64   `json:"docs_per_second"`
	StartTime     time.Time `json:"start_time,omitempty"`
	EndTime       time.Time `json:"end_time,omitempty"`
}

// QueryMetrics tracks query-time retrieval metrics.
type QueryMetrics struct {
	totalQueries int64
	emptyResults int64
	cacheHits    int64
	rebuilds     int64

	latencySum int64 // nanoseconds
	latencyMax int64
}

// NewQueryMetrics creates a new query metrics tracker.
func NewQueryMetrics() *QueryMetrics {
	return &QueryMetrics{}
}

// RecordQuery records a retrieval with its latency and result count.
func (m *QueryMetrics) RecordQuery(latency time.Duration, resultCount int) {
	latencyNs := latency.Nanoseconds()
	atomic.AddInt64(&m.totalQueries, 1)
	atomic.AddInt64(&m.latencySum, latencyNs)
	if resultCount == 0 {
		atomic.AddInt64(&m.emptyResults, 1)
	}

	for {
		current := atomic.LoadInt64(&m.latencyMax)
		if latencyNs <= current {
			break
		}
		if atomic.CompareAndSwapInt64(&m.latencyMax, current, latencyNs) {
			break
		}
	}
}

// RecordCacheHit records an index load served from the durable cache.
func (m *QueryMetrics) RecordCacheHit() {
	atomic.AddInt64(&m.cacheHits, 1)
}

// RecordRebuild records a full index rebuild.
func (m *QueryMetrics) RecordRebuild() {
	atomic.AddInt64(&m.rebuilds, 1)
}

// Snapshot returns a point-in-time copy of query metrics.
func (m *QueryMetrics) Snapshot() QueryMetricsSnapshot {
	total := atomic.LoadInt64(&m.totalQueries)

	var avgLatency time.Duration
	if total > 0 {
		avgLatency = time.Duration(atomic.LoadInt64(&m.latencySum) / total)
	}

	return QueryMetricsSnapshot{
		TotalQueries: total,
		EmptyResults: atomic.LoadInt64(&m.emptyResults),
		CacheHits:    atomic.LoadInt64(&m.cacheHits),
		Rebuilds:     atomic.LoadInt64(&m.rebuilds),
		AvgLatency:   avgLatency,
		MaxLatency:   time.Duration(atomic.LoadInt64(&m.latencyMax)),
	}
}

// QueryMetricsSnapshot is a point-in-time copy of query metrics.
type QueryMetricsSnapshot struct {
	TotalQueries int64         `json:"total_queries"`
	EmptyResults int64         `json:"empty_results"`
	CacheHits    int64         `json:"cache_hits"`
	Rebuilds     int64         `json:"rebuilds"`
	AvgLatency   time.Duration `json:"avg_latency_ns"`
	MaxLatency   time.Duration `json:"max_latency_ns"`
}
