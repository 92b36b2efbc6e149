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
	"log/slog"
	"strings"
	"time"
)

// IndexerConfig configures document indexing.
type IndexerConfig struct {
	// Chunking configures the sentence chunker.
	Chunking ChunkerConfig `yaml:"chunking,omitempty"`

	// Keywords configures keyword extraction.
	Keywords KeywordConfig `yaml:"keywords,omitempty"`

	// MinDocumentLength skips documents whose text is shorter than
	// this (logged, not an error).
	MinDocumentLength int `yaml:"min_document_length,omitempty"`
}

// SetDefaults applies default values.
func (c *IndexerConfig) SetDefaults() {
	c.Chunking.SetDefaults()
	c.Keywords.SetDefaults()
	if c.MinDocumentLength <= 0 {
		c.MinDocumentLength = 50
	}
}

// Validate checks the configuration for errors.
func (c *IndexerConfig) Validate() error {
	return c.Chunking.Validate()
}

// Indexer turns raw documents into processed-document records by running
// the chunker and keyword extractor over each one. Output order matches
// input order; there is no cross-document deduplication.
type Indexer struct {
	config    IndexerConfig
	chunker   *SentenceChunker
	extractor *KeywordExtractor
	metrics   *IndexMetrics
}

// NewIndexer creates an indexer from configuration.
func NewIndexer(cfg IndexerConfig) *Indexer {
	cfg.SetDefaults()
	return &Indexer{
		config:    cfg,
		chunker:   NewSentenceChunker(cfg.Chunking),
		extractor: NewKeywordExtractor(cfg.Keywords),
		metrics:   NewIndexMetrics("corpus"),
	}
}

// Metrics returns the indexing metrics tracker.
func (ix *Indexer) Metrics() *IndexMetrics {
	return ix.metrics
}

// Process indexes documents into processed-document records.
// Documents with absent or too-short text are skipped and logged; one
// bad document never blocks corpus readiness.
func (ix *Indexer) Process(ctx context.Context, docs []Document) []ProcessedDocument {
	ix.metrics.SetStartTime(time.Now())
	defer ix.metrics.SetEndTime(time.Now())

	processed := make([]ProcessedDocument, 0, len(docs))
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		ix.metrics.IncrementTotal()

		text := strings.TrimSpace(doc.Text)
		if len(text) < ix.config.MinDocumentLength {
			ix.metrics.IncrementSkipped()
			slog.Debug("Skipping document with insufficient text",
				"document_id", doc.ID,
				"length", len(text))
			continue
		}

		chunks := ix.chunker.Chunk(doc.Text)
		processed = append(processed, ProcessedDocument{
			Document:           doc,
			Chunks:             chunks,
			TotalChunks:        len(chunks),
			Keywords:           ix.extractor.Extract(doc.Text),
			OriginalTextLength: len(doc.Text),
		})
		ix.metrics.IncrementIndexed()
	}

	return processed
}

// TotalChunks sums the chunk counts across processed documents.
func TotalChunks(docs []ProcessedDocument) int {
	total := 0
	for _, doc := range docs {
		total += doc.TotalChunks
	}
	return total
}
