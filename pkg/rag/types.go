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
	"sort"
	"strings"
	"time"
)

// SourceKind discriminates which corpus a fingerprint or cache record
// belongs to. Article corpora and generic file corpora share one schema.
type SourceKind string

const (
	SourceArticles SourceKind = "articles"
	SourceFiles    SourceKind = "files"
)

// Document is a raw content item produced by a corpus source.
// It is immutable input to indexing.
type Document struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Category   string            `json:"category,omitempty"`
	ModifiedAt time.Time         `json:"modified_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Chunk is a bounded, sentence-aligned passage of a document's text,
// the unit of retrieval. Derived, never mutated after creation.
type Chunk struct {
	Text                string `json:"text"`
	Size                int    `json:"size"`
	SentenceCount       int    `json:"sentence_count"`
	StartsWithCapital   bool   `json:"starts_with_capital"`
	EndsWithPunctuation bool   `json:"ends_with_punctuation"`
}

// ProcessedDocument is a Document plus its derived index artifacts.
// Created by the Indexer from exactly one Document; replaced wholesale
// on rebuild, never patched incrementally.
type ProcessedDocument struct {
	Document
	Chunks             []Chunk        `json:"chunks"`
	TotalChunks        int            `json:"total_chunks"`
	Keywords           map[string]int `json:"keywords"`
	OriginalTextLength int            `json:"original_text_length"`
}

// CorpusFingerprint summarizes corpus state (count, ids, last modified)
// so cache validity can be decided without re-reading all content.
type CorpusFingerprint struct {
	Kind         SourceKind `json:"kind"`
	Count        int        `json:"count"`
	LastModified time.Time  `json:"last_modified"`
	DocumentIDs  []string   `json:"document_ids"`
}

// Covers reports whether an index built at fingerprint f is still
// valid for the live fingerprint: same document count, same canonical
// id list, and nothing modified after f's watermark.
func (f CorpusFingerprint) Covers(live CorpusFingerprint) bool {
	if f.Count != live.Count {
		return false
	}
	if f.CanonicalIDs() != live.CanonicalIDs() {
		return false
	}
	return !live.LastModified.After(f.LastModified)
}

// CanonicalIDs returns a stable string form of the sorted id list.
// Equality of canonical forms is the authoritative membership check.
func (f CorpusFingerprint) CanonicalIDs() string {
	ids := make([]string, len(f.DocumentIDs))
	copy(ids, f.DocumentIDs)
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}

// CacheMetadata is the fingerprint embedded in a persisted cache record,
// plus bookkeeping fields.
type CacheMetadata struct {
	Kind         SourceKind `json:"kind"`
	TotalDocs    int        `json:"total_docs"`
	LastModified time.Time  `json:"last_modified"`
	DocumentIDs  []string   `json:"document_ids"`
	TotalChunks  int        `json:"total_chunks"`
	LastUpdated  time.Time  `json:"last_updated"`
	Version      string     `json:"version"`
}

// Fingerprint reconstructs the corpus fingerprint recorded at build time.
func (m CacheMetadata) Fingerprint() CorpusFingerprint {
	return CorpusFingerprint{
		Kind:         m.Kind,
		Count:        m.TotalDocs,
		LastModified: m.LastModified,
		DocumentIDs:  m.DocumentIDs,
	}
}

// CacheRecord is the persisted index state. Valid for querying iff its
// embedded fingerprint equals the live corpus fingerprint. Replaced
// atomically on rebuild, never partially updated.
type CacheRecord struct {
	Metadata           CacheMetadata       `json:"metadata"`
	ProcessedDocuments []ProcessedDocument `json:"processed_documents"`
}

// ScoredChunk is a per-query scoring result. Ephemeral; discarded after
// the response is produced.
type ScoredChunk struct {
	Chunk           Chunk  `json:"chunk"`
	Score           int    `json:"score"`
	DocumentID      string `json:"document_id"`
	DocumentTitle   string `json:"document_title"`
	Category        string `json:"category,omitempty"`
	EstimatedTokens int    `json:"estimated_tokens"`
}

// EstimateTokens approximates the token count of text at four characters
// per token. The selector budgets context with this heuristic.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// DisplayName returns the document's title, falling back to its id.
func (d Document) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.ID
}
