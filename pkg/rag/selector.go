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
	"math"
	"sort"
)

// SelectorConfig configures chunk selection.
type SelectorConfig struct {
	// MaxChunks caps the number of selected chunks.
	MaxChunks int `yaml:"max_chunks,omitempty"`

	// MinScore filters out chunks scoring below this threshold.
	MinScore int `yaml:"min_score,omitempty"`

	// TokenBudget caps the total estimated token count across the
	// selected chunks.
	TokenBudget int `yaml:"token_budget,omitempty"`
}

// SetDefaults applies default values.
func (c *SelectorConfig) SetDefaults() {
	if c.MaxChunks <= 0 {
		c.MaxChunks = 5
	}
	if c.MinScore <= 0 {
		c.MinScore = 30
	}
	if c.TokenBudget <= 0 {
		c.TokenBudget = 2500
	}
}

// nearTieMargin is the width of the score buckets inside which chunks
// count as tied and the secondary ordering criteria decide.
const nearTieMargin = 5

// Selector scores every chunk in the corpus and picks the best set
// under a token budget with soft per-document diversity.
type Selector struct {
	config SelectorConfig
	scorer *Scorer
}

// NewSelector creates a selector from configuration.
func NewSelector(cfg SelectorConfig) *Selector {
	cfg.SetDefaults()
	return &Selector{config: cfg, scorer: NewScorer()}
}

// Select scores all chunks in the processed documents against the query
// and returns the top chunks. The full corpus is scanned; this is
// acceptable at the target corpus sizes of hundreds of documents.
func (s *Selector) Select(query string, docs []ProcessedDocument) []ScoredChunk {
	scored := make([]ScoredChunk, 0, 64)
	for _, doc := range docs {
		for _, chunk := range doc.Chunks {
			score := s.scorer.Score(query, chunk, doc.Document)
			if score < s.config.MinScore {
				continue
			}
			scored = append(scored, ScoredChunk{
				Chunk:           chunk,
				Score:           score,
				DocumentID:      doc.ID,
				DocumentTitle:   doc.DisplayName(),
				Category:        doc.Category,
				EstimatedTokens: EstimateTokens(chunk.Text),
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return lessRelevant(scored[j], scored[i])
	})

	return s.pick(scored)
}

// lessRelevant orders chunks by score with near-ties broken by sentence
// count closest to 3, then by quality flags. Scores are compared by
// margin-wide bucket rather than pairwise distance so the ordering is
// transitive; a raw ±margin comparison is not (100~96 and 96~92 do not
// imply 100~92), which sort cannot be trusted with.
func lessRelevant(a, b ScoredChunk) bool {
	ba, bb := a.Score/nearTieMargin, b.Score/nearTieMargin
	if ba != bb {
		return ba < bb
	}
	da := int(math.Abs(float64(a.Chunk.SentenceCount - 3)))
	db := int(math.Abs(float64(b.Chunk.SentenceCount - 3)))
	if da != db {
		return da > db
	}
	return qualityFlags(a.Chunk) < qualityFlags(b.Chunk)
}

func qualityFlags(c Chunk) int {
	flags := 0
	if c.StartsWithCapital {
		flags++
	}
	if c.EndsWithPunctuation {
		flags++
	}
	return flags
}

// pick greedily selects from the sorted candidates under the token
// budget, preferring not to take a second chunk from an already-used
// document until at least two chunks have been chosen.
func (s *Selector) pick(sorted []ScoredChunk) []ScoredChunk {
	selected := make([]ScoredChunk, 0, s.config.MaxChunks)
	usedDocs := make(map[string]bool)
	tokens := 0

	for _, candidate := range sorted {
		if len(selected) >= s.config.MaxChunks {
			break
		}
		if tokens+candidate.EstimatedTokens > s.config.TokenBudget {
			continue
		}
		if usedDocs[candidate.DocumentID] && len(selected) < 2 {
			continue
		}
		selected = append(selected, candidate)
		usedDocs[candidate.DocumentID] = true
		tokens += candidate.EstimatedTokens
	}

	return selected
}
