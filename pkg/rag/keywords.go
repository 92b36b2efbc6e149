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
	"regexp"
	"sort"
	"strings"
)

// KeywordConfig configures keyword extraction.
type KeywordConfig struct {
	// MaxKeywords caps the number of ranked entries returned.
	MaxKeywords int `yaml:"max_keywords,omitempty"`

	// PhraseWeight multiplies phrase occurrence counts relative to
	// single words, reflecting the higher specificity of multi-word
	// matches.
	PhraseWeight int `yaml:"phrase_weight,omitempty"`
}

// SetDefaults applies default values.
func (c *KeywordConfig) SetDefaults() {
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = 30
	}
	if c.PhraseWeight <= 0 {
		c.PhraseWeight = 2
	}
}

var (
	// nonWordPattern strips punctuation while preserving Latin-accented
	// letters and digits.
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

	// whitespacePattern collapses runs of whitespace.
	whitespacePattern = regexp.MustCompile(`\s+`)

	// numericPattern matches pure-numeric tokens.
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// KeywordExtractor derives frequency-ranked words and 2-3 word phrases
// from document text, filtered by the combined pt+en stop-word set.
type KeywordExtractor struct {
	config KeywordConfig
}

// NewKeywordExtractor creates an extractor from configuration.
func NewKeywordExtractor(cfg KeywordConfig) *KeywordExtractor {
	cfg.SetDefaults()
	return &KeywordExtractor{config: cfg}
}

// Extract returns the top-ranked keywords of text mapped to their scores.
func (e *KeywordExtractor) Extract(text string) map[string]int {
	tokens := tokenizeForKeywords(text)
	if len(tokens) == 0 {
		return map[string]int{}
	}

	scores := make(map[string]int)

	// Single-word frequencies, kept only if seen more than once.
	wordFreq := make(map[string]int)
	for _, tok := range tokens {
		wordFreq[tok]++
	}
	for word, freq := range wordFreq {
		if freq > 1 {
			scores[word] = freq
		}
	}

	// Sliding-window 2-word and 3-word phrases, weighted for specificity.
	for _, n := range []int{2, 3} {
		phraseFreq := make(map[string]int)
		for i := 0; i+n <= len(tokens); i++ {
			phrase := strings.Join(tokens[i:i+n], " ")
			phraseFreq[phrase]++
		}
		for phrase, freq := range phraseFreq {
			if freq > 1 {
				scores[phrase] = freq * e.config.PhraseWeight
			}
		}
	}

	return e.topKeywords(scores)
}

// topKeywords sorts scores descending and truncates to MaxKeywords.
// Ties break alphabetically so extraction stays deterministic.
func (e *KeywordExtractor) topKeywords(scores map[string]int) map[string]int {
	if len(scores) <= e.config.MaxKeywords {
		return scores
	}

	type entry struct {
		phrase string
		score  int
	}
	entries := make([]entry, 0, len(scores))
	for phrase, score := range scores {
		entries = append(entries, entry{phrase, score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].phrase < entries[j].phrase
	})

	top := make(map[string]int, e.config.MaxKeywords)
	for _, en := range entries[:e.config.MaxKeywords] {
		top[en.phrase] = en.score
	}
	return top
}

// tokenizeForKeywords lowercases, strips punctuation, collapses
// whitespace, and drops stopwords, short tokens and pure numbers.
func tokenizeForKeywords(text string) []string {
	normalized := strings.ToLower(text)
	normalized = nonWordPattern.ReplaceAllString(normalized, " ")
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")

	var tokens []string
	for _, tok := range strings.Fields(normalized) {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, stop := combinedStopwords[tok]; stop {
			continue
		}
		if numericPattern.MatchString(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
