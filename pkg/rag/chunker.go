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
	"fmt"
	"strings"
	"unicode"
)

// ChunkerConfig configures sentence-bounded chunking.
type ChunkerConfig struct {
	// TargetSize is the target chunk size in characters.
	// Article corpora use 800, generic file corpora use 500.
	TargetSize int `yaml:"target_size,omitempty"`

	// Overlap enables one sentence of look-back between consecutive
	// chunks when positive. Overlap is sentence-granular, not
	// character-granular; the value only switches the behavior on.
	Overlap int `yaml:"overlap,omitempty"`

	// MinSentenceLength discards sentences shorter than this.
	MinSentenceLength int `yaml:"min_sentence_length,omitempty"`

	// MinTailLength is the minimum trimmed length for a trailing
	// partial chunk to be emitted.
	MinTailLength int `yaml:"min_tail_length,omitempty"`
}

// DefaultChunkerConfig returns the article-corpus defaults.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		TargetSize:        800,
		Overlap:           100,
		MinSentenceLength: 15,
		MinTailLength:     20,
	}
}

// FileChunkerConfig returns the generic-file-corpus defaults.
func FileChunkerConfig() ChunkerConfig {
	cfg := DefaultChunkerConfig()
	cfg.TargetSize = 500
	return cfg
}

// SetDefaults applies default values.
func (c *ChunkerConfig) SetDefaults() {
	if c.TargetSize <= 0 {
		c.TargetSize = 800
	}
	if c.Overlap < 0 {
		c.Overlap = 0
	}
	if c.MinSentenceLength <= 0 {
		c.MinSentenceLength = 15
	}
	if c.MinTailLength <= 0 {
		c.MinTailLength = 20
	}
}

// Validate checks the configuration for errors.
func (c *ChunkerConfig) Validate() error {
	if c.TargetSize <= 0 {
		return fmt.Errorf("target_size must be positive, got %d", c.TargetSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap must be non-negative, got %d", c.Overlap)
	}
	if c.MinSentenceLength < 0 {
		return fmt.Errorf("min_sentence_length must be non-negative, got %d", c.MinSentenceLength)
	}
	return nil
}

// SentenceChunker splits text into overlapping, sentence-bounded chunks.
//
// Sentences are split at `.`, `!` or `?` followed by whitespace. The
// chunker greedily accumulates sentences until appending the next one
// would push the chunk past TargetSize; the next chunk then starts from
// the last sentence of the closed chunk (one sentence of look-back).
type SentenceChunker struct {
	config ChunkerConfig
}

// NewSentenceChunker creates a chunker from configuration.
func NewSentenceChunker(cfg ChunkerConfig) *SentenceChunker {
	cfg.SetDefaults()
	return &SentenceChunker{config: cfg}
}

// Config returns the chunker configuration.
func (c *SentenceChunker) Config() ChunkerConfig {
	return c.config
}

// Chunk splits text into sentence-bounded chunks. Empty or
// whitespace-only input yields an empty list, not an error.
func (c *SentenceChunker) Chunk(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := splitSentences(text, c.config.MinSentenceLength)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		sentenceLen := len(sentence)
		if currentLen > 0 {
			sentenceLen++ // joining space
		}

		if currentLen > 0 && currentLen+sentenceLen > c.config.TargetSize {
			chunks = append(chunks, c.buildChunk(current))

			if c.config.Overlap > 0 {
				// One sentence of look-back from the closed chunk.
				last := current[len(current)-1]
				current = []string{last, sentence}
				currentLen = len(last) + 1 + len(sentence)
			} else {
				current = []string{sentence}
				currentLen = len(sentence)
			}
			continue
		}

		current = append(current, sentence)
		currentLen += sentenceLen
	}

	// Trailing partial chunk only if it carries enough content.
	if len(current) > 0 {
		tail := strings.TrimSpace(strings.Join(current, " "))
		if len(tail) > c.config.MinTailLength {
			chunks = append(chunks, c.buildChunk(current))
		}
	}

	return chunks
}

// buildChunk joins sentences and derives the chunk quality flags.
func (c *SentenceChunker) buildChunk(sentences []string) Chunk {
	text := strings.Join(sentences, " ")
	return Chunk{
		Text:                text,
		Size:                len(text),
		SentenceCount:       len(sentences),
		StartsWithCapital:   startsWithCapital(text),
		EndsWithPunctuation: endsWithPunctuation(text),
	}
}

// splitSentences splits text at sentence punctuation followed by
// whitespace, discarding sentences shorter than minLength.
func splitSentences(text string, minLength int) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if isSentencePunct(runes[i]) {
			atEnd := i == len(runes)-1
			followedBySpace := !atEnd && unicode.IsSpace(runes[i+1])
			if atEnd || followedBySpace {
				sentence := strings.TrimSpace(current.String())
				if len(sentence) >= minLength {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	// Text not terminated by sentence punctuation.
	if rest := strings.TrimSpace(current.String()); len(rest) >= minLength {
		sentences = append(sentences, rest)
	}

	return sentences
}

func isSentencePunct(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func startsWithCapital(text string) bool {
	for _, r := range text {
		return unicode.IsUpper(r)
	}
	return false
}

func endsWithPunctuation(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	runes := []rune(trimmed)
	return isSentencePunct(runes[len(runes)-1])
}
