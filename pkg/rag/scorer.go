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
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scoring weights. These compose in a fixed order and the composition
// matters: the length penalty multiplies the running total before the
// density bonus is added.
const (
	exactPhraseBonus   = 200.0
	exactWordWeight    = 25.0
	partialWordWeight  = 5.0
	proximityBonus     = 30.0
	titleWordBonus     = 15.0
	wellFormedBonus    = 10.0
	sentenceCountBonus = 8.0
	densityBonus       = 20.0

	shortChunkPenalty = 0.7
	longChunkPenalty  = 0.9

	shortChunkLimit   = 100
	longChunkLimit    = 1000
	densityThreshold  = 0.10
	matchRatioDoubler = 0.5
	proximityGap      = 20
)

// Scorer ranks a chunk against a query by combining lexical signals.
// Scores are non-negative integers; higher is more relevant.
type Scorer struct{}

// NewScorer creates a relevance scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the relevance of a chunk for a query within the
// context of its owning document. The document contributes only its
// display name.
func (s *Scorer) Score(query string, chunk Chunk, doc Document) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || chunk.Text == "" {
		return 0
	}

	text := strings.ToLower(chunk.Text)
	words := queryWords(q)

	score := 0.0

	// 1. Full query appearing verbatim is the strongest signal.
	if strings.Contains(text, q) {
		score += exactPhraseBonus
	}

	// 2. Per-word matches: exact occurrences weigh heavily, substring
	// matches of longer words count a little.
	wordMatchScore := 0.0
	exactlyMatched := 0
	totalExactMatches := 0
	for _, w := range words {
		count := countWordOccurrences(text, w)
		if count > 0 {
			wordMatchScore += exactWordWeight * float64(count)
			exactlyMatched++
			totalExactMatches += count
		} else if len(w) > 3 && strings.Contains(text, w) {
			wordMatchScore += partialWordWeight
		}
	}

	// 3. When most of the query is present the word score doubles.
	if len(words) > 0 && float64(exactlyMatched)/float64(len(words)) > matchRatioDoubler {
		wordMatchScore *= 2
	}
	score += wordMatchScore

	// 4. Adjacent query words appearing near each other, either order.
	for i := 0; i+1 < len(words); i++ {
		if wordsNearby(text, words[i], words[i+1], proximityGap) {
			score += proximityBonus
		}
	}

	// 5. Query words in the document display name.
	name := strings.ToLower(doc.DisplayName())
	for _, w := range words {
		if strings.Contains(name, w) {
			score += titleWordBonus
		}
	}

	// 6. Well-formed chunks read better in prompts.
	if chunk.StartsWithCapital && chunk.EndsWithPunctuation {
		score += wellFormedBonus
	}
	if chunk.SentenceCount >= 2 && chunk.SentenceCount <= 5 {
		score += sentenceCountBonus
	}

	// 7. Penalize fragments and walls of text.
	switch {
	case len(chunk.Text) < shortChunkLimit:
		score *= shortChunkPenalty
	case len(chunk.Text) > longChunkLimit:
		score *= longChunkPenalty
	}

	// 8. Concentrated matches earn a flat bonus after the penalty.
	chunkWords := len(strings.Fields(text))
	if chunkWords > 0 && float64(totalExactMatches)/float64(chunkWords) > densityThreshold {
		score += densityBonus
	}

	result := int(math.Round(score))
	if result < 0 {
		return 0
	}
	return result
}

// queryWords returns the lowercased query words longer than two
// characters.
func queryWords(query string) []string {
	fields := strings.Fields(query)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]")
		if len(f) > 2 {
			words = append(words, f)
		}
	}
	return words
}

// countWordOccurrences counts whole-word occurrences of word in text.
func countWordOccurrences(text, word string) int {
	return len(wordOccurrences(text, word))
}

// wordOccurrences returns the byte offsets of whole-word occurrences of
// word in text. A word boundary is any rune that is neither a letter
// nor a digit, so accented words delimit the same way plain ASCII ones
// do.
func wordOccurrences(text, word string) []int {
	if word == "" {
		return nil
	}
	var offsets []int
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return offsets
		}
		pos := start + i
		end := pos + len(word)
		if boundaryBefore(text, pos) && boundaryAfter(text, end) {
			offsets = append(offsets, pos)
			start = end
		} else {
			start = pos + 1
		}
	}
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, end int) bool {
	if end == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// wordsNearby reports whether a and b occur within gap characters of
// each other in text, in either order.
func wordsNearby(text, a, b string, gap int) bool {
	return nearbyInOrder(text, a, b, gap) || nearbyInOrder(text, b, a, gap)
}

func nearbyInOrder(text, first, second string, gap int) bool {
	firstEnds := wordOccurrences(text, first)
	if len(firstEnds) == 0 {
		return false
	}
	secondStarts := wordOccurrences(text, second)
	for _, fs := range firstEnds {
		fe := fs + len(first)
		for _, ss := range secondStarts {
			if ss < fe {
				continue
			}
			if utf8.RuneCountInString(text[fe:ss]) <= gap {
				return true
			}
		}
	}
	return false
}
