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
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Defaults for the cached-answer shortcut.
const (
	// DefaultMinConfidence gates which records the shortcut considers.
	DefaultMinConfidence = 70

	// DefaultMinMatchScore is the floor below which no cached answer
	// is returned.
	DefaultMinMatchScore = 20

	// initialRatingCount, initialAverageRating and initialConfidence
	// seed a record created from a fresh high-quality answer.
	initialRatingCount   = 1
	initialAverageRating = 5.0
	initialConfidence    = 90
)

// Matcher finds previously validated answers for a query. It runs
// before the full retrieval pipeline; validated answers take precedence
// over fresh generation.
type Matcher struct {
	store         Store
	minConfidence int
	minMatchScore int
	logger        *slog.Logger
}

// NewMatcher creates a matcher over a store.
func NewMatcher(store Store, minConfidence, minMatchScore int) *Matcher {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	if minMatchScore <= 0 {
		minMatchScore = DefaultMinMatchScore
	}
	return &Matcher{
		store:         store,
		minConfidence: minConfidence,
		minMatchScore: minMatchScore,
		logger:        slog.Default().With("component", "feedback_matcher"),
	}
}

// FindCachedAnswer returns the best approved record for the query, or
// nil when nothing clears the floor. The score combines the fraction of
// matched query words with the record's rating and confidence.
func (m *Matcher) FindCachedAnswer(ctx context.Context, query string) (*QnARecord, error) {
	words := matchWords(query)
	if len(words) == 0 {
		return nil, nil
	}

	records, err := m.store.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	var best *QnARecord
	bestScore := 0.0
	for i := range records {
		record := &records[i]
		if record.ConfidenceScore < m.minConfidence {
			continue
		}

		score := matchScore(words, record)
		if score > bestScore {
			best = record
			bestScore = score
		}
	}

	if best == nil || bestScore < float64(m.minMatchScore) {
		return nil, nil
	}

	m.logger.Debug("Cached answer matched",
		"record_id", best.ID,
		"score", bestScore)

	if err := m.store.TouchUsed(ctx, best.ID, best.AverageRating); err != nil {
		m.logger.Warn("Failed to update cached answer usage", "error", err)
	}
	return best, nil
}

// RecordAnswer upserts a QnA record after a fresh high-quality answer.
// A brand-new record starts fully trusted; repeats fold the rating into
// a rolling average.
func (m *Matcher) RecordAnswer(ctx context.Context, question, answer string, tags []string) error {
	record := &QnARecord{
		ID:              uuid.NewString(),
		Question:        question,
		Answer:          answer,
		RatingCount:     initialRatingCount,
		AverageRating:   initialAverageRating,
		ConfidenceScore: initialConfidence,
		Tags:            tags,
		LastUsed:        time.Now(),
		IsApproved:      true,
	}
	return m.store.Save(ctx, record)
}

// matchScore combines word overlap with the record's quality signals:
// matchedWordFraction * (rating/5) * (confidence/100) * 100.
func matchScore(queryWords []string, record *QnARecord) float64 {
	question := strings.ToLower(record.Question)
	matched := 0
	for _, w := range queryWords {
		if strings.Contains(question, w) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	fraction := float64(matched) / float64(len(queryWords))
	return fraction * (record.AverageRating / 5) * (float64(record.ConfidenceScore) / 100) * 100
}

// matchWords returns the lowercased query words longer than three
// characters.
func matchWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()")
		if len(f) > 3 {
			words = append(words, f)
		}
	}
	return words
}
