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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedRecord(id, question, answer string) *QnARecord {
	return &QnARecord{
		ID:              id,
		Question:        question,
		Answer:          answer,
		RatingCount:     3,
		AverageRating:   4.5,
		ConfidenceScore: 90,
		LastUsed:        time.Now().Add(-time.Hour),
		IsApproved:      true,
	}
}

func TestFindCachedAnswerMatches(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, approvedRecord("r1",
		"Quais os planos de internet disponiveis?",
		"Os planos sao Base, Familia e Premium.")))

	matcher := NewMatcher(store, 0, 0)
	record, err := matcher.FindCachedAnswer(ctx, "quais planos de internet existem")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "r1", record.ID)

	// A match counts as a use: rating count grows.
	stored, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.RatingCount)
}

func TestFindCachedAnswerMissesUnrelatedQuery(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, approvedRecord("r1",
		"Quais os planos de internet disponiveis?", "resposta")))

	matcher := NewMatcher(store, 0, 0)
	record, err := matcher.FindCachedAnswer(ctx, "horario funcionamento lojas fisicas")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFindCachedAnswerIgnoresLowConfidence(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	weak := approvedRecord("weak", "Quais os planos de internet disponiveis?", "resposta fraca")
	weak.ConfidenceScore = 40
	require.NoError(t, store.Save(ctx, weak))

	matcher := NewMatcher(store, 0, 0)
	record, err := matcher.FindCachedAnswer(ctx, "quais planos de internet existem")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFindCachedAnswerIgnoresUnapproved(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	pending := approvedRecord("pending", "Quais os planos de internet disponiveis?", "resposta")
	pending.IsApproved = false
	require.NoError(t, store.Save(ctx, pending))

	matcher := NewMatcher(store, 0, 0)
	record, err := matcher.FindCachedAnswer(ctx, "quais planos de internet existem")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestMatchScoreWeighting(t *testing.T) {
	words := matchWords("quais planos internet")
	require.Len(t, words, 3)

	full := approvedRecord("a", "quais planos internet", "x")
	full.AverageRating = 5
	full.ConfidenceScore = 100
	assert.InDelta(t, 100.0, matchScore(words, full), 0.01)

	half := approvedRecord("b", "quais planos moveis", "x")
	half.AverageRating = 5
	half.ConfidenceScore = 100
	assert.InDelta(t, 200.0/3, matchScore(words, half), 0.01)

	discounted := approvedRecord("c", "quais planos internet", "x")
	discounted.AverageRating = 2.5
	discounted.ConfidenceScore = 80
	assert.InDelta(t, 40.0, matchScore(words, discounted), 0.01)
}

func TestRecordAnswerSeedsTrustedRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	matcher := NewMatcher(store, 0, 0)
	require.NoError(t, matcher.RecordAnswer(ctx, "como ativar roaming?", "Ative nas definicoes.", []string{"roaming"}))

	records, err := store.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, 1, record.RatingCount)
	assert.Equal(t, 5.0, record.AverageRating)
	assert.Equal(t, 90, record.ConfidenceScore)
	assert.True(t, record.IsApproved)
	assert.NotEmpty(t, record.ID)
}

func TestTouchUsedRollingAverage(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := approvedRecord("r1", "pergunta", "resposta")
	record.RatingCount = 1
	record.AverageRating = 5.0
	require.NoError(t, store.Save(ctx, record))

	require.NoError(t, store.TouchUsed(ctx, "r1", 3.0))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.RatingCount)
	assert.InDelta(t, 4.0, got.AverageRating, 0.01)
}
