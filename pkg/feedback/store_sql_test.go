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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := NewSQLStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStoreRoundTrip(t *testing.T) {
	store := newTestSQLStore(t)
	ctx := context.Background()

	record := approvedRecord("r1", "Quais os planos?", "Base, Familia, Premium.")
	record.Tags = []string{"planos", "precos"}
	require.NoError(t, store.Save(ctx, record))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.Question, got.Question)
	assert.Equal(t, record.Answer, got.Answer)
	assert.Equal(t, []string{"planos", "precos"}, got.Tags)
	assert.True(t, got.IsApproved)
}

func TestSQLStoreGetMissing(t *testing.T) {
	store := newTestSQLStore(t)

	got, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLStoreListApprovedFilters(t *testing.T) {
	store := newTestSQLStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, approvedRecord("approved", "pergunta um", "resposta")))
	pending := approvedRecord("pending", "pergunta dois", "resposta")
	pending.IsApproved = false
	require.NoError(t, store.Save(ctx, pending))

	records, err := store.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "approved", records[0].ID)
}

func TestSQLStoreTouchUsed(t *testing.T) {
	store := newTestSQLStore(t)
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
