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
	"strings"
	"testing"
)

func TestProcessSkipsShortDocuments(t *testing.T) {
	indexer := NewIndexer(IndexerConfig{})

	docs := []Document{
		{ID: "short", Title: "Too short", Text: "Nada aqui."},
		{ID: "empty", Title: "Empty"},
		{ID: "ok", Title: "Long enough", Text: buildLongText(10)},
	}

	processed := indexer.Process(context.Background(), docs)
	if len(processed) != 1 {
		t.Fatalf("got %d processed documents, want 1", len(processed))
	}
	if processed[0].ID != "ok" {
		t.Errorf("processed %s, want ok", processed[0].ID)
	}

	snap := indexer.Metrics().Snapshot()
	if snap.SkippedDocs != 2 {
		t.Errorf("skipped = %d, want 2", snap.SkippedDocs)
	}
	if snap.IndexedDocs != 1 {
		t.Errorf("indexed = %d, want 1", snap.IndexedDocs)
	}
}

func TestProcessPreservesOrder(t *testing.T) {
	indexer := NewIndexer(IndexerConfig{})

	docs := []Document{
		{ID: "a", Text: buildLongText(5)},
		{ID: "b", Text: buildLongText(5)},
		{ID: "c", Text: buildLongText(5)},
	}

	processed := indexer.Process(context.Background(), docs)
	if len(processed) != 3 {
		t.Fatalf("got %d documents, want 3", len(processed))
	}
	for i, want := range []string{"a", "b", "c"} {
		if processed[i].ID != want {
			t.Errorf("position %d holds %s, want %s", i, processed[i].ID, want)
		}
	}
}

func TestProcessPopulatesArtifacts(t *testing.T) {
	indexer := NewIndexer(IndexerConfig{})

	text := strings.Repeat("O plano familiar inclui internet de fibra com velocidade garantida. ", 20)
	processed := indexer.Process(context.Background(), []Document{{ID: "d1", Text: text}})
	if len(processed) != 1 {
		t.Fatalf("got %d documents, want 1", len(processed))
	}

	doc := processed[0]
	if doc.TotalChunks != len(doc.Chunks) {
		t.Errorf("TotalChunks %d does not match chunk count %d", doc.TotalChunks, len(doc.Chunks))
	}
	if doc.TotalChunks == 0 {
		t.Error("expected chunks for a long document")
	}
	if len(doc.Keywords) == 0 {
		t.Error("expected extracted keywords")
	}
	if doc.OriginalTextLength != len(text) {
		t.Errorf("OriginalTextLength = %d, want %d", doc.OriginalTextLength, len(text))
	}
}

func TestProcessRespectsContext(t *testing.T) {
	indexer := NewIndexer(IndexerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processed := indexer.Process(ctx, []Document{{ID: "d1", Text: buildLongText(5)}})
	if len(processed) != 0 {
		t.Errorf("got %d documents from cancelled context, want 0", len(processed))
	}
}
