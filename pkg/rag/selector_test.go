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
	"strings"
	"testing"
)

func makeProcessedDoc(id, title string, texts ...string) ProcessedDocument {
	chunks := make([]Chunk, 0, len(texts))
	for _, text := range texts {
		chunks = append(chunks, makeChunk(text))
	}
	return ProcessedDocument{
		Document:    Document{ID: id, Title: title},
		Chunks:      chunks,
		TotalChunks: len(chunks),
	}
}

func TestSelectFiltersBelowThreshold(t *testing.T) {
	selector := NewSelector(SelectorConfig{MinScore: 30})
	docs := []ProcessedDocument{
		makeProcessedDoc("d1", "Planos",
			"Os planos de internet da empresa incluem fibra residencial com varias velocidades disponiveis hoje.",
			"Assunto completamente alheio sobre culinaria regional e receitas tradicionais da avo materna."),
	}

	selected := selector.Select("planos de internet", docs)
	if len(selected) != 1 {
		t.Fatalf("got %d chunks, want 1", len(selected))
	}
	if !strings.Contains(selected[0].Chunk.Text, "planos de internet") {
		t.Error("selected the wrong chunk")
	}
	if selected[0].Score < 30 {
		t.Errorf("selected chunk score %d is below threshold", selected[0].Score)
	}
}

func TestSelectOrdersByScore(t *testing.T) {
	selector := NewSelector(SelectorConfig{})
	docs := []ProcessedDocument{
		makeProcessedDoc("d1", "Cobertura",
			"A cobertura da rede movel abrange as principais cidades do pais com boa qualidade de sinal."),
		makeProcessedDoc("d2", "Planos de internet",
			"Os planos de internet incluem opcoes de fibra residencial e pacotes empresariais com suporte dedicado."),
	}

	selected := selector.Select("planos de internet", docs)
	if len(selected) == 0 {
		t.Fatal("expected selected chunks")
	}
	for i := 1; i < len(selected); i++ {
		if selected[i].Score > selected[i-1].Score+nearTieMargin {
			t.Errorf("chunk %d score %d out of order after %d", i, selected[i].Score, selected[i-1].Score)
		}
	}
	if selected[0].DocumentID != "d2" {
		t.Errorf("top chunk from %s, want d2", selected[0].DocumentID)
	}
}

func TestSelectHonorsMaxChunks(t *testing.T) {
	selector := NewSelector(SelectorConfig{MaxChunks: 2})

	texts := make([]string, 6)
	for i := range texts {
		texts[i] = "Os planos de internet da empresa cobrem fibra residencial e pacotes moveis com precos variados."
	}
	docs := []ProcessedDocument{makeProcessedDoc("d1", "Planos", texts...)}

	selected := selector.Select("planos de internet", docs)
	if len(selected) > 2 {
		t.Errorf("got %d chunks, want at most 2", len(selected))
	}
}

func TestSelectTokenBudget(t *testing.T) {
	// Budget of 60 tokens fits roughly one chunk of this size.
	selector := NewSelector(SelectorConfig{TokenBudget: 60, MaxChunks: 8})

	text := "Os planos de internet da empresa cobrem fibra residencial e pacotes moveis com precos variados hoje. " +
		"Cada plano de internet pode ser combinado com television e telefone fixo num unico contrato mensal."
	docs := []ProcessedDocument{
		makeProcessedDoc("d1", "Planos", text[:100], text[100:]),
		makeProcessedDoc("d2", "Planos", text[:100], text[100:]),
	}

	selected := selector.Select("planos de internet", docs)
	total := 0
	for _, sc := range selected {
		total += sc.EstimatedTokens
	}
	if total > 60 {
		t.Errorf("selected %d estimated tokens, budget is 60", total)
	}
}

func TestSelectSoftDiversity(t *testing.T) {
	selector := NewSelector(SelectorConfig{MaxChunks: 3})

	strong := "Os planos de internet incluem fibra residencial e opcoes empresariais com suporte tecnico dedicado."
	weaker := "A empresa oferece planos com internet e pacotes de dados para clientes novos durante a promocao."
	docs := []ProcessedDocument{
		makeProcessedDoc("d1", "Planos de internet", strong, strong),
		makeProcessedDoc("d2", "Pacotes", weaker),
	}

	selected := selector.Select("planos de internet", docs)
	if len(selected) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(selected))
	}
	if selected[0].DocumentID == selected[1].DocumentID {
		t.Error("second pick should come from a different document")
	}
}

func TestLessRelevantIsStrictWeakOrdering(t *testing.T) {
	var chunks []ScoredChunk
	for score := 88; score <= 104; score++ {
		for _, sentences := range []int{1, 3, 6} {
			chunks = append(chunks, ScoredChunk{
				Score: score,
				Chunk: Chunk{SentenceCount: sentences},
			})
		}
	}

	for _, a := range chunks {
		if lessRelevant(a, a) {
			t.Fatalf("chunk with score %d compares less than itself", a.Score)
		}
	}

	// Chains of near-ties (100~96, 96~92) must not produce a cycle.
	for _, a := range chunks {
		for _, b := range chunks {
			if lessRelevant(a, b) && lessRelevant(b, a) {
				t.Fatalf("scores %d and %d order both ways", a.Score, b.Score)
			}
			for _, c := range chunks {
				if lessRelevant(a, b) && lessRelevant(b, c) && !lessRelevant(a, c) {
					t.Fatalf("ordering not transitive across scores %d, %d, %d",
						a.Score, b.Score, c.Score)
				}
			}
		}
	}
}

func TestSelectEmptyCorpus(t *testing.T) {
	selector := NewSelector(SelectorConfig{})

	if got := selector.Select("qualquer consulta", nil); len(got) != 0 {
		t.Errorf("empty corpus returned %d chunks", len(got))
	}
}
