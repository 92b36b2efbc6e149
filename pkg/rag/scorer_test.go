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

func makeChunk(text string) Chunk {
	return Chunk{
		Text:                text,
		Size:                len(text),
		SentenceCount:       3,
		StartsWithCapital:   startsWithCapital(text),
		EndsWithPunctuation: endsWithPunctuation(text),
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	scorer := NewScorer()
	doc := Document{ID: "d1", Title: "Planos"}

	if got := scorer.Score("", makeChunk("anything at all"), doc); got != 0 {
		t.Errorf("empty query score = %d, want 0", got)
	}
	if got := scorer.Score("planos", Chunk{}, doc); got != 0 {
		t.Errorf("empty chunk score = %d, want 0", got)
	}
}

func TestScoreExactPhraseDominates(t *testing.T) {
	scorer := NewScorer()
	doc := Document{ID: "d1", Title: "Guia"}
	query := "planos de internet"

	exact := makeChunk("A empresa oferece varios planos de internet para residencias e empresas em todo o pais atualmente.")
	scattered := makeChunk("A internet chega por fibra e os planos residenciais variam conforme a zona de cobertura da rede.")

	exactScore := scorer.Score(query, exact, doc)
	scatteredScore := scorer.Score(query, scattered, doc)

	if exactScore <= scatteredScore {
		t.Errorf("exact phrase score %d should beat scattered score %d", exactScore, scatteredScore)
	}
	if exactScore < 200 {
		t.Errorf("exact phrase score %d should include the phrase bonus", exactScore)
	}
}

func TestScoreMonotonicInMatches(t *testing.T) {
	scorer := NewScorer()
	doc := Document{ID: "d1"}
	query := "tarifa roaming"

	base := "O servico funciona em toda a rede nacional sem custos adicionais para o cliente registado."
	one := "A tarifa aplicada depende da rede nacional e varia conforme o contrato do cliente registado."
	both := "A tarifa de roaming aplicada depende da rede e varia conforme o contrato do cliente registado."

	s0 := scorer.Score(query, makeChunk(base), doc)
	s1 := scorer.Score(query, makeChunk(one), doc)
	s2 := scorer.Score(query, makeChunk(both), doc)

	if !(s0 < s1 && s1 < s2) {
		t.Errorf("scores should increase with matches: %d, %d, %d", s0, s1, s2)
	}
}

func TestScoreTitleRelevance(t *testing.T) {
	scorer := NewScorer()
	query := "roaming internacional"
	chunk := makeChunk("O servico permite chamadas e dados fora do pais com tarifas que dependem do destino escolhido.")

	plain := Document{ID: "d1", Title: "Outros servicos"}
	titled := Document{ID: "d2", Title: "Roaming internacional"}

	if scorer.Score(query, chunk, titled) <= scorer.Score(query, chunk, plain) {
		t.Error("matching title should raise the score")
	}
}

func TestScoreShortChunkPenalized(t *testing.T) {
	scorer := NewScorer()
	doc := Document{ID: "d1"}
	query := "cobertura fibra"

	short := makeChunk("Cobertura de fibra disponivel na cidade.")
	long := makeChunk("Cobertura de fibra disponivel na cidade. " + strings.Repeat("A rede continua a crescer para outras zonas do pais. ", 2))

	if scorer.Score(query, short, doc) >= scorer.Score(query, long, doc) {
		t.Error("chunk under 100 characters should be penalized")
	}
}

func TestScoreMatchRatioAmplifier(t *testing.T) {
	scorer := NewScorer()
	doc := Document{ID: "d1"}

	chunk := makeChunk("O pacote inclui chamadas ilimitadas dentro da rede durante todo o periodo de fidelizacao contratado.")

	// Both query words present: ratio 1.0, word score doubles.
	full := scorer.Score("pacote chamadas", chunk, doc)
	// One of three words present: ratio under 0.5, no doubling.
	partial := scorer.Score("pacote upgrade velocidade", chunk, doc)

	if full <= partial {
		t.Errorf("high match ratio score %d should beat low ratio score %d", full, partial)
	}
}

func TestScoreAccentedWordsMatchExactly(t *testing.T) {
	scorer := NewScorer()
	doc := Document{ID: "d1"}

	accented := makeChunk("Depois da ativação você pode consultar o saldo do plano até ao fim do mês sem custos adicionais na conta.")
	plain := makeChunk("Depois da adesao o cliente pode consultar o saldo do plano durante todo o periodo sem custos adicionais na conta.")

	// Words that start or end with an accented letter must count as
	// exact matches, not fall through to the partial-match path.
	accentScore := scorer.Score("você plano até", accented, doc)
	plainScore := scorer.Score("cliente plano saldo", plain, doc)

	if accentScore < plainScore {
		t.Errorf("accented query score %d should not trail plain query score %d", accentScore, plainScore)
	}
	// Three exact words at weight 25, doubled by the full match ratio.
	if accentScore < 150 {
		t.Errorf("accented query score = %d, want at least 150", accentScore)
	}
}

func TestCountWordOccurrences(t *testing.T) {
	tests := []struct {
		text string
		word string
		want int
	}{
		{"o plano e o plano certo", "plano", 2},
		{"planos e planejamento", "plano", 0},
		{"você liga, você decide", "você", 2},
		{"até já", "até", 1},
		{"atémesmo junto", "até", 0},
		{"ativação", "ativação", 1},
	}
	for _, tt := range tests {
		if got := countWordOccurrences(tt.text, tt.word); got != tt.want {
			t.Errorf("countWordOccurrences(%q, %q) = %d, want %d", tt.text, tt.word, got, tt.want)
		}
	}
}

func TestWordsNearby(t *testing.T) {
	text := "a ativação do serviço fica disponível até ao dia seguinte"

	if !wordsNearby(text, "ativação", "serviço", 20) {
		t.Error("accented adjacent words should be nearby")
	}
	if !wordsNearby(text, "serviço", "ativação", 20) {
		t.Error("nearby should hold in either order")
	}
	if wordsNearby(text, "ativação", "seguinte", 20) {
		t.Error("distant words should not be nearby")
	}
}

func TestScoreNeverNegative(t *testing.T) {
	scorer := NewScorer()
	doc := Document{ID: "d1"}

	chunk := Chunk{Text: "curto e irrelevante", Size: 19, SentenceCount: 1}
	if got := scorer.Score("assunto completamente diferente", chunk, doc); got < 0 {
		t.Errorf("score = %d, want non-negative", got)
	}
}
