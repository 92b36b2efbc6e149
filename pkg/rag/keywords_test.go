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
	"testing"
)

func TestExtractKeywordsFiltering(t *testing.T) {
	extractor := NewKeywordExtractor(KeywordConfig{})

	text := "O plano familiar inclui internet rapida. O plano familiar cobre toda a casa com internet."
	keywords := extractor.Extract(text)

	if _, ok := keywords["plano"]; !ok {
		t.Error("expected repeated word 'plano' to be extracted")
	}
	for _, stop := range []string{"o", "a", "com", "toda", "the"} {
		if _, ok := keywords[stop]; ok {
			t.Errorf("stopword %q leaked into keywords", stop)
		}
	}
	if _, ok := keywords["rapida"]; ok {
		t.Error("word occurring once should not be kept")
	}
}

func TestExtractKeywordsPhraseWeight(t *testing.T) {
	extractor := NewKeywordExtractor(KeywordConfig{})

	text := strings.Repeat("plano familiar oferece vantagens. ", 3)
	keywords := extractor.Extract(text)

	word, phrase := keywords["plano"], keywords["plano familiar"]
	if word == 0 || phrase == 0 {
		t.Fatalf("expected word and phrase entries, got word=%d phrase=%d", word, phrase)
	}
	if phrase != word*2 {
		t.Errorf("phrase score %d should be double word score %d", phrase, word)
	}
}

func TestExtractKeywordsDropsNumbersAndShortTokens(t *testing.T) {
	extractor := NewKeywordExtractor(KeywordConfig{})

	text := "2024 2024 2024 ab ab ab internet internet"
	keywords := extractor.Extract(text)

	if _, ok := keywords["2024"]; ok {
		t.Error("pure-numeric token should be dropped")
	}
	if _, ok := keywords["ab"]; ok {
		t.Error("two-character token should be dropped")
	}
	if _, ok := keywords["internet"]; !ok {
		t.Error("expected 'internet' to survive filtering")
	}
}

func TestExtractKeywordsAccentedPreserved(t *testing.T) {
	extractor := NewKeywordExtractor(KeywordConfig{})

	text := "configuração configuração wifi, wifi!"
	keywords := extractor.Extract(text)

	if _, ok := keywords["configuração"]; !ok {
		t.Error("accented token should survive punctuation stripping")
	}
}

func TestExtractKeywordsTopN(t *testing.T) {
	extractor := NewKeywordExtractor(KeywordConfig{MaxKeywords: 5})

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		word := fmt.Sprintf("palavra%02d", i)
		sb.WriteString(strings.Repeat(word+" ", i+2))
	}
	keywords := extractor.Extract(sb.String())

	if len(keywords) > 5 {
		t.Errorf("got %d keywords, want at most 5", len(keywords))
	}
	if _, ok := keywords["palavra49 palavra49"]; !ok {
		t.Error("highest-scoring phrase missing from top keywords")
	}
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	extractor := NewKeywordExtractor(KeywordConfig{})

	if got := extractor.Extract(""); len(got) != 0 {
		t.Errorf("Extract(\"\") = %v, want empty map", got)
	}
}
