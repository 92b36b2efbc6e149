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

// portugueseStopwords covers the articles' primary language.
var portugueseStopwords = []string{
	"a", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo",
	"as", "até", "com", "como", "da", "das", "de", "dela", "delas", "dele",
	"deles", "depois", "do", "dos", "e", "é", "ela", "elas", "ele", "eles",
	"em", "entre", "era", "eram", "essa", "essas", "esse", "esses", "esta",
	"estas", "este", "estes", "esta", "estava", "estavam", "estou", "eu",
	"foi", "fomos", "for", "foram", "há", "isso", "isto", "já", "lhe",
	"lhes", "mais", "mas", "me", "mesmo", "meu", "meus", "minha", "minhas",
	"muito", "na", "nas", "não", "nem", "no", "nos", "nós", "nossa",
	"nossas", "nosso", "nossos", "num", "numa", "o", "os", "ou", "para",
	"pela", "pelas", "pelo", "pelos", "por", "qual", "quando", "que",
	"quem", "são", "se", "sem", "ser", "seu", "seus", "só", "sua", "suas",
	"também", "te", "tem", "têm", "teu", "teus", "tu", "tua", "tuas", "um",
	"uma", "você", "vocês", "vos",
}

// englishStopwords covers mixed-language article content.
var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "did", "do",
	"does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"him", "his", "how", "i", "if", "in", "into", "is", "it", "its",
	"itself", "just", "me", "more", "most", "my", "myself", "no", "nor",
	"not", "now", "of", "off", "on", "once", "only", "or", "other", "our",
	"ours", "out", "over", "own", "same", "she", "should", "so", "some",
	"such", "than", "that", "the", "their", "theirs", "them", "then",
	"there", "these", "they", "this", "those", "through", "to", "too",
	"under", "until", "up", "very", "was", "we", "were", "what", "when",
	"where", "which", "while", "who", "whom", "why", "will", "with", "you",
	"your", "yours",
}

// combinedStopwords is the merged Portuguese+English stop-word set used
// by the keyword extractor.
var combinedStopwords = buildStopwordSet()

func buildStopwordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(portugueseStopwords)+len(englishStopwords))
	for _, w := range portugueseStopwords {
		set[w] = struct{}{}
	}
	for _, w := range englishStopwords {
		set[w] = struct{}{}
	}
	return set
}
