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

package engine

import (
	"fmt"
	"strings"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
	"github.com/SanderNunes/cellito-engine/pkg/websearch"
)

// systemInstruction is the fixed persona and guardrails for every
// generation call.
const systemInstruction = `Você é o Cellito, o assistente virtual de apoio ao cliente.

Regras:
- Responda APENAS com base nas fontes fornecidas no contexto. Se a informação não estiver nas fontes, diga que não sabe.
- Nunca invente valores, datas, nomes de planos ou condições.
- Responda sempre no idioma em que o utilizador escreveu a pergunta.
- Ao falar de planos ou pacotes, inclua SEMPRE os preços quando estes constarem das fontes.
- Seja claro e direto; cite a fonte quando útil.`

// buildContext assembles the labeled evidence block: internal sources
// first, then web sources, each tagged with its origin.
func buildContext(chunks []rag.ScoredChunk, webResults []websearch.Result) string {
	var sb strings.Builder

	if len(chunks) > 0 {
		sb.WriteString("=== FONTES INTERNAS ===\n")
		for i, chunk := range chunks {
			sb.WriteString(fmt.Sprintf("[Documento %d: %s", i+1, chunk.DocumentTitle))
			if chunk.Category != "" {
				sb.WriteString(" | categoria: " + chunk.Category)
			}
			sb.WriteString("]\n")
			sb.WriteString(chunk.Chunk.Text)
			sb.WriteString("\n\n")
		}
	}

	if len(webResults) > 0 {
		sb.WriteString("=== FONTES WEB ===\n")
		for i, result := range webResults {
			sb.WriteString(fmt.Sprintf("[Web %d: %s (%s)]\n", i+1, result.Title, result.Host))
			sb.WriteString(result.Snippet)
			sb.WriteString("\n\n")
		}
	}

	return strings.TrimSpace(sb.String())
}

// buildUserMessage pairs the assembled context with the user's query.
func buildUserMessage(contextBlock, query string) string {
	return fmt.Sprintf("Contexto:\n%s\n\nPergunta do utilizador:\n%s", contextBlock, query)
}
