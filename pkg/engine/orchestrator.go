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
	"context"
	"log/slog"
	"math"
	"regexp"
	"time"

	"github.com/SanderNunes/cellito-engine/pkg/llms"
	"github.com/SanderNunes/cellito-engine/pkg/rag"
	"github.com/SanderNunes/cellito-engine/pkg/websearch"
)

// Confidence bounds and boosts for the answer pipeline.
const (
	confidenceScale = 0.8
	confidenceMin   = 20
	confidenceMax   = 95

	bothSourcesBoost = 15
	bothSourcesCap   = 85
	webOnlyScore     = 65
)

var (
	// recencyPattern flags queries about current or dated information.
	recencyPattern = regexp.MustCompile(`(?i)\b(atual|atuais|recente|recentes|hoje|agora|este ano|ultim[oa]s?|20\d\d)\b`)

	// currentInfoPattern flags explicit requests for up-to-date data.
	currentInfoPattern = regexp.MustCompile(`(?i)\b(noticias?|novidades?|lancamento|lançamento|promoç[õo]es? atuais|qual o preço agora)\b`)
)

// runPipeline walks the answer state machine from internal search to
// the finalized answer.
func (e *Engine) runPipeline(ctx context.Context, queryID, query string, logger *slog.Logger) (*Answer, error) {
	ev := evidence{}
	current := stateSearchInternal

	for {
		switch current {
		case stateSearchInternal:
			ev.chunks = e.selector.Select(query, e.corpus())
			ev.confidence = internalConfidence(ev.chunks)
			logger.Debug("Internal search complete",
				"state", current.String(),
				"chunks", len(ev.chunks),
				"confidence", ev.confidence)
			current = stateDecideWeb

		case stateDecideWeb:
			if e.shouldSearchWeb(query, ev) {
				current = stateSearchWeb
			} else {
				current = stateSkipWeb
			}

		case stateSearchWeb:
			e.metrics.WebSearches.Inc()
			results, err := e.searchWeb(ctx, query)
			if err != nil {
				// A failed or timed-out search degrades to
				// internal-only evidence.
				logger.Warn("Web search failed, continuing without web results", "error", err)
			} else {
				ev.webResults = results
			}
			current = stateBuildContext

		case stateSkipWeb:
			current = stateBuildContext

		case stateBuildContext:
			if len(ev.chunks) == 0 && len(ev.webResults) == 0 {
				// No evidence at all: fixed response, no generation.
				e.metrics.NoEvidenceAnswers.Inc()
				logger.Info("No evidence found, returning fixed response")
				return &Answer{
					Content:    noInformationResponse,
					Confidence: 0,
					QueryInfo: QueryInfo{
						ID:    queryID,
						Query: query,
					},
				}, nil
			}
			current = stateGenerate

		case stateGenerate:
			content, err := e.generate(ctx, query, ev)
			if err != nil {
				e.metrics.GenerationFailures.Inc()
				return nil, err
			}
			return e.finalize(queryID, query, content, ev), nil
		}
	}
}

// shouldSearchWeb applies the web search triggers.
func (e *Engine) shouldSearchWeb(query string, ev evidence) bool {
	if _, disabled := e.searcher.(websearch.NilSearcher); disabled {
		return false
	}
	if len(ev.chunks) == 0 {
		return true
	}
	if ev.confidence < e.cfg.Engine.WebTriggerConfidence {
		return true
	}
	if recencyPattern.MatchString(query) {
		return true
	}
	if currentInfoPattern.MatchString(query) {
		return true
	}
	return false
}

// searchWeb runs the bounded web search leg.
func (e *Engine) searchWeb(ctx context.Context, query string) ([]websearch.Result, error) {
	timeout := e.cfg.WebSearch.Timeout.Duration()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return e.searcher.Search(ctx, query, e.cfg.WebSearch.MaxResults)
}

// generate calls the completion provider with the assembled context
// and bounded deadline.
func (e *Engine) generate(ctx context.Context, query string, ev evidence) (string, error) {
	timeout := e.cfg.LLM.Timeout.Duration()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	contextBlock := buildContext(ev.chunks, ev.webResults)
	user := buildUserMessage(contextBlock, query)
	e.logger.Debug("Prompt assembled",
		"prompt_tokens", e.tokens.Count(systemInstruction)+e.tokens.Count(user))

	result, err := e.provider.Complete(ctx, llms.CompletionRequest{
		System:      systemInstruction,
		User:        user,
		Temperature: e.cfg.LLM.Temperature,
		MaxTokens:   e.cfg.LLM.MaxTokens,
		Seed:        e.cfg.LLM.Seed,
	})
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// finalize applies the source-mix confidence adjustments and packages
// the answer.
func (e *Engine) finalize(queryID, query, content string, ev evidence) *Answer {
	confidence := ev.confidence
	hasDocs := len(ev.chunks) > 0
	hasWeb := len(ev.webResults) > 0

	switch {
	case hasDocs && hasWeb:
		confidence += bothSourcesBoost
		if confidence > bothSourcesCap {
			confidence = bothSourcesCap
		}
	case hasWeb && !hasDocs:
		confidence = webOnlyScore
	}

	return &Answer{
		Content:         content,
		HasRelevantDocs: hasDocs,
		HasWebResults:   hasWeb,
		Confidence:      confidence,
		QueryInfo: QueryInfo{
			ID:             queryID,
			Query:          query,
			InternalChunks: len(ev.chunks),
			WebResults:     len(ev.webResults),
		},
	}
}

// internalConfidence derives confidence from the average chunk score:
// clamp(round(avg * 0.8), 20, 95), or 0 with no chunks.
func internalConfidence(chunks []rag.ScoredChunk) int {
	if len(chunks) == 0 {
		return 0
	}
	sum := 0
	for _, c := range chunks {
		sum += c.Score
	}
	avg := float64(sum) / float64(len(chunks))

	confidence := int(math.Round(avg * confidenceScale))
	if confidence < confidenceMin {
		confidence = confidenceMin
	}
	if confidence > confidenceMax {
		confidence = confidenceMax
	}
	return confidence
}
