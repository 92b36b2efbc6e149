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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SanderNunes/cellito-engine/pkg/config"
	"github.com/SanderNunes/cellito-engine/pkg/feedback"
	"github.com/SanderNunes/cellito-engine/pkg/llms"
	"github.com/SanderNunes/cellito-engine/pkg/rag"
	"github.com/SanderNunes/cellito-engine/pkg/utils"
	"github.com/SanderNunes/cellito-engine/pkg/websearch"
)

// Engine answers queries by combining the processed-document index, the
// validated QnA store, optional web search and a chat completion
// provider.
type Engine struct {
	cfg      *config.Config
	managers []*rag.Manager
	selector *rag.Selector
	provider llms.Provider
	searcher websearch.Searcher
	matcher  *feedback.Matcher
	tokens   *utils.TokenCounter
	metrics  *Metrics
	logger   *slog.Logger
}

// Options wires the engine's collaborators.
type Options struct {
	Config   *config.Config
	Managers []*rag.Manager
	Provider llms.Provider
	Searcher websearch.Searcher
	Feedback feedback.Store
	Registry prometheus.Registerer
}

// New assembles an engine.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	searcher := opts.Searcher
	if searcher == nil || !config.BoolValue(cfg.WebSearch.Enabled, false) {
		searcher = websearch.NilSearcher{}
	}

	var matcher *feedback.Matcher
	if opts.Feedback != nil {
		matcher = feedback.NewMatcher(opts.Feedback, cfg.Feedback.MinConfidence, cfg.Feedback.MinMatchScore)
	}

	// A nil counter falls back to the chars/4 estimate.
	tokens, err := utils.NewTokenCounter(cfg.LLM.Model)
	if err != nil {
		slog.Warn("Token encoding unavailable, using estimates", "model", cfg.LLM.Model, "error", err)
	}

	return &Engine{
		cfg:      cfg,
		managers: opts.Managers,
		selector: rag.NewSelector(cfg.Retrieval.Selector),
		provider: opts.Provider,
		searcher: searcher,
		matcher:  matcher,
		tokens:   tokens,
		metrics:  NewMetrics(opts.Registry),
		logger:   slog.Default().With("component", "engine"),
	}
}

// Reindex checks every corpus against its cache and rebuilds where
// needed. Source failures degrade to an empty corpus for the cycle
// instead of failing the call.
func (e *Engine) Reindex(ctx context.Context) error {
	for _, manager := range e.managers {
		result, err := manager.RebuildIfNeeded(ctx)
		if err != nil {
			var unavailable *rag.SourceUnavailableError
			if errors.As(err, &unavailable) {
				e.logger.Warn("Corpus unavailable during reindex",
					"source", unavailable.Source,
					"error", err)
				continue
			}
			return err
		}
		if !result.FromCache {
			e.metrics.Rebuilds.Inc()
		}
	}
	return nil
}

// Reset drops every in-memory index snapshot.
func (e *Engine) Reset() {
	for _, manager := range e.managers {
		manager.Reset()
	}
}

// approvalRating is the minimum user rating that promotes an answer
// into the validated QnA store.
const approvalRating = 4

// ErrFeedbackDisabled is returned when no feedback store is configured.
var ErrFeedbackDisabled = errors.New("feedback store is not configured")

// RecordFeedback registers a user rating for a delivered answer.
// Ratings of four and above promote the pair into the validated QnA
// store; lower ratings are logged only.
func (e *Engine) RecordFeedback(ctx context.Context, question, answer string, rating int) error {
	if e.matcher == nil {
		return ErrFeedbackDisabled
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	if rating < approvalRating {
		e.logger.Info("Negative feedback received", "rating", rating)
		return nil
	}
	return e.matcher.RecordAnswer(ctx, question, answer, nil)
}

// Invalidate drops every corpus snapshot and its persisted cache
// record, so the next Reindex reads the sources.
func (e *Engine) Invalidate(ctx context.Context) error {
	for _, manager := range e.managers {
		if err := manager.Invalidate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// IndexStats reports the indexed document and chunk counts.
func (e *Engine) IndexStats() (docs, chunks int) {
	for _, doc := range e.corpus() {
		docs++
		chunks += doc.TotalChunks
	}
	return docs, chunks
}

// corpus returns the combined current index across all managers.
func (e *Engine) corpus() []rag.ProcessedDocument {
	var docs []rag.ProcessedDocument
	for _, manager := range e.managers {
		docs = append(docs, manager.Current()...)
	}
	return docs
}

// Ask answers one query. The validated QnA store is consulted first;
// on a miss the full pipeline runs.
func (e *Engine) Ask(ctx context.Context, query string) (*Answer, error) {
	started := time.Now()
	queryID := uuid.NewString()
	logger := e.logger.With("query_id", queryID)

	e.metrics.Queries.Inc()
	defer func() {
		e.metrics.QueryDuration.Observe(time.Since(started).Seconds())
	}()

	if e.matcher != nil {
		record, err := e.matcher.FindCachedAnswer(ctx, query)
		if err != nil {
			logger.Warn("Feedback lookup failed, continuing with pipeline", "error", err)
		} else if record != nil {
			e.metrics.FeedbackHits.Inc()
			logger.Info("Answered from validated QnA store", "record_id", record.ID)
			return &Answer{
				Content:         record.Answer,
				HasRelevantDocs: true,
				Confidence:      record.ConfidenceScore,
				QueryInfo: QueryInfo{
					ID:           queryID,
					Query:        query,
					FromFeedback: true,
					Duration:     time.Since(started),
				},
			}, nil
		}
	}

	answer, err := e.runPipeline(ctx, queryID, query, logger)
	if err != nil {
		return nil, err
	}
	answer.QueryInfo.Duration = time.Since(started)

	// Confident grounded answers seed the QnA store so repeat
	// questions can skip the pipeline.
	if e.matcher != nil && answer.HasRelevantDocs && answer.Confidence >= e.cfg.Feedback.MinConfidence {
		if err := e.matcher.RecordAnswer(ctx, query, answer.Content, nil); err != nil {
			logger.Warn("Failed to record answer in QnA store", "error", err)
		}
	}
	return answer, nil
}
