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

// Package engine orchestrates retrieval, web search and generation
// into answers.
package engine

import (
	"time"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
	"github.com/SanderNunes/cellito-engine/pkg/websearch"
)

// Answer is the engine's response to one query.
type Answer struct {
	Content         string    `json:"content"`
	HasRelevantDocs bool      `json:"has_relevant_docs"`
	HasWebResults   bool      `json:"has_web_results"`
	Confidence      int       `json:"confidence"`
	QueryInfo       QueryInfo `json:"query_info"`
}

// QueryInfo carries per-query diagnostics.
type QueryInfo struct {
	ID             string        `json:"id"`
	Query          string        `json:"query"`
	InternalChunks int           `json:"internal_chunks"`
	WebResults     int           `json:"web_results"`
	FromFeedback   bool          `json:"from_feedback"`
	Duration       time.Duration `json:"duration"`
}

// state names the orchestrator's position in the answer pipeline.
type state int

const (
	stateSearchInternal state = iota
	stateDecideWeb
	stateSearchWeb
	stateSkipWeb
	stateBuildContext
	stateGenerate
	stateFinalize
)

func (s state) String() string {
	switch s {
	case stateSearchInternal:
		return "SEARCH_INTERNAL"
	case stateDecideWeb:
		return "DECIDE_WEB"
	case stateSearchWeb:
		return "SEARCH_WEB"
	case stateSkipWeb:
		return "SKIP_WEB"
	case stateBuildContext:
		return "BUILD_CONTEXT"
	case stateGenerate:
		return "GENERATE"
	case stateFinalize:
		return "FINALIZE"
	default:
		return "UNKNOWN"
	}
}

// evidence is what the pipeline collects before generation.
type evidence struct {
	chunks     []rag.ScoredChunk
	webResults []websearch.Result
	confidence int
}

// noInformationResponse is returned when neither internal chunks nor
// web results exist. The completion service is never called in that
// case.
const noInformationResponse = "Não encontrei informação relevante para responder a essa pergunta. " +
	"Por favor reformule ou contacte o apoio ao cliente."
