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

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/SanderNunes/cellito-engine/pkg/engine"
)

const maxRequestBody = 1 << 20 // 1 MiB

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer          string `json:"answer"`
	Confidence      int    `json:"confidence"`
	HasRelevantDocs bool   `json:"has_relevant_docs"`
	HasWebResults   bool   `json:"has_web_results"`
	QueryID         string `json:"query_id"`
	InternalChunks  int    `json:"internal_chunks"`
	WebResults      int    `json:"web_results"`
	FromFeedback    bool   `json:"from_feedback"`
	DurationMs      int64  `json:"duration_ms"`
}

type feedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Rating   int    `json:"rating"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	answer, err := s.engine.Ask(r.Context(), req.Query)
	if err != nil {
		s.logger.Error("Query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to answer query")
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:          answer.Content,
		Confidence:      answer.Confidence,
		HasRelevantDocs: answer.HasRelevantDocs,
		HasWebResults:   answer.HasWebResults,
		QueryID:         answer.QueryInfo.ID,
		InternalChunks:  answer.QueryInfo.InternalChunks,
		WebResults:      answer.QueryInfo.WebResults,
		FromFeedback:    answer.QueryInfo.FromFeedback,
		DurationMs:      answer.QueryInfo.Duration.Milliseconds(),
	})
}

func (s *HTTPServer) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reindex(r.Context()); err != nil {
		s.logger.Error("Reindex failed", "error", err)
		writeError(w, http.StatusInternalServerError, "reindex failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reindexed"})
}

func (s *HTTPServer) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		writeError(w, http.StatusBadRequest, "question and answer must not be empty")
		return
	}

	err := s.engine.RecordFeedback(r.Context(), req.Question, req.Answer, req.Rating)
	switch {
	case errors.Is(err, engine.ErrFeedbackDisabled):
		writeError(w, http.StatusServiceUnavailable, "feedback is not enabled")
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
