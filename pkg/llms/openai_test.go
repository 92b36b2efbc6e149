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

package llms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderNunes/cellito-engine/pkg/config"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.LLMConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	}
	cfg.SetDefaults()
	cfg.BaseURL = server.URL
	cfg.Model = "test-model"
	return NewOpenAIProvider(cfg)
}

func TestCompleteSuccess(t *testing.T) {
	var captured openAIRequest
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "resposta gerada"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5}
		}`))
	})

	seed := 42
	result, err := provider.Complete(context.Background(), CompletionRequest{
		System:      "persona",
		User:        "pergunta",
		Temperature: 0.2,
		MaxTokens:   100,
		Seed:        &seed,
	})
	require.NoError(t, err)

	assert.Equal(t, "resposta gerada", result.Content)
	assert.Equal(t, 10, result.PromptTokens)
	assert.Equal(t, 5, result.CompletionTokens)

	// Deterministic generation parameters travel on the wire.
	assert.Equal(t, 0.2, captured.Temperature)
	require.NotNil(t, captured.Seed)
	assert.Equal(t, 42, *captured.Seed)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
}

func TestCompleteServerError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := provider.Complete(context.Background(), CompletionRequest{User: "pergunta"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "test-model", genErr.Model)
}

func TestCompleteAPIError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "model not found", "type": "invalid_request_error"}}`))
	})

	_, err := provider.Complete(context.Background(), CompletionRequest{User: "pergunta"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Message, "model not found")
}

func TestCompleteContextCancelled(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Complete(ctx, CompletionRequest{User: "pergunta"})
	require.Error(t, err)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(config.LLMConfig{Provider: "mystery"})
	require.Error(t, err)
}
