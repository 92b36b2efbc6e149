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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 800, cfg.Retrieval.Articles.Chunking.TargetSize)
	assert.Equal(t, 500, cfg.Retrieval.Files.Chunking.TargetSize)
	assert.Equal(t, 30, cfg.Retrieval.Selector.MinScore)
	assert.Equal(t, 2500, cfg.Retrieval.Selector.TokenBudget)
	assert.Equal(t, 70, cfg.Feedback.MinConfidence)
	assert.Equal(t, 40, cfg.Engine.WebTriggerConfidence)
	assert.False(t, BoolValue(cfg.WebSearch.Enabled, true))
	require.NotNil(t, cfg.LLM.Seed)
	assert.Equal(t, 42, *cfg.LLM.Seed)
	assert.LessOrEqual(t, cfg.LLM.Temperature, 0.3)
}

func TestParse(t *testing.T) {
	yamlData := `
logging:
  level: debug
server:
  port: 9090
llm:
  model: test-model
  temperature: 0.1
  timeout: 10s
retrieval:
  selector:
    min_score: 50
web_search:
  enabled: true
  endpoint: http://localhost:8888/search
`
	cfg, err := Parse([]byte(yamlData))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-model", cfg.LLM.Model)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout.Duration())
	assert.Equal(t, 50, cfg.Retrieval.Selector.MinScore)
	assert.True(t, BoolValue(cfg.WebSearch.Enabled, false))
	// Untouched sections still get defaults.
	assert.Equal(t, 800, cfg.Retrieval.Articles.Chunking.TargetSize)
}

func TestParseRejectsHighTemperature(t *testing.T) {
	_, err := Parse([]byte("llm:\n  temperature: 0.9\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CELLITO_TEST_KEY", "secret")

	tests := []struct {
		in   string
		want string
	}{
		{"${CELLITO_TEST_KEY}", "secret"},
		{"$CELLITO_TEST_KEY", "secret"},
		{"${CELLITO_TEST_MISSING:-fallback}", "fallback"},
		{"${CELLITO_TEST_KEY:-fallback}", "secret"},
		{"no variables here", "no variables here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandEnvVars(tt.in), "input %q", tt.in)
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("CELLITO_TEST_MODEL", "env-model")

	cfg, err := Parse([]byte("llm:\n  model: ${CELLITO_TEST_MODEL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.LLM.Model)
}
