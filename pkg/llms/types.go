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

// Package llms provides chat completion providers.
package llms

import (
	"context"
	"fmt"
)

// CompletionRequest carries one generation call. Temperature and Seed
// are set low and fixed so repeated identical queries reproduce the
// same answer.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	Seed        *int
}

// CompletionResult is the provider's answer plus usage accounting.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Provider generates chat completions.
type Provider interface {
	// Complete generates an answer for the request. Implementations
	// must honor ctx cancellation and deadline.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)

	// Model returns the configured model name.
	Model() string
}

// GenerationError wraps a failed completion call. Generation failures
// propagate to the caller; they are never silently swallowed.
type GenerationError struct {
	Provider   string
	Model      string
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation failed [%s/%s] status %d: %s", e.Provider, e.Model, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation failed [%s/%s]: %s", e.Provider, e.Model, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a GenerationError.
func NewGenerationError(provider, model string, statusCode int, message string, err error) *GenerationError {
	return &GenerationError{
		Provider:   provider,
		Model:      model,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}
