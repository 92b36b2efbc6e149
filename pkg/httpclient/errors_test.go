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

package httpclient

import (
	"errors"
	"testing"
	"time"
)

func TestRetryableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RetryableError
		expected string
	}{
		{
			name: "error_with_retry_after",
			err: &RetryableError{
				StatusCode: 429,
				Message:    "Rate limit exceeded",
				RetryAfter: 30 * time.Second,
			},
			expected: "HTTP 429: Rate limit exceeded (retry after 30s)",
		},
		{
			name: "error_without_retry_after",
			err: &RetryableError{
				StatusCode: 500,
				Message:    "Internal server error",
			},
			expected: "HTTP 500: Internal server error",
		},
		{
			name: "error_with_fractional_retry_after",
			err: &RetryableError{
				StatusCode: 429,
				Message:    "Rate limit exceeded",
				RetryAfter: 1500 * time.Millisecond,
			},
			expected: "HTTP 429: Rate limit exceeded (retry after 1.5s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.err.Error(); result != tt.expected {
				t.Errorf("RetryableError.Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRetryableError_Unwrap(t *testing.T) {
	underlying := errors.New("connection reset")
	retryErr := &RetryableError{
		StatusCode: 503,
		Message:    "max HTTP retries (2) exceeded",
		Err:        underlying,
	}

	if !errors.Is(retryErr, underlying) {
		t.Error("errors.Is should reach the underlying error")
	}
	if retryErr.Unwrap() != underlying {
		t.Error("Unwrap should return the underlying error")
	}
	if !retryErr.IsRetryable() {
		t.Error("RetryableError should report retryable")
	}
}
