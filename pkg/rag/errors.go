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

import (
	"fmt"
	"time"
)

// SourceUnavailableError reports an unreachable corpus source or cache
// store. The engine treats the corpus as empty for the cycle and retries
// on the next invocation, never in a loop.
type SourceUnavailableError struct {
	Source    string    // Name of the source or store
	Operation string    // Operation that failed
	Err       error     // Underlying error
	Timestamp time.Time // When the error occurred
}

// Error implements the error interface.
func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("[%s] %s: source unavailable: %v", e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// NewSourceUnavailableError creates a new SourceUnavailableError.
func NewSourceUnavailableError(source, operation string, err error) *SourceUnavailableError {
	return &SourceUnavailableError{
		Source:    source,
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// MalformedContentError reports a document whose stored content failed to
// parse. The offending document is skipped, not fatal to the batch.
type MalformedContentError struct {
	DocumentID string // Document that failed
	Field      string // Field that failed to parse
	Message    string // Error message
	Err        error  // Underlying error
}

// Error implements the error interface.
func (e *MalformedContentError) Error() string {
	msg := fmt.Sprintf("malformed content in document %s (field %s): %s", e.DocumentID, e.Field, e.Message)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *MalformedContentError) Unwrap() error {
	return e.Err
}

// NewMalformedContentError creates a new MalformedContentError.
func NewMalformedContentError(documentID, field, message string, err error) *MalformedContentError {
	return &MalformedContentError{
		DocumentID: documentID,
		Field:      field,
		Message:    message,
		Err:        err,
	}
}

// IndexError reports a failure during an indexing operation.
type IndexError struct {
	DocumentID string // Document ID
	Operation  string // Operation (e.g., "chunk", "persist")
	Message    string // Error message
	Err        error  // Underlying error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	msg := fmt.Sprintf("index %s failed for %s: %s", e.Operation, e.DocumentID, e.Message)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *IndexError) Unwrap() error {
	return e.Err
}

// NewIndexError creates a new IndexError.
func NewIndexError(documentID, operation, message string, err error) *IndexError {
	return &IndexError{
		DocumentID: documentID,
		Operation:  operation,
		Message:    message,
		Err:        err,
	}
}

// SearchError reports a failure during query-time scoring or selection.
// Query-time errors are surfaced to the caller; the engine does not
// retry automatically.
type SearchError struct {
	Component string // Component that failed
	Operation string // Operation that failed
	Query     string // Query that caused the error
	Err       error  // Underlying error
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	query := e.Query
	if len(query) > 50 {
		query = query[:50] + "..."
	}
	return fmt.Sprintf("[%s] %s failed (query: %q): %v", e.Component, e.Operation, query, e.Err)
}

// Unwrap returns the underlying error.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// NewSearchError creates a new SearchError.
func NewSearchError(component, operation, query string, err error) *SearchError {
	return &SearchError{
		Component: component,
		Operation: operation,
		Query:     query,
		Err:       err,
	}
}
