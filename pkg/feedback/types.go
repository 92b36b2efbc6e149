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

// Package feedback stores human-validated question/answer pairs and
// serves them ahead of fresh generation, so repeated questions get
// consistent answers.
package feedback

import (
	"context"
	"time"
)

// QnARecord is a human-validated answer to a recurring question.
// Records are created on the first high-quality answer, mutated on
// repeat matches and never deleted.
type QnARecord struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	RatingCount     int       `json:"rating_count"`
	AverageRating   float64   `json:"average_rating"`
	ConfidenceScore int       `json:"confidence_score"`
	Tags            []string  `json:"tags,omitempty"`
	LastUsed        time.Time `json:"last_used"`
	IsApproved      bool      `json:"is_approved"`
}

// Store persists QnA records.
type Store interface {
	// ListApproved returns all approved records.
	ListApproved(ctx context.Context) ([]QnARecord, error)

	// Get returns the record with the given id, or (nil, nil) if absent.
	Get(ctx context.Context, id string) (*QnARecord, error)

	// Save inserts or replaces a record.
	Save(ctx context.Context, record *QnARecord) error

	// TouchUsed updates LastUsed and the rolling rating average after a
	// repeat match.
	TouchUsed(ctx context.Context, id string, rating float64) error

	// Close releases store resources.
	Close() error
}
