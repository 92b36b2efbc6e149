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

package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createQnATableSQL = `
CREATE TABLE IF NOT EXISTS qna_records (
    id VARCHAR(64) PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    rating_count INTEGER NOT NULL,
    average_rating REAL NOT NULL,
    confidence_score INTEGER NOT NULL,
    tags TEXT,
    last_used TIMESTAMP NOT NULL,
    is_approved BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_qna_approved ON qna_records(is_approved);
CREATE INDEX IF NOT EXISTS idx_qna_last_used ON qna_records(last_used);
`

// SQLStore persists QnA records in sqlite. The schema is created on
// open.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens (or creates) the sqlite database at path.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to feedback database at %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, createQnATableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize feedback schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ListApproved returns all approved records.
func (s *SQLStore) ListApproved(ctx context.Context) ([]QnARecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, rating_count, average_rating,
		       confidence_score, tags, last_used, is_approved
		FROM qna_records WHERE is_approved = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list qna records: %w", err)
	}
	defer rows.Close()

	var records []QnARecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Get returns the record with the given id, or (nil, nil) if absent.
func (s *SQLStore) Get(ctx context.Context, id string) (*QnARecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, rating_count, average_rating,
		       confidence_score, tags, last_used, is_approved
		FROM qna_records WHERE id = ?`, id)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

// Save inserts or replaces a record.
func (s *SQLStore) Save(ctx context.Context, record *QnARecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO qna_records
		(id, question, answer, rating_count, average_rating,
		 confidence_score, tags, last_used, is_approved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Question, record.Answer, record.RatingCount,
		record.AverageRating, record.ConfidenceScore,
		strings.Join(record.Tags, ","), record.LastUsed, record.IsApproved)
	if err != nil {
		return fmt.Errorf("failed to save qna record: %w", err)
	}
	return nil
}

// TouchUsed folds a new rating into the rolling average and bumps the
// usage timestamp. Last writer wins; the store never deletes.
func (s *SQLStore) TouchUsed(ctx context.Context, id string, rating float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE qna_records SET
			average_rating = (average_rating * rating_count + ?) / (rating_count + 1),
			rating_count = rating_count + 1,
			last_used = ?
		WHERE id = ?`, rating, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update qna record: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*QnARecord, error) {
	var record QnARecord
	var tags string
	err := row.Scan(&record.ID, &record.Question, &record.Answer,
		&record.RatingCount, &record.AverageRating, &record.ConfidenceScore,
		&tags, &record.LastUsed, &record.IsApproved)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		record.Tags = strings.Split(tags, ",")
	}
	return &record, nil
}
