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

// Package websearch provides the external web search collaborator.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SanderNunes/cellito-engine/pkg/config"
	"github.com/SanderNunes/cellito-engine/pkg/httpclient"
)

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Host    string `json:"host"`
	Snippet string `json:"snippet"`
}

// Searcher searches the web. A failed or timed-out search is a
// recoverable condition; the caller falls back to internal evidence.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// NilSearcher is used when web search is disabled. It returns no
// results and no error.
type NilSearcher struct{}

var _ Searcher = (*NilSearcher)(nil)

// Search returns no results.
func (NilSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	return nil, nil
}

// HTTPSearcher queries a SearxNG-compatible JSON endpoint.
type HTTPSearcher struct {
	endpoint   string
	httpClient *httpclient.Client
}

var _ Searcher = (*HTTPSearcher)(nil)

// searxResponse is the subset of the SearxNG JSON format we consume.
type searxResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// NewHTTPSearcher creates a searcher from configuration.
func NewHTTPSearcher(cfg config.WebSearchConfig) *HTTPSearcher {
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSearcher{
		endpoint: cfg.Endpoint,
		httpClient: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: timeout}),
			httpclient.WithMaxRetries(1),
			httpclient.WithBaseDelay(time.Second),
		),
	}
}

// Search queries the endpoint and returns at most maxResults hits.
func (s *HTTPSearcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if s.endpoint == "" {
		return nil, fmt.Errorf("web search endpoint not configured")
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid web search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read web search response: %w", err)
	}

	var parsed searxResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode web search response: %w", err)
	}

	results := make([]Result, 0, maxResults)
	for _, r := range parsed.Results {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Host:    hostOf(r.URL),
			Snippet: r.Content,
		})
	}
	return results, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}
