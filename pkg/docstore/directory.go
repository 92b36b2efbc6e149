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

package docstore

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
)

// draftMarker in a file name marks it unpublished and excluded from
// the corpus.
const draftMarker = ".draft."

// defaultExtractWorkers bounds parallel content extraction.
const defaultExtractWorkers = 4

// DirectorySource serves documents from a directory tree. Only
// published files with a supported extension are eligible; drafts,
// hidden entries and cache artifacts never enter the corpus.
type DirectorySource struct {
	dir        string
	kind       rag.SourceKind
	extractors *ExtractorRegistry
	logger     *slog.Logger
}

var _ rag.CorpusSource = (*DirectorySource)(nil)

// NewDirectorySource creates a source over dir for the given corpus kind.
func NewDirectorySource(dir string, kind rag.SourceKind) *DirectorySource {
	return &DirectorySource{
		dir:        dir,
		kind:       kind,
		extractors: NewExtractorRegistry(),
		logger:     slog.Default().With("component", "directory_source", "dir", dir),
	}
}

// Kind identifies the corpus this source serves.
func (s *DirectorySource) Kind() rag.SourceKind {
	return s.kind
}

// Dir returns the source directory.
func (s *DirectorySource) Dir() string {
	return s.dir
}

// Eligible reports whether path belongs in the corpus.
func (s *DirectorySource) Eligible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return false
	}
	if strings.Contains(strings.ToLower(base), draftMarker) {
		return false
	}
	if strings.HasSuffix(base, ".tmp") {
		return false
	}
	return s.extractors.Supports(path)
}

// Fingerprint walks the tree and summarizes corpus state without
// reading any file content.
func (s *DirectorySource) Fingerprint(ctx context.Context) (rag.CorpusFingerprint, error) {
	fp := rag.CorpusFingerprint{Kind: s.kind}

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if s.hiddenDir(path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.Eligible(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		fp.Count++
		fp.DocumentIDs = append(fp.DocumentIDs, s.documentID(path))
		if info.ModTime().After(fp.LastModified) {
			fp.LastModified = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return rag.CorpusFingerprint{}, rag.NewSourceUnavailableError(string(s.kind), "fingerprint", err)
	}

	sort.Strings(fp.DocumentIDs)
	return fp, nil
}

// ListDocuments extracts every eligible file in parallel. A file that
// fails extraction is skipped and logged; one malformed document never
// blocks the corpus.
func (s *DirectorySource) ListDocuments(ctx context.Context) ([]rag.Document, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if s.hiddenDir(path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.Eligible(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, rag.NewSourceUnavailableError(string(s.kind), "list_documents", err)
	}

	var mu sync.Mutex
	docs := make(map[string]rag.Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultExtractWorkers)
	for _, path := range paths {
		g.Go(func() error {
			doc, err := s.readDocument(gctx, path)
			if err != nil {
				s.logger.Warn("Skipping malformed document",
					"path", path,
					"error", err)
				return nil
			}
			mu.Lock()
			docs[doc.ID] = doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rag.NewSourceUnavailableError(string(s.kind), "list_documents", err)
	}

	// Stable output order regardless of extraction scheduling.
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]rag.Document, 0, len(ids))
	for _, id := range ids {
		result = append(result, docs[id])
	}
	return result, nil
}

// readDocument extracts one file into a Document.
func (s *DirectorySource) readDocument(ctx context.Context, path string) (rag.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return rag.Document{}, err
	}

	text, err := s.extractors.Extract(ctx, path)
	if err != nil {
		return rag.Document{}, rag.NewMalformedContentError(s.documentID(path), "text", "extraction failed", err)
	}

	id := s.documentID(path)
	return rag.Document{
		ID:         id,
		Title:      titleFromPath(path),
		Text:       text,
		Category:   s.categoryOf(id),
		ModifiedAt: info.ModTime(),
		Metadata: map[string]string{
			"path":      path,
			"extension": strings.ToLower(filepath.Ext(path)),
		},
	}, nil
}

// documentID is the path relative to the source root.
func (s *DirectorySource) documentID(path string) string {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// categoryOf derives the category from the first path segment, if any.
func (s *DirectorySource) categoryOf(id string) string {
	if i := strings.IndexByte(id, '/'); i > 0 {
		return id[:i]
	}
	return ""
}

func (s *DirectorySource) hiddenDir(path string, d fs.DirEntry) bool {
	if path == s.dir {
		return false
	}
	name := d.Name()
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// titleFromPath turns a file name into a human-readable title.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}
