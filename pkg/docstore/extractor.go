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

// Package docstore provides corpus sources backed by the filesystem.
package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

// Extractor pulls plain text out of one file format.
type Extractor interface {
	CanExtract(path string) bool
	Extract(ctx context.Context, path string) (string, error)
	Extensions() []string
}

// ExtractorRegistry dispatches extraction to the first extractor that
// claims the file.
type ExtractorRegistry struct {
	extractors []Extractor
}

// NewExtractorRegistry creates a registry with the built-in extractors.
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{
		extractors: []Extractor{
			&textExtractor{},
			&pdfExtractor{},
			&docxExtractor{},
			&xlsxExtractor{},
		},
	}
}

// Extract returns the plain text of the file at path.
func (r *ExtractorRegistry) Extract(ctx context.Context, path string) (string, error) {
	for _, e := range r.extractors {
		if e.CanExtract(path) {
			return e.Extract(ctx, path)
		}
	}
	return "", fmt.Errorf("no extractor for %s", filepath.Ext(path))
}

// Supports reports whether any extractor handles the file.
func (r *ExtractorRegistry) Supports(path string) bool {
	for _, e := range r.extractors {
		if e.CanExtract(path) {
			return true
		}
	}
	return false
}

// Extensions returns all supported file extensions.
func (r *ExtractorRegistry) Extensions() []string {
	seen := make(map[string]bool)
	var result []string
	for _, e := range r.extractors {
		for _, ext := range e.Extensions() {
			if !seen[ext] {
				seen[ext] = true
				result = append(result, ext)
			}
		}
	}
	return result
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// textExtractor reads plain text and markdown files verbatim.
type textExtractor struct{}

func (e *textExtractor) CanExtract(path string) bool {
	return hasExt(path, ".txt", ".md", ".markdown")
}

func (e *textExtractor) Extensions() []string {
	return []string{".txt", ".md", ".markdown"}
}

func (e *textExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// pdfExtractor extracts page text from PDF documents.
type pdfExtractor struct{}

func (e *pdfExtractor) CanExtract(path string) bool {
	return hasExt(path, ".pdf")
}

func (e *pdfExtractor) Extensions() []string {
	return []string{".pdf"}
}

func (e *pdfExtractor) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat PDF: %w", err)
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer file.Close()

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	var parts []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// docxExtractor extracts text from Word documents.
type docxExtractor struct{}

func (e *docxExtractor) CanExtract(path string) bool {
	return hasExt(path, ".docx")
}

func (e *docxExtractor) Extensions() []string {
	return []string{".docx"}
}

func (e *docxExtractor) Extract(ctx context.Context, path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse Word document: %w", err)
	}
	defer doc.Close()
	return doc.Editable().GetContent(), nil
}

// xlsxExtractor extracts cell text from Excel spreadsheets.
type xlsxExtractor struct {
	// maxCellsPerSheet bounds output for very large sheets; zero means
	// the default of 1000.
	maxCellsPerSheet int
}

func (e *xlsxExtractor) CanExtract(path string) bool {
	return hasExt(path, ".xlsx")
}

func (e *xlsxExtractor) Extensions() []string {
	return []string{".xlsx"}
}

func (e *xlsxExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse Excel document: %w", err)
	}
	defer f.Close()

	maxCells := e.maxCellsPerSheet
	if maxCells <= 0 {
		maxCells = 1000
	}

	var parts []string
	for _, sheetName := range f.GetSheetList() {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}

		var sheetText strings.Builder
		sheetText.WriteString(sheetName + "\n")
		cellCount := 0
		for _, row := range rows {
			if cellCount >= maxCells {
				break
			}
			var cells []string
			for _, cell := range row {
				if text := strings.TrimSpace(cell); text != "" {
					cells = append(cells, text)
					cellCount++
				}
			}
			if len(cells) > 0 {
				sheetText.WriteString(strings.Join(cells, " ") + "\n")
			}
		}

		if text := strings.TrimSpace(sheetText.String()); text != sheetName {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
