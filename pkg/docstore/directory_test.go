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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderNunes/cellito-engine/pkg/rag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDirectorySourceListDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "planos/fibra.md", "Os planos de fibra cobrem as principais cidades do pais.")
	writeFile(t, dir, "suporte/contactos.txt", "O suporte atende por telefone e chat todos os dias.")
	// Ineligible entries.
	writeFile(t, dir, "planos/rascunho.draft.md", "conteudo nao publicado")
	writeFile(t, dir, ".hidden.md", "oculto")
	writeFile(t, dir, "_notes/internal.md", "interno")
	writeFile(t, dir, "imagem.png", "binario")

	source := NewDirectorySource(dir, rag.SourceArticles)
	docs, err := source.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Output is sorted by id.
	assert.Equal(t, "planos/fibra.md", docs[0].ID)
	assert.Equal(t, "suporte/contactos.txt", docs[1].ID)
	assert.Equal(t, "planos", docs[0].Category)
	assert.Equal(t, "fibra", docs[0].Title)
	assert.Contains(t, docs[0].Text, "planos de fibra")
	assert.False(t, docs[0].ModifiedAt.IsZero())
}

func TestDirectorySourceFingerprint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "Primeiro documento com conteudo suficiente para contar.")
	writeFile(t, dir, "b.txt", "Segundo documento com conteudo suficiente para contar.")
	writeFile(t, dir, "c.draft.md", "rascunho ignorado")

	source := NewDirectorySource(dir, rag.SourceArticles)
	fp, err := source.Fingerprint(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fp.Count)
	assert.Equal(t, []string{"a.md", "b.txt"}, fp.DocumentIDs)
	assert.False(t, fp.LastModified.IsZero())
	assert.Equal(t, rag.SourceArticles, fp.Kind)
}

func TestDirectorySourceFingerprintMatchesListing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x/first.md", "Documento um com texto suficiente para o corpus.")
	writeFile(t, dir, "y/second.md", "Documento dois com texto suficiente para o corpus.")

	source := NewDirectorySource(dir, rag.SourceFiles)
	ctx := context.Background()

	fp, err := source.Fingerprint(ctx)
	require.NoError(t, err)
	docs, err := source.ListDocuments(ctx)
	require.NoError(t, err)

	require.Equal(t, fp.Count, len(docs))
	for i, doc := range docs {
		assert.Equal(t, fp.DocumentIDs[i], doc.ID)
	}
}

func TestDirectorySourceMissingDir(t *testing.T) {
	source := NewDirectorySource(filepath.Join(t.TempDir(), "absent"), rag.SourceArticles)

	_, err := source.Fingerprint(context.Background())
	var unavailable *rag.SourceUnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestMemorySource(t *testing.T) {
	source := NewMemorySource(rag.SourceArticles,
		rag.Document{ID: "b", Text: "segundo"},
		rag.Document{ID: "a", Text: "primeiro"},
	)
	ctx := context.Background()

	docs, err := source.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)

	source.Remove("a")
	fp, err := source.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fp.Count)
	assert.Equal(t, []string{"b"}, fp.DocumentIDs)
}
