//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package corpus

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencontratos/contratos-kb/contracts"
	"github.com/opencontratos/contratos-kb/knowledge/document"
	"github.com/opencontratos/contratos-kb/knowledge/document/reader/pdf"
)

// fakePDFReader returns canned per-page documents keyed by file basename,
// standing in for real PDF extraction.
type fakePDFReader struct {
	pages map[string][]string
}

func (f *fakePDFReader) ReadFromFile(filePath string) ([]*document.Document, error) {
	name := strings.TrimSuffix(filepath.Base(filePath), ".pdf")
	texts := f.pages[filepath.Base(filePath)]
	docs := make([]*document.Document, 0, len(texts))
	for i, text := range texts {
		docs = append(docs, &document.Document{
			ID:      name,
			Name:    name,
			Content: text,
			Metadata: map[string]any{
				pdf.MetaPageNumber: i + 1,
				pdf.MetaNumPages:   len(texts),
				pdf.MetaSource:     name,
			},
		})
	}
	return docs, nil
}

func (f *fakePDFReader) ReadFromReader(string, io.Reader) ([]*document.Document, error) {
	return nil, nil
}
func (f *fakePDFReader) ReadFromURL(string) ([]*document.Document, error) { return nil, nil }
func (f *fakePDFReader) Name() string                                     { return "fake" }
func (f *fakePDFReader) SupportedExtensions() []string                    { return []string{".pdf"} }

// writeContractDir lays out a contract directory the way the scraper does.
func writeContractDir(t *testing.T, root, contractID string, raw contracts.MetadataRaw, pdfNames ...string) {
	t.Helper()

	dir := filepath.Join(root, contractID)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	pdfs := make(map[string]string, len(pdfNames))
	for _, name := range pdfNames {
		path := filepath.Join(dir, name+".pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF stub"), 0o644))
		pdfs[name] = path
	}

	record := contracts.NewRecord("https://portal.example.org/contrato-publico/x", raw, pdfs)
	record.ContractID = contractID
	_, err := contracts.SaveMetadata(root, record)
	require.NoError(t, err)
}

func TestBuilderBuild(t *testing.T) {
	root := t.TempDir()
	writeContractDir(t, root, "EXP-001", contracts.MetadataRaw{
		contracts.LabelContractID: "EXP-001",
		"Poder adjudicador":       "Ayuntamiento",
	}, "pliego_admin", "pliego_tecnico")
	writeContractDir(t, root, "EXP-002", contracts.MetadataRaw{
		contracts.LabelContractID: "EXP-002",
	}, "pliego_tecnico")

	fake := &fakePDFReader{pages: map[string][]string{
		"pliego_admin.pdf":   {"CLÁUSULA 1. Objeto", "CLÁUSULA 2. Precio"},
		"pliego_tecnico.pdf": {"Prescripciones técnicas"},
	}}

	builder := NewBuilder(WithDataRoot(root), WithReader(fake))
	records, err := builder.Build()
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Sorted contract order, pliego_admin before pliego_tecnico.
	assert.Equal(t, "EXP-001::pliego_admin::p001", records[0].ID)
	assert.Equal(t, "EXP-001::pliego_admin::p002", records[1].ID)
	assert.Equal(t, "EXP-001::pliego_tecnico::p001", records[2].ID)
	assert.Equal(t, "EXP-002::pliego_tecnico::p001", records[3].ID)

	first := records[0]
	assert.Equal(t, "CLÁUSULA 1. Objeto", first.Text)
	assert.Equal(t, "EXP-001", first.Metadata[MetaContractID])
	assert.Equal(t, "pliego_admin", first.Metadata[MetaDocumentType])
	assert.Equal(t, 1, first.Metadata[MetaPage])
	assert.Equal(t, "pliego_admin.pdf", first.Metadata[MetaSourceFile])
	assert.Equal(t, "admin", first.Metadata[MetaSearchScope])
	assert.Equal(t, "Ayuntamiento", first.Metadata["meta_Poder adjudicador"])

	tecnico := records[2]
	assert.Equal(t, "tecnico", tecnico.Metadata[MetaSearchScope])
}

func TestBuilderBuildCorruptMetadata(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "EXP-003")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pliego_admin.pdf"), []byte("%PDF stub"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, contracts.MetadataFilename), []byte("{not json"), 0o644))

	fake := &fakePDFReader{pages: map[string][]string{
		"pliego_admin.pdf": {"texto"},
	}}

	records, err := NewBuilder(WithDataRoot(root), WithReader(fake)).Build()
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Corrupt metadata degrades to none, the page is still indexed.
	assert.Equal(t, "EXP-003::pliego_admin::p001", records[0].ID)
	for key := range records[0].Metadata {
		assert.False(t, strings.HasPrefix(key, "meta_"), "unexpected html metadata key %q", key)
	}
}

func TestBuilderBuildMissingRoot(t *testing.T) {
	builder := NewBuilder(WithDataRoot(filepath.Join(t.TempDir(), "nope")))
	_, err := builder.Build()
	assert.Error(t, err)
}

func TestBuilderBuildEmptyRoot(t *testing.T) {
	records, err := NewBuilder(WithDataRoot(t.TempDir())).Build()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteAndReadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultCorpusFilename)
	in := []*Record{
		{ID: "a::pliego_admin::p001", Text: "uno", Metadata: map[string]any{"contract_id": "a"}},
		{ID: "a::pliego_admin::p002", Text: "dos", Metadata: map[string]any{"contract_id": "a"}},
	}
	require.NoError(t, WriteCorpus(path, in))

	out, err := ReadCorpus(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a::pliego_admin::p001", out[0].ID)
	assert.Equal(t, "uno", out[0].Text)
	assert.Equal(t, "a", out[0].Metadata["contract_id"])
}

func TestReadCorpusSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	content := `{"id":"a::pliego_admin::p001","text":"uno","metadata":{}}

{oops not json}
{"id":"a::pliego_admin::p002","text":"dos","metadata":{}}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := ReadCorpus(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a::pliego_admin::p002", records[1].ID)
}

func TestReadCorpusMissingFile(t *testing.T) {
	_, err := ReadCorpus(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
