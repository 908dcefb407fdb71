//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package corpus builds the embeddings corpus from scraped contract
// directories and prepares chunk-level records for the vector store.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/opencontratos/contratos-kb/contracts"
	"github.com/opencontratos/contratos-kb/knowledge/document/reader"
	"github.com/opencontratos/contratos-kb/knowledge/document/reader/pdf"
	"github.com/opencontratos/contratos-kb/log"
)

// Default output filenames.
const (
	DefaultCorpusFilename = "embeddings_corpus.jsonl"
	DefaultKBFilename     = "kb_chunks.jsonl"
)

// Metadata keys carried by corpus records.
const (
	MetaContractID   = "contract_id"
	MetaDocumentType = "document_type"
	MetaPage         = "page"
	MetaSourceFile   = "source_file"
	MetaSearchScope  = "search_scope"

	// htmlMetaPrefix prefixes raw HTML metadata labels to avoid collisions
	// with the pipeline's own keys.
	htmlMetaPrefix = "meta_"
)

// Record is one corpus entry: the text of a single pliego page plus its
// payload metadata.
type Record struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// docSource describes one pliego document type inside a contract directory.
type docSource struct {
	filename string
	docType  string
	scope    string
}

var docSources = []docSource{
	{filename: "pliego_admin.pdf", docType: "pliego_admin", scope: "admin"},
	{filename: "pliego_tecnico.pdf", docType: "pliego_tecnico", scope: "tecnico"},
}

// Builder walks processed contract directories and emits one corpus record
// per PDF page.
type Builder struct {
	dataRoot string
	reader   reader.Reader
}

// BuilderOption is a functional option for configuring the Builder.
type BuilderOption func(*Builder)

// WithDataRoot sets the directory holding per-contract subdirectories.
func WithDataRoot(root string) BuilderOption {
	return func(b *Builder) {
		if root != "" {
			b.dataRoot = root
		}
	}
}

// WithReader sets the PDF reader used to extract page text.
func WithReader(r reader.Reader) BuilderOption {
	return func(b *Builder) {
		if r != nil {
			b.reader = r
		}
	}
}

// NewBuilder creates a corpus builder. By default it reads contract
// directories under data/contracts and extracts raw page text without
// chunking; chunking happens later at knowledge base preparation.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		dataRoot: contracts.DefaultDataRoot,
		reader:   pdf.New(reader.WithChunk(false)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build walks all contract directories and returns the corpus records in
// deterministic order. Contracts with unreadable metadata or PDFs are
// logged and skipped, never aborting the whole build.
func (b *Builder) Build() ([]*Record, error) {
	entries, err := os.ReadDir(b.dataRoot)
	if err != nil {
		return nil, fmt.Errorf("read contracts dir %q: %w", b.dataRoot, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var records []*Record
	for _, contractID := range names {
		records = append(records, b.buildContract(contractID)...)
	}
	log.Infof("corpus build complete: contracts=%d records=%d", len(names), len(records))
	return records, nil
}

// buildContract emits the corpus records for a single contract directory.
func (b *Builder) buildContract(contractID string) []*Record {
	contractDir := filepath.Join(b.dataRoot, contractID)
	htmlMeta := loadHTMLMetadata(contractDir)

	var records []*Record
	for _, src := range docSources {
		pdfPath := filepath.Join(contractDir, src.filename)
		if _, err := os.Stat(pdfPath); err != nil {
			continue
		}

		docs, err := b.reader.ReadFromFile(pdfPath)
		if err != nil {
			log.Errorf("extract %s for %s: %v", src.filename, contractID, err)
			continue
		}

		for _, doc := range docs {
			page := pageNumber(doc.Metadata)
			metadata := map[string]any{
				MetaContractID:   contractID,
				MetaDocumentType: src.docType,
				MetaPage:         page,
				MetaSourceFile:   src.filename,
				MetaSearchScope:  src.scope,
			}
			for label, value := range htmlMeta {
				metadata[htmlMetaPrefix+label] = value
			}

			records = append(records, &Record{
				ID:       fmt.Sprintf("%s::%s::p%03d", contractID, src.docType, page),
				Text:     doc.Content,
				Metadata: metadata,
			})
		}
	}
	return records
}

// loadHTMLMetadata loads the raw HTML metadata saved next to the PDFs.
// A missing or corrupt file degrades to empty metadata.
func loadHTMLMetadata(contractDir string) contracts.MetadataRaw {
	path := filepath.Join(contractDir, contracts.MetadataFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("read %s: %v", path, err)
		}
		return contracts.MetadataRaw{}
	}

	var record contracts.Record
	if err := json.Unmarshal(data, &record); err != nil {
		log.Warnf("parse %s: %v", path, err)
		return contracts.MetadataRaw{}
	}
	if record.MetadataRaw == nil {
		return contracts.MetadataRaw{}
	}
	return record.MetadataRaw
}

// pageNumber extracts the page number a reader attached to a document.
// JSON round-trips turn ints into float64, so both are accepted.
func pageNumber(metadata map[string]any) int {
	switch v := metadata[pdf.MetaPageNumber].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
