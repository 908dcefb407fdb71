//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package pdf provides a PDF document reader that yields one document per
// page, preserving page numbers for downstream corpus records.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/opencontratos/contratos-kb/knowledge/chunking"
	"github.com/opencontratos/contratos-kb/knowledge/document"
	idocument "github.com/opencontratos/contratos-kb/knowledge/document/internal/document"
	"github.com/opencontratos/contratos-kb/knowledge/document/reader"
	"github.com/opencontratos/contratos-kb/log"
)

// Metadata keys set on every page document.
const (
	MetaPageNumber = "page_number"
	MetaNumPages   = "num_pages"
	MetaSource     = "source"
)

var (
	// supportedExtensions defines the file extensions supported by this reader.
	supportedExtensions = []string{".pdf"}
)

// init registers the PDF reader with the global registry.
func init() {
	reader.RegisterReader(supportedExtensions, New)
}

// Reader reads PDF documents page by page and optionally applies the
// clause-aware chunking strategy to each page.
type Reader struct {
	chunk            bool
	chunkingStrategy chunking.Strategy
}

// New creates a new PDF reader with the given options.
// The PDF reader uses ClauseChunking by default.
func New(opts ...reader.Option) reader.Reader {
	config := &reader.Config{
		Chunk: true,
	}
	for _, opt := range opts {
		opt(config)
	}

	strategy := reader.BuildChunkingStrategy(config, buildDefaultChunkingStrategy)

	return &Reader{
		chunk:            config.Chunk,
		chunkingStrategy: strategy,
	}
}

// buildDefaultChunkingStrategy builds the default chunking strategy for the
// PDF reader. Non-positive parameters keep the strategy defaults.
func buildDefaultChunkingStrategy(maxChars, minChars, overlap int) chunking.Strategy {
	var opts []chunking.ClauseOption
	if maxChars > 0 {
		opts = append(opts, chunking.WithMaxChars(maxChars))
	}
	if minChars > 0 {
		opts = append(opts, chunking.WithMinChars(minChars))
	}
	if overlap > 0 {
		opts = append(opts, chunking.WithOverlapSegments(overlap))
	}
	strategy, err := chunking.NewClauseChunking(opts...)
	if err != nil {
		log.Warnf("pdf reader: invalid chunking parameters, falling back to defaults: %v", err)
		strategy, _ = chunking.NewClauseChunking()
	}
	return strategy
}

// ReadFromReader reads PDF content from an io.Reader and returns one document
// per page.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF content: %w", err)
	}
	return r.readPages(content, name)
}

// ReadFromFile reads PDF content from a file path and returns one document
// per page.
func (r *Reader) ReadFromFile(filePath string) ([]*document.Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return r.readPages(content, name)
}

// ReadFromURL reads PDF content from a URL and returns one document per page.
func (r *Reader) ReadFromURL(urlStr string) ([]*document.Document, error) {
	return r.ReadFromURLWithContext(context.Background(), urlStr)
}

// ReadFromURLWithContext reads PDF content from a URL with context support.
func (r *Reader) ReadFromURLWithContext(ctx context.Context, urlStr string) ([]*document.Document, error) {
	// Validate URL before making HTTP request.
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	return r.ReadFromReader(extractFileNameFromURL(urlStr), resp.Body)
}

// readPages extracts every page of the PDF into its own document and applies
// chunking when enabled.
func (r *Reader) readPages(content []byte, name string) ([]*document.Document, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := pdfReader.NumPage()
	docs := make([]*document.Document, 0, numPages)

	for pageIndex := 1; pageIndex <= numPages; pageIndex++ {
		page := pdfReader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warnf("pdf reader: failed to extract text from page %d of %s: %v", pageIndex, name, err)
			continue
		}
		text = trimLineEndings(text)
		if strings.TrimSpace(text) == "" {
			continue
		}

		doc := idocument.NewPage(name, text, pageIndex)
		doc.Metadata[MetaPageNumber] = pageIndex
		doc.Metadata[MetaNumPages] = numPages
		doc.Metadata[MetaSource] = name

		if !r.chunk {
			docs = append(docs, doc)
			continue
		}

		chunks, err := r.chunkingStrategy.Chunk(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk page %d of %s: %w", pageIndex, name, err)
		}
		docs = append(docs, chunks...)
	}

	return docs, nil
}

// trimLineEndings removes trailing whitespace from every line of extracted
// text.
func trimLineEndings(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// extractFileNameFromURL extracts a file name from a URL.
func extractFileNameFromURL(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) > 0 {
		fileName := parts[len(parts)-1]
		// Remove query parameters and fragments.
		if idx := strings.Index(fileName, "?"); idx != -1 {
			fileName = fileName[:idx]
		}
		if idx := strings.Index(fileName, "#"); idx != -1 {
			fileName = fileName[:idx]
		}
		fileName = strings.TrimSuffix(fileName, ".pdf")
		if fileName != "" {
			return fileName
		}
	}
	return "pdf_document"
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "PDFReader"
}

// SupportedExtensions returns the file extensions this reader supports.
func (r *Reader) SupportedExtensions() []string {
	return supportedExtensions
}
