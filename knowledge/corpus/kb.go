//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/opencontratos/contratos-kb/knowledge/chunking"
	"github.com/opencontratos/contratos-kb/log"
)

// PageChunk is one clause-aware chunk of a pliego page, ready to be embedded
// and upserted into the vector store.
type PageChunk struct {
	ContractID string
	DocType    string
	PageNumber int
	ChunkIndex int
	Text       string
	Metadata   map[string]any
}

// ID returns the stable chunk identifier, e.g.
// A-SUM-048553_2025::pliego_admin::p003::c001.
func (c *PageChunk) ID() string {
	return fmt.Sprintf("%s::%s::p%03d::c%03d", c.ContractID, c.DocType, c.PageNumber, c.ChunkIndex)
}

// KBRecord is the serialized form of a PageChunk in kb_chunks.jsonl.
type KBRecord struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Payload map[string]any `json:"payload"`
}

// parseRecordID splits a corpus record ID of the form
// <contract>::<doctype>::pNNN into its parts.
func parseRecordID(id string) (contractID, docType string, page int, ok bool) {
	parts := strings.Split(id, "::")
	if len(parts) < 3 {
		return "", "", 0, false
	}
	pagePart := parts[2]
	if !strings.HasPrefix(pagePart, "p") {
		return "", "", 0, false
	}
	page, err := strconv.Atoi(strings.TrimPrefix(pagePart, "p"))
	if err != nil {
		return "", "", 0, false
	}
	return parts[0], parts[1], page, true
}

// PageChunks chunks every corpus page record with the clause-aware strategy
// and returns the resulting chunk records. Records with unparseable IDs are
// logged and skipped. Chunk indexes are zero-based within a page.
func PageChunks(records []*Record, cfg chunking.Config) []*PageChunk {
	var out []*PageChunk
	for _, record := range records {
		contractID, docType, page, ok := parseRecordID(record.ID)
		if !ok {
			log.Warnf("skipping corpus record with unexpected id %q", record.ID)
			continue
		}

		for idx, text := range chunking.ChunkPageText(record.Text, cfg) {
			metadata := make(map[string]any, len(record.Metadata)+2)
			for k, v := range record.Metadata {
				metadata[k] = v
			}
			metadata[chunking.MetaChunkIndex] = idx
			metadata["page_number"] = page

			out = append(out, &PageChunk{
				ContractID: contractID,
				DocType:    docType,
				PageNumber: page,
				ChunkIndex: idx,
				Text:       text,
				Metadata:   metadata,
			})
		}
	}
	return out
}

// WriteKB writes chunk records to a kb_chunks.jsonl file.
func WriteKB(path string, chunks []*PageChunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, chunk := range chunks {
		line, err := json.Marshal(KBRecord{
			ID:      chunk.ID(),
			Text:    chunk.Text,
			Payload: chunk.Metadata,
		})
		if err != nil {
			return fmt.Errorf("marshal chunk %q: %w", chunk.ID(), err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %q: %w", path, err)
	}

	log.Infof("wrote %d kb chunks to %s", len(chunks), path)
	return nil
}

// PrepareKB reads the embeddings corpus, chunks every page with the clause
// config, and writes kb_chunks.jsonl. Returns the number of chunks written.
func PrepareKB(corpusPath, outPath string, cfg chunking.Config) (int, error) {
	records, err := ReadCorpus(corpusPath)
	if err != nil {
		return 0, err
	}
	chunks := PageChunks(records, cfg)
	if err := WriteKB(outPath, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// ReadKB reads a kb_chunks.jsonl file, skipping blank and malformed lines.
func ReadKB(path string) ([]*KBRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var records []*KBRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record KBRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			log.Warnf("%s:%d: skipping malformed line: %v", path, lineNo, err)
			continue
		}
		records = append(records, &record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return records, nil
}
