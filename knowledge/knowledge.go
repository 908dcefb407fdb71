//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package knowledge wires the embedder and the vector store into the
// vectorization pipeline that turns kb_chunks.jsonl into an indexed
// collection.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencontratos/contratos-kb/knowledge/corpus"
	"github.com/opencontratos/contratos-kb/knowledge/document"
	"github.com/opencontratos/contratos-kb/knowledge/embedder"
	"github.com/opencontratos/contratos-kb/knowledge/vectorstore"
	"github.com/opencontratos/contratos-kb/log"
)

// DefaultBatchSize is the number of chunks embedded and upserted per batch.
const DefaultBatchSize = 32

var (
	errEmbedderRequired    = errors.New("embedder is required")
	errVectorStoreRequired = errors.New("vector store is required")
)

// Vectorizer embeds knowledge base chunks and upserts them into the vector
// store in batches.
type Vectorizer struct {
	embedder    embedder.Embedder
	vectorStore vectorstore.VectorStore
	batchSize   int
	dimension   int
}

// Option represents a functional option for configuring the Vectorizer.
type Option func(*Vectorizer)

// WithEmbedder sets the embedder used to vectorize chunk text.
func WithEmbedder(e embedder.Embedder) Option {
	return func(v *Vectorizer) {
		v.embedder = e
	}
}

// WithVectorStore sets the vector store receiving the embedded chunks.
func WithVectorStore(vs vectorstore.VectorStore) Option {
	return func(v *Vectorizer) {
		v.vectorStore = vs
	}
}

// WithBatchSize sets how many chunks are buffered per upsert batch.
func WithBatchSize(n int) Option {
	return func(v *Vectorizer) {
		if n > 0 {
			v.batchSize = n
		}
	}
}

// WithExpectedDimension overrides the vector dimension every embedding is
// verified against. Defaults to the embedder's reported dimension.
func WithExpectedDimension(dim int) Option {
	return func(v *Vectorizer) {
		if dim > 0 {
			v.dimension = dim
		}
	}
}

// NewVectorizer creates a vectorizer from the given options. An embedder and
// a vector store are required.
func NewVectorizer(opts ...Option) (*Vectorizer, error) {
	v := &Vectorizer{
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.embedder == nil {
		return nil, errEmbedderRequired
	}
	if v.vectorStore == nil {
		return nil, errVectorStoreRequired
	}
	if v.dimension == 0 {
		v.dimension = v.embedder.GetDimensions()
	}
	return v, nil
}

// Stats summarizes one vectorization run.
type Stats struct {
	// Embedded is the number of chunks embedded and upserted.
	Embedded int
	// Skipped is the number of chunks filtered out by contract selection.
	Skipped int
	// StoreCount is the collection size reported by the store afterwards.
	StoreCount int
}

// chunkContractID extracts the contract id from a chunk id such as
// EXP-001::pliego_admin::p003::c001.
func chunkContractID(id string) string {
	if idx := strings.Index(id, "::"); idx >= 0 {
		return id[:idx]
	}
	return id
}

// SelectFirstContracts returns the first n distinct contract ids appearing
// in the KB file, in file order. n <= 0 selects nothing; selecting nothing
// means VectorizeKB processes every chunk.
func SelectFirstContracts(kbPath string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	records, err := corpus.ReadKB(kbPath)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, n)
	var selected []string
	for _, record := range records {
		contractID := chunkContractID(record.ID)
		if _, ok := seen[contractID]; ok {
			continue
		}
		seen[contractID] = struct{}{}
		selected = append(selected, contractID)
		if len(selected) == n {
			break
		}
	}
	return selected, nil
}

// VectorizeKB embeds every selected chunk in the KB file and upserts the
// batches into the vector store. A nil or empty selection processes all
// chunks. Embedding dimension mismatches abort the run.
func (v *Vectorizer) VectorizeKB(ctx context.Context, kbPath string, selected []string) (*Stats, error) {
	records, err := corpus.ReadKB(kbPath)
	if err != nil {
		return nil, err
	}

	var wanted map[string]struct{}
	if len(selected) > 0 {
		wanted = make(map[string]struct{}, len(selected))
		for _, contractID := range selected {
			wanted[contractID] = struct{}{}
		}
	}

	stats := &Stats{}
	docs := make([]*document.Document, 0, v.batchSize)
	embeddings := make([][]float64, 0, v.batchSize)

	flush := func() error {
		if len(docs) == 0 {
			return nil
		}
		if err := v.vectorStore.AddBatch(ctx, docs, embeddings); err != nil {
			return fmt.Errorf("upsert batch of %d: %w", len(docs), err)
		}
		stats.Embedded += len(docs)
		log.Debugf("upserted batch of %d chunks (total %d)", len(docs), stats.Embedded)
		docs = docs[:0]
		embeddings = embeddings[:0]
		return nil
	}

	for _, record := range records {
		if wanted != nil {
			if _, ok := wanted[chunkContractID(record.ID)]; !ok {
				stats.Skipped++
				continue
			}
		}

		embedding, err := v.embedder.GetEmbedding(ctx, record.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %q: %w", record.ID, err)
		}
		if len(embedding) != v.dimension {
			return nil, fmt.Errorf("embed chunk %q: got dimension %d, want %d",
				record.ID, len(embedding), v.dimension)
		}

		now := time.Now()
		docs = append(docs, &document.Document{
			ID:        record.ID,
			Name:      record.ID,
			Content:   record.Text,
			Metadata:  record.Payload,
			CreatedAt: now,
			UpdatedAt: now,
		})
		embeddings = append(embeddings, embedding)

		if len(docs) >= v.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	count, err := v.vectorStore.Count(ctx)
	if err != nil {
		log.Warnf("count after vectorization failed: %v", err)
	} else {
		stats.StoreCount = count
		if count < stats.Embedded {
			log.Warnf("store reports %d points but %d chunks were upserted", count, stats.Embedded)
		}
	}

	log.Infof("vectorization done: embedded=%d skipped=%d store_count=%d",
		stats.Embedded, stats.Skipped, stats.StoreCount)
	return stats, nil
}
