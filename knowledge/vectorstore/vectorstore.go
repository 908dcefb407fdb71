//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package vectorstore defines the interface for embedding storage backends.
package vectorstore

import (
	"context"

	"github.com/opencontratos/contratos-kb/knowledge/document"
)

// VectorStore stores documents together with their embedding vectors.
type VectorStore interface {
	// Add stores a document with its embedding vector. Adding an existing
	// ID overwrites the stored document.
	Add(ctx context.Context, doc *document.Document, embedding []float64) error

	// AddBatch stores multiple documents with their embedding vectors in a
	// single operation. More efficient than calling Add repeatedly for bulk
	// imports.
	AddBatch(ctx context.Context, docs []*document.Document, embeddings [][]float64) error

	// Get retrieves a document and its embedding by the original document ID.
	Get(ctx context.Context, id string) (*document.Document, []float64, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}
