//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package embedder provides interfaces for converting text to vector
// embeddings.
package embedder

import "context"

// Embedder converts text into vector embeddings.
type Embedder interface {
	// GetEmbedding generates an embedding vector for the given text.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)

	// GetEmbeddingWithUsage generates an embedding vector for the given text
	// and returns provider usage information (token counts) when available.
	GetEmbeddingWithUsage(ctx context.Context, text string) ([]float64, map[string]any, error)

	// GetDimensions returns the number of dimensions in the embedding
	// vectors produced by this embedder.
	GetDimensions() int
}
