//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package qdrant provides a Qdrant-based implementation of the VectorStore interface.
package qdrant

import (
	"context"
	"errors"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/opencontratos/contratos-kb/knowledge/document"
	"github.com/opencontratos/contratos-kb/knowledge/vectorstore"
)

var _ vectorstore.VectorStore = (*VectorStore)(nil)

// VectorStore implements vectorstore.VectorStore using Qdrant.
type VectorStore struct {
	client     Client
	ownsClient bool
	opts       options
}

// New creates a new Qdrant VectorStore and ensures the target collection
// exists.
func New(ctx context.Context, opts ...Option) (*VectorStore, error) {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	ownsClient := false
	if client == nil {
		config := &qdrant.Config{
			Host: o.host,
			Port: o.port,
		}
		if o.apiKey != "" {
			config.APIKey = o.apiKey
		}
		if o.useTLS {
			config.UseTLS = true
		}

		var err error
		client, err = NewClient(config)
		if err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
		ownsClient = true
	}

	vs := &VectorStore{
		client:     client,
		ownsClient: ownsClient,
		opts:       o,
	}

	if err := vs.ensureCollection(ctx); err != nil {
		if ownsClient {
			_ = client.Close()
		}
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) ensureCollection(ctx context.Context) error {
	exists, err := retry(ctx, vs.opts, func() (bool, error) {
		return vs.client.CollectionExists(ctx, vs.opts.collectionName)
	})
	if err != nil {
		return fmt.Errorf("check collection %q exists: %w", vs.opts.collectionName, err)
	}
	if exists {
		return nil
	}

	vectorsConfig := qdrant.NewVectorsConfig(&qdrant.VectorParams{
		Size:     uint64(vs.opts.dimension),
		Distance: vs.opts.distance,
	})

	if vs.opts.onDiskVectors {
		vectorsConfig.GetParams().OnDisk = qdrant.PtrOf(true)
	}

	err = retryVoid(ctx, vs.opts, func() error {
		return vs.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: vs.opts.collectionName,
			VectorsConfig:  vectorsConfig,
			OnDiskPayload:  qdrant.PtrOf(vs.opts.onDiskPayload),
			HnswConfig: &qdrant.HnswConfigDiff{
				M:           qdrant.PtrOf(uint64(vs.opts.hnswM)),
				EfConstruct: qdrant.PtrOf(uint64(vs.opts.hnswEfConstruct)),
			},
		})
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", vs.opts.collectionName, err)
	}
	return nil
}

// Add stores a document with its embedding vector.
func (vs *VectorStore) Add(ctx context.Context, doc *document.Document, embedding []float64) error {
	if doc == nil {
		return errDocumentRequired
	}
	if doc.ID == "" {
		return errDocumentIDRequired
	}
	if err := vs.validateEmbedding(embedding); err != nil {
		return err
	}

	err := retryVoid(ctx, vs.opts, func() error {
		_, err := vs.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: vs.opts.collectionName,
			Points:         []*qdrant.PointStruct{toPoint(doc, embedding)},
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("add document %q to %q: %w", doc.ID, vs.opts.collectionName, err)
	}
	return nil
}

// AddBatch stores multiple documents with their embedding vectors in a single operation.
// This is more efficient than calling Add() multiple times for bulk imports.
func (vs *VectorStore) AddBatch(ctx context.Context, docs []*document.Document, embeddings [][]float64) error {
	if len(docs) == 0 {
		return nil
	}
	if len(docs) != len(embeddings) {
		return fmt.Errorf("%w: documents count (%d) must match embeddings count (%d)",
			ErrInvalidInput, len(docs), len(embeddings))
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for i, doc := range docs {
		if doc == nil {
			return fmt.Errorf("%w: document at index %d is nil", ErrInvalidInput, i)
		}
		if doc.ID == "" {
			return fmt.Errorf("%w: document at index %d has empty ID", ErrInvalidInput, i)
		}
		if err := vs.validateEmbedding(embeddings[i]); err != nil {
			return fmt.Errorf("document %q at index %d: %w", doc.ID, i, err)
		}
		points = append(points, toPoint(doc, embeddings[i]))
	}

	err := retryVoid(ctx, vs.opts, func() error {
		_, err := vs.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: vs.opts.collectionName,
			Points:         points,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("add batch of %d documents to %q: %w", len(docs), vs.opts.collectionName, err)
	}
	return nil
}

// Get retrieves a document by its original ID.
func (vs *VectorStore) Get(ctx context.Context, id string) (*document.Document, []float64, error) {
	if id == "" {
		return nil, nil, errIDRequired
	}

	points, err := retry(ctx, vs.opts, func() ([]*qdrant.RetrievedPoint, error) {
		return vs.client.Get(ctx, &qdrant.GetPoints{
			CollectionName: vs.opts.collectionName,
			Ids:            []*qdrant.PointId{qdrant.NewID(idToUUID(id))},
			WithPayload:    qdrant.NewWithPayload(true),
			WithVectors:    qdrant.NewWithVectors(true),
		})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get document %q from %q: %w", id, vs.opts.collectionName, err)
	}
	if len(points) == 0 {
		return nil, nil, ErrNotFound
	}

	pt := points[0]
	return payloadToDocument(pt.Id, pt.Payload), extractDenseVector(pt.Vectors), nil
}

// Count returns the exact number of stored documents.
func (vs *VectorStore) Count(ctx context.Context) (int, error) {
	count, err := retry(ctx, vs.opts, func() (uint64, error) {
		return vs.client.Count(ctx, &qdrant.CountPoints{
			CollectionName: vs.opts.collectionName,
			Exact:          qdrant.PtrOf(true),
		})
	})
	if err != nil {
		return 0, fmt.Errorf("count documents in %q: %w", vs.opts.collectionName, err)
	}
	return int(count), nil
}

// validateEmbedding checks that the embedding is valid.
func (vs *VectorStore) validateEmbedding(embedding []float64) error {
	if embedding == nil {
		return errEmbeddingRequired
	}
	if len(embedding) != vs.opts.dimension {
		return fmt.Errorf("%w: expected %d dimensions, got %d",
			ErrInvalidInput, vs.opts.dimension, len(embedding))
	}
	return nil
}

// extractDenseVector extracts the dense vector from Qdrant VectorsOutput.
func extractDenseVector(vectors *qdrant.VectorsOutput) []float64 {
	if vectors == nil {
		return nil
	}
	if v, ok := vectors.VectorsOptions.(*qdrant.VectorsOutput_Vector); ok {
		return extractVectorData(v.Vector)
	}
	return nil
}

// Close closes the connection when this store owns it.
func (vs *VectorStore) Close() error {
	if vs.client == nil || !vs.ownsClient {
		return nil
	}
	return vs.client.Close()
}
