//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package qdrant

import (
	"context"

	"github.com/qdrant/go-client/qdrant"
)

// Client defines the interface for Qdrant client operations.
// This allows for mocking in tests.
type Client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error
	Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Get(ctx context.Context, req *qdrant.GetPoints) ([]*qdrant.RetrievedPoint, error)
	Count(ctx context.Context, req *qdrant.CountPoints) (uint64, error)
	Close() error
}

// NewClient creates a new Qdrant client.
// The returned *qdrant.Client implements the Client interface.
func NewClient(config *qdrant.Config) (Client, error) {
	return qdrant.NewClient(config)
}
