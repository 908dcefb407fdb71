//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package knowledge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencontratos/contratos-kb/knowledge/corpus"
	"github.com/opencontratos/contratos-kb/knowledge/document"
)

// stubEmbedder returns a fixed-dimension vector derived from the text length.
type stubEmbedder struct {
	dim   int
	calls int
	err   error
}

func (s *stubEmbedder) GetEmbedding(_ context.Context, text string) ([]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	vec := make([]float64, s.dim)
	if s.dim > 0 {
		vec[0] = float64(len(text))
	}
	return vec, nil
}

func (s *stubEmbedder) GetEmbeddingWithUsage(ctx context.Context, text string) ([]float64, map[string]any, error) {
	vec, err := s.GetEmbedding(ctx, text)
	return vec, nil, err
}

func (s *stubEmbedder) GetDimensions() int { return s.dim }

// recordingStore captures batches for assertions.
type recordingStore struct {
	batches  [][]*document.Document
	count    int
	countErr error
	addErr   error
}

func (r *recordingStore) Add(ctx context.Context, doc *document.Document, embedding []float64) error {
	return r.AddBatch(ctx, []*document.Document{doc}, [][]float64{embedding})
}

func (r *recordingStore) AddBatch(_ context.Context, docs []*document.Document, _ [][]float64) error {
	if r.addErr != nil {
		return r.addErr
	}
	batch := make([]*document.Document, len(docs))
	copy(batch, docs)
	r.batches = append(r.batches, batch)
	r.count += len(docs)
	return nil
}

func (r *recordingStore) Get(context.Context, string) (*document.Document, []float64, error) {
	return nil, nil, errors.New("not implemented")
}

func (r *recordingStore) Count(context.Context) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.count, nil
}

func (r *recordingStore) Close() error { return nil }

// writeKBFile writes chunks for the given contracts, two chunks each.
func writeKBFile(t *testing.T, contractIDs ...string) string {
	t.Helper()

	var chunks []*corpus.PageChunk
	for _, contractID := range contractIDs {
		for idx := 0; idx < 2; idx++ {
			chunks = append(chunks, &corpus.PageChunk{
				ContractID: contractID,
				DocType:    "pliego_admin",
				PageNumber: 1,
				ChunkIndex: idx,
				Text:       fmt.Sprintf("texto %s %d", contractID, idx),
				Metadata:   map[string]any{"contract_id": contractID},
			})
		}
	}

	path := filepath.Join(t.TempDir(), corpus.DefaultKBFilename)
	require.NoError(t, corpus.WriteKB(path, chunks))
	return path
}

func TestNewVectorizerValidation(t *testing.T) {
	_, err := NewVectorizer(WithVectorStore(&recordingStore{}))
	assert.ErrorIs(t, err, errEmbedderRequired)

	_, err = NewVectorizer(WithEmbedder(&stubEmbedder{dim: 3}))
	assert.ErrorIs(t, err, errVectorStoreRequired)

	v, err := NewVectorizer(WithEmbedder(&stubEmbedder{dim: 3}), WithVectorStore(&recordingStore{}))
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, v.batchSize)
	assert.Equal(t, 3, v.dimension)
}

func TestSelectFirstContracts(t *testing.T) {
	path := writeKBFile(t, "EXP-001", "EXP-002", "EXP-003")

	selected, err := SelectFirstContracts(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXP-001", "EXP-002"}, selected)

	all, err := SelectFirstContracts(path, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXP-001", "EXP-002", "EXP-003"}, all)

	none, err := SelectFirstContracts(path, 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestVectorizeKB(t *testing.T) {
	path := writeKBFile(t, "EXP-001", "EXP-002", "EXP-003")
	store := &recordingStore{}
	emb := &stubEmbedder{dim: 3}

	v, err := NewVectorizer(
		WithEmbedder(emb),
		WithVectorStore(store),
		WithBatchSize(4),
	)
	require.NoError(t, err)

	stats, err := v.VectorizeKB(context.Background(), path, []string{"EXP-001", "EXP-003"})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Embedded)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 4, stats.StoreCount)
	assert.Equal(t, 4, emb.calls)

	// Batch of 4 flushed once, no remainder.
	require.Len(t, store.batches, 1)
	assert.Equal(t, "EXP-001::pliego_admin::p001::c000", store.batches[0][0].ID)
	assert.Equal(t, "EXP-003::pliego_admin::p001::c001", store.batches[0][3].ID)
}

func TestVectorizeKBFlushesRemainder(t *testing.T) {
	path := writeKBFile(t, "EXP-001", "EXP-002", "EXP-003") // 6 chunks
	store := &recordingStore{}

	v, err := NewVectorizer(
		WithEmbedder(&stubEmbedder{dim: 3}),
		WithVectorStore(store),
		WithBatchSize(4),
	)
	require.NoError(t, err)

	stats, err := v.VectorizeKB(context.Background(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Embedded)
	assert.Equal(t, 0, stats.Skipped)
	require.Len(t, store.batches, 2)
	assert.Len(t, store.batches[0], 4)
	assert.Len(t, store.batches[1], 2)
}

func TestVectorizeKBDimensionMismatch(t *testing.T) {
	path := writeKBFile(t, "EXP-001")
	store := &recordingStore{}

	v, err := NewVectorizer(
		WithEmbedder(&stubEmbedder{dim: 3}),
		WithVectorStore(store),
		WithExpectedDimension(8),
	)
	require.NoError(t, err)

	_, err = v.VectorizeKB(context.Background(), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
	assert.Empty(t, store.batches)
}

func TestVectorizeKBEmbedderError(t *testing.T) {
	path := writeKBFile(t, "EXP-001")
	wantErr := errors.New("rate limited")

	v, err := NewVectorizer(
		WithEmbedder(&stubEmbedder{dim: 3, err: wantErr}),
		WithVectorStore(&recordingStore{}),
	)
	require.NoError(t, err)

	_, err = v.VectorizeKB(context.Background(), path, nil)
	assert.ErrorIs(t, err, wantErr)
}

func TestVectorizeKBUpsertError(t *testing.T) {
	path := writeKBFile(t, "EXP-001")
	wantErr := errors.New("qdrant down")

	v, err := NewVectorizer(
		WithEmbedder(&stubEmbedder{dim: 3}),
		WithVectorStore(&recordingStore{addErr: wantErr}),
	)
	require.NoError(t, err)

	_, err = v.VectorizeKB(context.Background(), path, nil)
	assert.ErrorIs(t, err, wantErr)
}

func TestVectorizeKBCountErrorIsNonFatal(t *testing.T) {
	path := writeKBFile(t, "EXP-001")
	store := &recordingStore{countErr: errors.New("count unavailable")}

	v, err := NewVectorizer(WithEmbedder(&stubEmbedder{dim: 3}), WithVectorStore(store))
	require.NoError(t, err)

	stats, err := v.VectorizeKB(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Embedded)
	assert.Equal(t, 0, stats.StoreCount)
}
