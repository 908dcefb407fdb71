//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package reader

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencontratos/contratos-kb/knowledge/chunking"
	"github.com/opencontratos/contratos-kb/knowledge/document"
)

// fakeReader is a minimal Reader implementation for registry tests.
type fakeReader struct {
	name string
	cfg  Config
}

func (f *fakeReader) ReadFromReader(name string, r io.Reader) ([]*document.Document, error) {
	return nil, nil
}

func (f *fakeReader) ReadFromFile(filePath string) ([]*document.Document, error) {
	return nil, nil
}

func (f *fakeReader) ReadFromURL(url string) ([]*document.Document, error) {
	return nil, nil
}

func (f *fakeReader) Name() string { return f.name }

func (f *fakeReader) SupportedExtensions() []string { return []string{".fake"} }

func newFakeBuilder(name string) Builder {
	return func(opts ...Option) Reader {
		cfg := Config{}
		for _, opt := range opts {
			opt(&cfg)
		}
		return &fakeReader{name: name, cfg: cfg}
	}
}

func TestRegisterAndGetReader(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	RegisterReader([]string{".PDF", ".txt"}, newFakeBuilder("fake"))

	r, ok := GetReader(".pdf")
	require.True(t, ok)
	assert.Equal(t, "fake", r.Name())

	// Lookup normalizes case.
	_, ok = GetReader(".TXT")
	assert.True(t, ok)

	_, ok = GetReader(".docx")
	assert.False(t, ok)
}

func TestGetReaderAppliesOptions(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	RegisterReader([]string{".fake"}, newFakeBuilder("fake"))

	r, ok := GetReader(".fake", WithChunkMaxChars(1200), WithChunkOverlapSegments(2))
	require.True(t, ok)

	fake := r.(*fakeReader)
	assert.True(t, fake.cfg.Chunk)
	assert.Equal(t, 1200, fake.cfg.ChunkMaxChars)
	assert.Equal(t, 2, fake.cfg.ChunkOverlapSegments)
}

func TestGetAllReaders(t *testing.T) {
	ClearRegistry()
	defer ClearRegistry()

	RegisterReader([]string{".txt", ".text"}, newFakeBuilder("text"))
	RegisterReader([]string{".pdf"}, newFakeBuilder("pdf"))

	readers := GetAllReaders()
	require.Len(t, readers, 2)
	assert.Contains(t, readers, "text")
	assert.Contains(t, readers, "pdf")

	exts := GetRegisteredExtensions()
	assert.Len(t, exts, 3)
}

func TestBuildChunkingStrategy(t *testing.T) {
	custom, err := chunking.NewClauseChunking(chunking.WithMaxChars(100))
	require.NoError(t, err)

	cfg := &Config{CustomChunkingStrategy: custom}
	got := BuildChunkingStrategy(cfg, func(maxChars, minChars, overlap int) chunking.Strategy {
		t.Fatal("default builder must not be called when a custom strategy is set")
		return nil
	})
	assert.Same(t, custom, got)

	cfg = &Config{ChunkMaxChars: 900, ChunkMinChars: 300, ChunkOverlapSegments: 2}
	got = BuildChunkingStrategy(cfg, func(maxChars, minChars, overlap int) chunking.Strategy {
		assert.Equal(t, 900, maxChars)
		assert.Equal(t, 300, minChars)
		assert.Equal(t, 2, overlap)
		strategy, buildErr := chunking.NewClauseChunking(
			chunking.WithMaxChars(maxChars),
			chunking.WithMinChars(minChars),
			chunking.WithOverlapSegments(overlap),
		)
		require.NoError(t, buildErr)
		return strategy
	})
	require.NotNil(t, got)
}
