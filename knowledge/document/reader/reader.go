//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package reader defines the interface for document readers.
// This interface allows reading from any io.Reader source, such as files or HTTP responses.
package reader

import (
	"io"

	"github.com/opencontratos/contratos-kb/knowledge/chunking"
	"github.com/opencontratos/contratos-kb/knowledge/document"
)

// Config holds configuration for readers.
type Config struct {
	Chunk                  bool
	ChunkMaxChars          int
	ChunkMinChars          int
	ChunkOverlapSegments   int
	CustomChunkingStrategy chunking.Strategy
}

// Option is a functional option for configuring readers.
type Option func(*Config)

// WithChunk enables or disables document chunking.
func WithChunk(enabled bool) Option {
	return func(c *Config) {
		c.Chunk = enabled
	}
}

// WithChunkMaxChars sets the soft maximum chunk size in characters.
// This will be passed to the reader's default chunking strategy builder.
func WithChunkMaxChars(maxChars int) Option {
	return func(c *Config) {
		c.ChunkMaxChars = maxChars
		c.Chunk = true
	}
}

// WithChunkMinChars sets the minimum trailing chunk size before merging.
// This will be passed to the reader's default chunking strategy builder.
func WithChunkMinChars(minChars int) Option {
	return func(c *Config) {
		c.ChunkMinChars = minChars
		c.Chunk = true
	}
}

// WithChunkOverlapSegments sets the segment overlap between consecutive
// chunks. This will be passed to the reader's default chunking strategy
// builder.
func WithChunkOverlapSegments(overlap int) Option {
	return func(c *Config) {
		c.ChunkOverlapSegments = overlap
		c.Chunk = true
	}
}

// WithCustomChunkingStrategy sets a custom chunking strategy, overriding the reader's default.
// Use this when you need full control over the chunking behavior.
func WithCustomChunkingStrategy(strategy chunking.Strategy) Option {
	return func(c *Config) {
		c.CustomChunkingStrategy = strategy
		c.Chunk = true
	}
}

// BuildChunkingStrategy builds a chunking strategy from config.
// If a custom strategy is set, it returns that.
// Otherwise, it calls the provided default builder with the configured
// chunking parameters.
func BuildChunkingStrategy(config *Config, defaultBuilder func(maxChars, minChars, overlap int) chunking.Strategy) chunking.Strategy {
	if config.CustomChunkingStrategy != nil {
		return config.CustomChunkingStrategy
	}
	return defaultBuilder(config.ChunkMaxChars, config.ChunkMinChars, config.ChunkOverlapSegments)
}

// Reader interface for different document readers.
type Reader interface {
	// ReadFromReader reads content from an io.Reader and returns a list of documents.
	// The name parameter is used to identify the source (e.g., filename, URL).
	ReadFromReader(name string, r io.Reader) ([]*document.Document, error)

	// ReadFromFile reads content from a file path and returns a list of documents.
	ReadFromFile(filePath string) ([]*document.Document, error)

	// ReadFromURL reads content from a URL and returns a list of documents.
	ReadFromURL(url string) ([]*document.Document, error)

	// Name returns the name of this reader.
	Name() string

	// SupportedExtensions returns the file extensions this reader supports.
	// Extensions should include the dot prefix (e.g., ".pdf", ".txt").
	SupportedExtensions() []string
}
