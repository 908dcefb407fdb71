//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package chunking provides document chunking strategies and utilities.
//
// The core of the package is a clause-aware chunker for legal prose: raw page
// text is first split into logical segments (paragraphs and clause-headed
// blocks), and segments are then greedily packed into bounded-size chunks
// with a configurable segment overlap between consecutive chunks.
package chunking

import (
	"errors"
	"fmt"

	"github.com/opencontratos/contratos-kb/knowledge/document"
)

// segmentSeparator joins segments inside a chunk. A chunk is always the
// segment texts joined by exactly one blank line.
const segmentSeparator = "\n\n"

// Default chunking parameters, tuned for embedding-sized chunks of
// procurement documents.
const (
	defaultMaxChars        = 1500
	defaultMinChars        = 400
	defaultOverlapSegments = 1
)

// Sentinel errors returned by chunking strategies.
var (
	// ErrNilDocument is returned when a nil document is passed to a strategy.
	ErrNilDocument = errors.New("chunking: document is nil")
	// ErrEmptyDocument is returned when the document has no content.
	ErrEmptyDocument = errors.New("chunking: document is empty")
	// ErrInvalidConfig is returned when chunking parameters are out of range.
	ErrInvalidConfig = errors.New("chunking: invalid config")
)

// Strategy defines the interface for document chunking strategies.
type Strategy interface {
	// Chunk splits a document into smaller documents.
	Chunk(doc *document.Document) ([]*document.Document, error)
}

// Metadata keys attached to chunk documents.
const (
	// MetaChunkIndex is the 1-based position of the chunk within its source.
	MetaChunkIndex = "chunk_index"
	// MetaChunkSize is the chunk length in characters (runes).
	MetaChunkSize = "chunk_size"
)

// Config holds the parameters of the clause-aware chunker. The zero value is
// not usable; obtain one from DefaultConfig or NewConfig.
type Config struct {
	// MaxChars is the soft upper bound on a chunk's character length.
	// A single segment longer than MaxChars still becomes its own chunk.
	MaxChars int

	// MinChars is the lower bound on the final chunk's character length.
	// A trailing chunk shorter than MinChars is merged into its predecessor
	// (once, never reapplied to the merged result).
	MinChars int

	// OverlapSegments is the number of trailing segments of a closed chunk
	// that are carried over into the start of the next chunk.
	OverlapSegments int
}

// DefaultConfig returns the default chunking configuration.
func DefaultConfig() Config {
	return Config{
		MaxChars:        defaultMaxChars,
		MinChars:        defaultMinChars,
		OverlapSegments: defaultOverlapSegments,
	}
}

// NewConfig builds a validated Config.
func NewConfig(maxChars, minChars, overlapSegments int) (Config, error) {
	cfg := Config{
		MaxChars:        maxChars,
		MinChars:        minChars,
		OverlapSegments: overlapSegments,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration ranges. The packing functions themselves
// do not validate; callers are expected to construct configs through
// NewConfig or validate once up front.
func (c Config) Validate() error {
	if c.MaxChars <= 0 {
		return fmt.Errorf("%w: max chars must be positive, got %d", ErrInvalidConfig, c.MaxChars)
	}
	if c.MinChars < 0 {
		return fmt.Errorf("%w: min chars cannot be negative, got %d", ErrInvalidConfig, c.MinChars)
	}
	if c.OverlapSegments < 0 {
		return fmt.Errorf("%w: overlap segments cannot be negative, got %d", ErrInvalidConfig, c.OverlapSegments)
	}
	return nil
}
