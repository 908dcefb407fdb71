//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/opencontratos/contratos-kb/knowledge/document"
)

// BuildChunksFromSegments greedily packs segments into chunks of at most
// cfg.MaxChars characters (counting the two-newline separators between
// segments). When adding a segment would overflow a non-empty buffer, the
// buffer is closed as a chunk and the last cfg.OverlapSegments segments are
// carried over into the next buffer. A segment is always added to an empty
// buffer, so an oversized segment becomes its own chunk rather than being
// split or dropped.
//
// After packing, a trailing chunk shorter than cfg.MinChars is merged into
// its predecessor. The merge runs once; the merged chunk is not re-checked
// against MinChars or MaxChars.
//
// Lengths are character (rune) counts, not byte counts.
func BuildChunksFromSegments(segments []string, cfg Config) []string {
	if len(segments) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	closeChunk := func() {
		text := strings.TrimSpace(strings.Join(current, segmentSeparator))
		if text != "" {
			chunks = append(chunks, text)
		}
	}

	for _, seg := range segments {
		segLen := utf8.RuneCountInString(seg)

		if len(current) > 0 && currentLen+len(segmentSeparator)+segLen > cfg.MaxChars {
			closeChunk()

			// Carry the tail of the closed buffer into the next one. If the
			// buffer holds fewer segments than the configured overlap, the
			// whole buffer is reused.
			carry := min(cfg.OverlapSegments, len(current))
			next := make([]string, 0, carry+1)
			next = append(next, current[len(current)-carry:]...)
			next = append(next, seg)

			current = next
			currentLen = joinedLength(current)
			continue
		}

		current = append(current, seg)
		if len(current) == 1 {
			currentLen = segLen
		} else {
			currentLen += len(segmentSeparator) + segLen
		}
	}

	closeChunk()

	// Merge an undersized trailing chunk into its predecessor. One shot: the
	// result is deliberately not re-checked, preserving chunk-count semantics
	// downstream consumers rely on.
	if len(chunks) >= 2 && utf8.RuneCountInString(chunks[len(chunks)-1]) < cfg.MinChars {
		chunks[len(chunks)-2] = chunks[len(chunks)-2] + segmentSeparator + chunks[len(chunks)-1]
		chunks = chunks[:len(chunks)-1]
	}

	return chunks
}

// joinedLength returns the character length of segments joined by the
// segment separator.
func joinedLength(segments []string) int {
	n := 0
	for i, s := range segments {
		if i > 0 {
			n += len(segmentSeparator)
		}
		n += utf8.RuneCountInString(s)
	}
	return n
}

// ChunkPageText applies the full chunking strategy to a single page of text:
// split into logical segments, then pack into bounded-size chunks. It is a
// pure function; identical input and config always produce identical output.
func ChunkPageText(pageText string, cfg Config) []string {
	return ChunkPageTextFunc(pageText, cfg, DefaultHeadingMatcher)
}

// ChunkPageTextFunc is ChunkPageText with a custom heading matcher.
func ChunkPageTextFunc(pageText string, cfg Config, isHeading HeadingMatcher) []string {
	segments := SplitIntoSegmentsFunc(pageText, isHeading)
	if len(segments) == 0 {
		return nil
	}
	return BuildChunksFromSegments(segments, cfg)
}

// ClauseChunking implements a chunking strategy that respects paragraph and
// clause-heading boundaries of legal documents.
type ClauseChunking struct {
	cfg       Config
	isHeading HeadingMatcher
}

// ClauseOption represents a functional option for configuring ClauseChunking.
type ClauseOption func(*ClauseChunking)

// WithMaxChars sets the soft maximum chunk size in characters.
func WithMaxChars(maxChars int) ClauseOption {
	return func(c *ClauseChunking) {
		c.cfg.MaxChars = maxChars
	}
}

// WithMinChars sets the minimum trailing chunk size before merging.
func WithMinChars(minChars int) ClauseOption {
	return func(c *ClauseChunking) {
		c.cfg.MinChars = minChars
	}
}

// WithOverlapSegments sets the number of segments echoed into the next chunk.
func WithOverlapSegments(overlap int) ClauseOption {
	return func(c *ClauseChunking) {
		c.cfg.OverlapSegments = overlap
	}
}

// WithHeadingMatcher replaces the segment-boundary predicate.
func WithHeadingMatcher(matcher HeadingMatcher) ClauseOption {
	return func(c *ClauseChunking) {
		c.isHeading = matcher
	}
}

// NewClauseChunking creates a clause-aware chunking strategy with options.
// It returns an error if the resulting configuration is out of range.
func NewClauseChunking(opts ...ClauseOption) (*ClauseChunking, error) {
	c := &ClauseChunking{
		cfg:       DefaultConfig(),
		isHeading: DefaultHeadingMatcher,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns the chunker's configuration.
func (c *ClauseChunking) Config() Config {
	return c.cfg
}

// Chunk splits the document into clause-aware chunks.
func (c *ClauseChunking) Chunk(doc *document.Document) ([]*document.Document, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if doc.IsEmpty() {
		return nil, ErrEmptyDocument
	}

	texts := ChunkPageTextFunc(doc.Content, c.cfg, c.isHeading)

	chunks := make([]*document.Document, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, createChunk(doc, text, i+1))
	}
	return chunks, nil
}

// createChunk creates a chunk document carrying the original metadata plus
// chunk-specific keys.
func createChunk(originalDoc *document.Document, content string, chunkNumber int) *document.Document {
	metadata := make(map[string]any, len(originalDoc.Metadata)+2)
	for k, v := range originalDoc.Metadata {
		metadata[k] = v
	}
	metadata[MetaChunkIndex] = chunkNumber
	metadata[MetaChunkSize] = utf8.RuneCountInString(content)

	var chunkID string
	switch {
	case originalDoc.ID != "":
		chunkID = originalDoc.ID + "_" + strconv.Itoa(chunkNumber)
	case originalDoc.Name != "":
		chunkID = originalDoc.Name + "_" + strconv.Itoa(chunkNumber)
	default:
		chunkID = "chunk_" + strconv.Itoa(chunkNumber)
	}

	return &document.Document{
		ID:        chunkID,
		Name:      originalDoc.Name,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

var _ Strategy = (*ClauseChunking)(nil)
