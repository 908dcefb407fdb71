//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package document defines the document type shared across the knowledge
// pipeline: readers produce documents, chunking strategies split them, and
// the vector store persists them.
package document

import (
	"strings"
	"time"
)

// Document represents a unit of text with associated metadata.
type Document struct {
	// ID is the unique identifier of the document.
	ID string `json:"id"`

	// Name is a human-readable name for the document.
	Name string `json:"name,omitempty"`

	// Content is the text content of the document.
	Content string `json:"content"`

	// Metadata carries arbitrary key-value pairs attached to the document.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is the time the document was created.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the time the document was last updated.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsEmpty reports whether the document has no content after trimming
// whitespace.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Clone returns a deep copy of the document. Metadata is copied so that
// mutations on the clone do not affect the original.
func (d *Document) Clone() *Document {
	clone := *d
	if d.Metadata != nil {
		clone.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}
