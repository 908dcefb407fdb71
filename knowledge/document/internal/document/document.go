//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package document builds the per-page documents emitted by file readers.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/opencontratos/contratos-kb/knowledge/document"
)

// NewPage builds the document for a single page of a source. IDs are
// deterministic so re-reading the same source yields the same documents.
// The metadata map is allocated empty for the reader to fill.
func NewPage(name, content string, pageNumber int) *document.Document {
	now := time.Now().UTC()
	return &document.Document{
		ID:        PageID(name, content, pageNumber),
		Name:      name,
		Content:   content,
		Metadata:  make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PageID derives the page document ID from the source name. Unnamed sources
// fall back to a hash of the page content so their IDs stay distinct.
func PageID(name, content string, pageNumber int) string {
	base := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if base == "" {
		sum := sha256.Sum256([]byte(content))
		base = hex.EncodeToString(sum[:8])
	}
	return fmt.Sprintf("%s_p%03d", base, pageNumber)
}
