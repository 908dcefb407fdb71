//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package contracts

import (
	"regexp"
	"strings"
)

// UnknownContractID is the fallback used when no stable identifier could be
// extracted from the detail page.
const UnknownContractID = "unknown"

// unsafeFilenameRegexp matches runs of characters not allowed in filenames.
var unsafeFilenameRegexp = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Record represents what we know about a contract right after scraping.
type Record struct {
	// ContractID is the stable contract identifier (expediente).
	ContractID string `json:"contract_id"`
	// DetailURL is the contract detail page on the public portal.
	DetailURL string `json:"detail_url"`
	// MetadataRaw holds the HTML metadata exactly as extracted.
	MetadataRaw MetadataRaw `json:"metadata_raw"`
	// Metadata holds the normalized, typed metadata.
	Metadata Metadata `json:"metadata"`
	// PDFs maps pliego type (pliego_admin, pliego_tecnico) to the local
	// file path of the downloaded PDF.
	PDFs map[string]string `json:"pdfs"`
}

// NewRecord builds a record from scraped metadata, normalizing the contract
// ID.
func NewRecord(detailURL string, raw MetadataRaw, pdfs map[string]string) *Record {
	md := MetadataFromRaw(raw)
	if pdfs == nil {
		pdfs = map[string]string{}
	}
	return &Record{
		ContractID:  NormalizeContractID(md.ContractID),
		DetailURL:   detailURL,
		MetadataRaw: raw,
		Metadata:    md,
		PDFs:        pdfs,
	}
}

// NormalizeContractID trims the identifier and falls back to "unknown" when
// empty.
func NormalizeContractID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return UnknownContractID
	}
	return id
}

// SafeFilename cleans a string so it can be used as a file or directory
// name. Empty or fully-unsafe input maps to "unknown".
func SafeFilename(name string) string {
	if name == "" {
		return UnknownContractID
	}
	clean := unsafeFilenameRegexp.ReplaceAllString(name, "_")
	clean = strings.Trim(clean, "_")
	if clean == "" {
		return UnknownContractID
	}
	return clean
}
