//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package contracts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontratos/contratos-kb/log"
)

// DefaultDataRoot is the default directory for per-contract artifacts.
const DefaultDataRoot = "data/contracts"

// MetadataFilename is the per-contract raw metadata file.
const MetadataFilename = "html_metadata.json"

// ContractDir ensures and returns the directory for a contract's artifacts
// under root.
func ContractDir(root, contractID string) (string, error) {
	dir := filepath.Join(root, SafeFilename(contractID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create contract dir %q: %w", dir, err)
	}
	return dir, nil
}

// SaveMetadata writes the raw HTML metadata to
// <root>/<contract-id>/html_metadata.json and returns the file path.
func SaveMetadata(root string, record *Record) (string, error) {
	dir, err := ContractDir(root, record.ContractID)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, MetadataFilename)
	data, err := json.MarshalIndent(record.MetadataRaw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata for %q: %w", record.ContractID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write metadata for %q: %w", record.ContractID, err)
	}

	log.Infof("stored raw metadata at %s", path)
	return path, nil
}

// VerifyPDFs checks that the PDFs registered in the record exist on disk.
// Missing files are logged and reported as false in the returned map.
func VerifyPDFs(record *Record) map[string]bool {
	statuses := make(map[string]bool, len(record.PDFs))
	for key, path := range record.PDFs {
		info, err := os.Stat(path)
		exists := err == nil && info.Mode().IsRegular()
		statuses[key] = exists
		if !exists {
			log.Warnf("expected PDF not found: %s -> %s", key, path)
		}
	}
	return statuses
}

// SaveRecord is the storage entry point: it ensures the contract directory,
// persists the raw metadata, and verifies the downloaded PDFs.
func SaveRecord(root string, record *Record) error {
	if _, err := SaveMetadata(root, record); err != nil {
		return err
	}
	VerifyPDFs(record)
	return nil
}
