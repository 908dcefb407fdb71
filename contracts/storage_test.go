//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package contracts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"A-SUM-048553/2025", "A-SUM-048553_2025"},
		{"EXP 2025/001 (lote 2)", "EXP_2025_001_lote_2"},
		{"simple-id_1.2", "simple-id_1.2"},
		{"///", "unknown"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, SafeFilename(tc.input))
		})
	}
}

func TestNormalizeContractID(t *testing.T) {
	assert.Equal(t, "A-1", NormalizeContractID("  A-1  "))
	assert.Equal(t, UnknownContractID, NormalizeContractID("   "))
	assert.Equal(t, UnknownContractID, NormalizeContractID(""))
}

func TestNewRecord(t *testing.T) {
	raw := MetadataRaw{LabelContractID: " A-SUM-1/2025 "}

	rec := NewRecord("https://example.com/contrato-publico/a-sum-1", raw, nil)

	assert.Equal(t, "A-SUM-1/2025", rec.ContractID)
	assert.Equal(t, "https://example.com/contrato-publico/a-sum-1", rec.DetailURL)
	assert.NotNil(t, rec.PDFs)
	assert.Equal(t, raw, rec.MetadataRaw)
}

func TestSaveMetadataAndVerify(t *testing.T) {
	root := t.TempDir()

	pdfPath := filepath.Join(root, "existing.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))

	rec := NewRecord("https://example.com/detalle", MetadataRaw{
		LabelContractID: "A-SUM-048553/2025",
		LabelObject:     "Suministro eléctrico",
	}, map[string]string{
		"pliego_admin":   pdfPath,
		"pliego_tecnico": filepath.Join(root, "missing.pdf"),
	})

	path, err := SaveMetadata(root, rec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "A-SUM-048553_2025", MetadataFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var stored map[string]string
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "Suministro eléctrico", stored[LabelObject])

	statuses := VerifyPDFs(rec)
	assert.True(t, statuses["pliego_admin"])
	assert.False(t, statuses["pliego_tecnico"])
}

func TestSaveRecord(t *testing.T) {
	root := t.TempDir()
	rec := NewRecord("https://example.com/detalle", MetadataRaw{LabelContractID: "X/1"}, nil)

	require.NoError(t, SaveRecord(root, rec))

	_, err := os.Stat(filepath.Join(root, "X_1", MetadataFilename))
	assert.NoError(t, err)
}
