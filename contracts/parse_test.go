//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package contracts

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"euros with thousands", "235.122,56 euros", "235122.56", true},
		{"uppercase euros", "1.000,00 Euros", "1000", true},
		{"no decimals", "500 euros", "500", true},
		{"plain number", "42,50", "42.5", true},
		{"non-breaking space", "1.234,00 euros", "1234", true},
		{"empty", "", "", false},
		{"garbage", "consultar pliego", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseAmount(tc.input)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
					"got %s want %s", got, tc.want)
			}
		})
	}
}

func TestParseDurationMonths(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"2 meses", 2, true},
		{"24 meses prorrogables", 24, true},
		{"1 año", 1, true},
		{"sin determinar", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseDurationMonths(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDeadline(t *testing.T) {
	got, ok := ParseDeadline("27 de octubre del 2025 18:00")
	require.True(t, ok)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.October, got.Month())
	assert.Equal(t, 27, got.Day())
	assert.Equal(t, 18, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, "Europe/Madrid", got.Location().String())

	// "de" instead of "del", no time part.
	got, ok = ParseDeadline("3 de enero de 2026")
	require.True(t, ok)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 3, got.Day())
	assert.Equal(t, 0, got.Hour())

	// Case insensitive month.
	_, ok = ParseDeadline("15 de Diciembre del 2025 09:30")
	assert.True(t, ok)

	_, ok = ParseDeadline("mañana")
	assert.False(t, ok)
	_, ok = ParseDeadline("")
	assert.False(t, ok)
	_, ok = ParseDeadline("10 de brumario del 2025")
	assert.False(t, ok)
}

func TestMetadataFromRaw(t *testing.T) {
	raw := MetadataRaw{
		LabelContractID:     "A-SUM-048553/2025",
		LabelReference:      "REF-123",
		LabelObject:         "Suministro de material sanitario",
		LabelContractType:   "Suministros",
		LabelCPVCode:        "33140000",
		LabelHarmonized:     "Sí",
		LabelNUTSCode:       "ES300",
		LabelEstimatedValue: "235.122,56 euros",
		LabelBudgetBase:     "200.000,00 euros",
		LabelBudgetTotal:    "242.000,00 euros",
		LabelDuration:       "24 meses",
		LabelDeadline:       "27 de octubre del 2025 18:00",
	}

	md := MetadataFromRaw(raw)

	assert.Equal(t, "A-SUM-048553/2025", md.ContractID)
	assert.Equal(t, "REF-123", md.Reference)
	assert.Equal(t, "Suministro de material sanitario", md.ObjectDescription)
	assert.Equal(t, "Suministros", md.ContractType)
	assert.Equal(t, "33140000", md.CPVCode)
	assert.True(t, md.Harmonized)
	assert.Equal(t, "ES300", md.NUTSCode)

	require.NotNil(t, md.EstimatedValueEUR)
	assert.True(t, md.EstimatedValueEUR.Equal(decimal.RequireFromString("235122.56")))
	require.NotNil(t, md.BudgetBaseEUR)
	assert.True(t, md.BudgetBaseEUR.Equal(decimal.RequireFromString("200000")))
	require.NotNil(t, md.BudgetTotalEUR)
	assert.True(t, md.BudgetTotalEUR.Equal(decimal.RequireFromString("242000")))

	require.NotNil(t, md.DurationMonths)
	assert.Equal(t, 24, *md.DurationMonths)

	require.NotNil(t, md.Deadline)
	assert.Equal(t, 2025, md.Deadline.Year())
}

func TestMetadataFromRawMissingFields(t *testing.T) {
	md := MetadataFromRaw(MetadataRaw{LabelHarmonized: "No"})

	assert.Empty(t, md.ContractID)
	assert.False(t, md.Harmonized)
	assert.Nil(t, md.EstimatedValueEUR)
	assert.Nil(t, md.DurationMonths)
	assert.Nil(t, md.Deadline)
}
