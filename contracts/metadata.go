//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package contracts defines the contract records produced by scraping and
// the parsers that normalize Spanish-format field values.
package contracts

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Raw metadata labels as they appear on the contract detail page.
const (
	LabelContractID     = "Número de expediente"
	LabelReference      = "Referencia"
	LabelObject         = "Objeto del contrato"
	LabelContractType   = "Tipo de contrato"
	LabelCPVCode        = "Código CPV"
	LabelHarmonized     = "Sujeto a regulación armonizada"
	LabelNUTSCode       = "Código NUTS"
	LabelEstimatedValue = "Valor estimado sin impuestos"
	LabelBudgetBase     = "Presupuesto base licitación sin impuestos"
	LabelBudgetTotal    = "Presupuesto base licitación. Importe total"
	LabelDuration       = "Duración del contrato"
	LabelDeadline       = "Fecha y hora límite de presentación de ofertas o solicitudes de participación"
)

// MetadataRaw holds metadata exactly as extracted from the detail page HTML,
// keyed by its visible label. Arbitrary labels are preserved for full
// traceability.
type MetadataRaw map[string]string

// Get returns the value for a label, or the empty string when absent.
func (m MetadataRaw) Get(label string) string {
	return m[label]
}

// Metadata is the clean, typed version of the contract metadata, built from
// MetadataRaw. Optional fields are pointers; nil means the label was absent
// or unparseable.
type Metadata struct {
	ContractID        string           `json:"contract_id,omitempty"`
	Reference         string           `json:"reference,omitempty"`
	ObjectDescription string           `json:"object_description,omitempty"`
	ContractType      string           `json:"contract_type,omitempty"`
	CPVCode           string           `json:"cpv_code,omitempty"`
	Harmonized        bool             `json:"harmonized"`
	NUTSCode          string           `json:"nuts_code,omitempty"`
	EstimatedValueEUR *decimal.Decimal `json:"estimated_value_eur,omitempty"`
	BudgetBaseEUR     *decimal.Decimal `json:"budget_base_eur,omitempty"`
	BudgetTotalEUR    *decimal.Decimal `json:"budget_total_eur,omitempty"`
	DurationMonths    *int             `json:"duration_months,omitempty"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
}

// MetadataFromRaw builds canonical metadata from raw label/value pairs.
func MetadataFromRaw(raw MetadataRaw) Metadata {
	harmonized := strings.ToLower(strings.TrimSpace(raw.Get(LabelHarmonized)))

	md := Metadata{
		ContractID:        raw.Get(LabelContractID),
		Reference:         raw.Get(LabelReference),
		ObjectDescription: raw.Get(LabelObject),
		ContractType:      raw.Get(LabelContractType),
		CPVCode:           raw.Get(LabelCPVCode),
		Harmonized:        harmonized == "sí" || harmonized == "si" || harmonized == "yes" || harmonized == "y",
		NUTSCode:          raw.Get(LabelNUTSCode),
	}

	if v, ok := ParseAmount(raw.Get(LabelEstimatedValue)); ok {
		md.EstimatedValueEUR = &v
	}
	if v, ok := ParseAmount(raw.Get(LabelBudgetBase)); ok {
		md.BudgetBaseEUR = &v
	}
	if v, ok := ParseAmount(raw.Get(LabelBudgetTotal)); ok {
		md.BudgetTotalEUR = &v
	}
	if v, ok := ParseDurationMonths(raw.Get(LabelDuration)); ok {
		md.DurationMonths = &v
	}
	if v, ok := ParseDeadline(raw.Get(LabelDeadline)); ok {
		md.Deadline = &v
	}

	return md
}
