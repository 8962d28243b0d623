package model

import (
	"time"

	"freightdesk/internal/costing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus enum constants
const (
	QuotationStatusDraft    = "Draft"
	QuotationStatusApproved = "Approved"
	QuotationStatusRejected = "Rejected"
)

// QuotationType codes, used as the {typeCode} segment of the quotation number
const (
	QuotationTypeImport   = "I"
	QuotationTypeExport   = "E"
	QuotationTypeDomestic = "D"
)

// Quotation is the aggregate root of a freight quote. Totals are never stored:
// they are recomputed from these inputs on every read.
type Quotation struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationNo     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"quotation_no"` // Q{type}{YY}{MM}{seq5}
	Type            string    `gorm:"type:varchar(1);not null;index" json:"type"`                // I, E, D
	CustomerName    string    `gorm:"type:varchar(255)" json:"customer_name"`
	OriginPort      string    `gorm:"type:varchar(100)" json:"origin_port"`
	DestinationPort string    `gorm:"type:varchar(100)" json:"destination_port"`

	// Global parameters
	ExchangeRate         decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1" json:"exchange_rate"` // base currency per foreign unit
	ImportDutyPct        decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"import_duty_pct"`
	VATPct               decimal.Decimal `gorm:"column:vat_pct;type:decimal(10,4);not null;default:0" json:"vat_pct"`
	ExcisePct            decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"excise_pct"`
	InsuranceCoveragePct decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"insurance_coverage_pct"`

	Fees       costing.ServiceFees `gorm:"embedded" json:"service_fees"`
	OtherCosts costing.OtherCosts  `gorm:"type:jsonb;serializer:json" json:"other_costs"`

	SellingPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"selling_price"`
	Status          string          `gorm:"type:varchar(20);not null;default:'Draft';index" json:"status"`
	CargoItems      []CargoItem     `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"cargo_items"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	DecidedBy       *uuid.UUID      `gorm:"type:uuid" json:"decided_by"`
	DecidedAt       *time.Time      `json:"decided_at"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CargoItem is one shippable unit of a quotation. All cost fields share the
// item's Currency; the declared value has its own ValueCurrency.
type CargoItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Position      int             `gorm:"not null;default:0" json:"position"`
	Description   string          `gorm:"type:varchar(255)" json:"description"`
	WeightKg      decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0" json:"weight_kg"`
	VolumeCBM     decimal.Decimal `gorm:"column:volume_cbm;type:decimal(18,3);not null;default:0" json:"volume_cbm"`
	Value         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"value"`
	ValueCurrency string          `gorm:"type:varchar(10)" json:"value_currency"`
	Currency      string          `gorm:"type:varchar(10)" json:"currency"`

	// HS classification, filled from the HS-code catalog
	HSCode      string          `gorm:"column:hs_code;type:varchar(20)" json:"hs_code"`
	HSDutyPct   decimal.Decimal `gorm:"column:hs_duty_pct;type:decimal(10,4);not null;default:0" json:"hs_duty_pct"`
	HSVATPct    decimal.Decimal `gorm:"column:hs_vat_pct;type:decimal(10,4);not null;default:0" json:"hs_vat_pct"`
	HSExcisePct decimal.Decimal `gorm:"column:hs_excise_pct;type:decimal(10,4);not null;default:0" json:"hs_excise_pct"`

	Costs costing.CostFields `gorm:"embedded" json:"costs"`

	// Carried through, not computed on
	ContainerType       string `gorm:"type:varchar(20)" json:"container_type"`
	ContainerNo         string `gorm:"type:varchar(20)" json:"container_no"`
	SealNo              string `gorm:"type:varchar(30)" json:"seal_no"`
	IsHazardous         bool   `gorm:"default:false" json:"is_hazardous"`
	CertificateRequired bool   `gorm:"default:false" json:"certificate_required"`
	InspectionRequired  bool   `gorm:"default:false" json:"inspection_required"`
	QuarantineRequired  bool   `gorm:"default:false" json:"quarantine_required"`
}

// Line adapts the item to the costing engine.
func (c CargoItem) Line() costing.CargoLine {
	return costing.CargoLine{
		ID:            c.ID,
		Value:         c.Value,
		ValueCurrency: c.ValueCurrency,
		Currency:      c.Currency,
		Costs:         c.Costs,
	}
}

func (q Quotation) Rates() costing.TaxRates {
	return costing.TaxRates{
		ImportDutyPct: q.ImportDutyPct,
		VATPct:        q.VATPct,
		ExcisePct:     q.ExcisePct,
	}
}

// Input builds the engine input from the current document state.
func (q Quotation) Input() costing.QuotationInput {
	lines := make([]costing.CargoLine, 0, len(q.CargoItems))
	for _, item := range q.CargoItems {
		lines = append(lines, item.Line())
	}
	return costing.QuotationInput{
		Items:        lines,
		ExchangeRate: q.ExchangeRate,
		Rates:        q.Rates(),
		Fees:         q.Fees,
		OtherCosts:   q.OtherCosts,
		SellingPrice: q.SellingPrice,
	}
}

// FindCargoItem returns the index of the item with id, or -1.
func (q Quotation) FindCargoItem(id uuid.UUID) int {
	for i := range q.CargoItems {
		if q.CargoItems[i].ID == id {
			return i
		}
	}
	return -1
}
