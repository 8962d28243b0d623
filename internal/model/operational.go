package model

import (
	"time"

	"freightdesk/internal/costing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationalCostRecord is created once, when its quotation is approved.
// Rollups (total operational cost, margin, profitability) are computed on read.
type OperationalCostRecord struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuotationID  uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"quotation_id"`
	QuotationNo  string            `gorm:"type:varchar(20);not null" json:"quotation_no"`
	ExchangeRate decimal.Decimal   `gorm:"<-:create;type:decimal(18,6);not null" json:"exchange_rate"`
	Items        []OperationalItem `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"items"`
	ApprovedAt   time.Time         `gorm:"not null;index" json:"approved_at"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// OperationalItem tracks actual costs of one cargo item against its quote.
// Quoted is written on insert only. Updates go through the repository, which
// restricts the statement to OperationalItemMutableColumns.
type OperationalItem struct {
	ID              uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecordID        uuid.UUID                `gorm:"type:uuid;not null;index" json:"record_id"`
	CargoItemID     uuid.UUID                `gorm:"type:uuid;not null" json:"cargo_item_id"`
	Position        int                      `gorm:"not null;default:0" json:"position"`
	Quoted          costing.QuotedCosts      `gorm:"embedded;embeddedPrefix:quoted_" json:"original_quotation_costs"`
	Operational     costing.OperationalCosts `gorm:"embedded" json:"operational_costs"`
	AdditionalCosts costing.OtherCosts       `gorm:"type:jsonb;serializer:json" json:"additional_costs"`
	ActualsRecorded bool                     `gorm:"not null;default:false" json:"actuals_recorded"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// OperationalItemMutableColumns are the only columns an update may touch.
var OperationalItemMutableColumns = []string{
	"actual_origin_cost",
	"actual_freight_cost",
	"actual_destination_cost",
	"actual_additional_cost",
	"additional_costs",
	"actuals_recorded",
	"updated_at",
}

func (i OperationalItem) Line() costing.OperationalLine {
	return costing.OperationalLine{
		ID:          i.ID,
		Quoted:      i.Quoted,
		Operational: i.Operational,
		Additional:  i.AdditionalCosts,
		Recorded:    i.ActualsRecorded,
	}
}

func (r OperationalCostRecord) Lines() []costing.OperationalLine {
	lines := make([]costing.OperationalLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, item.Line())
	}
	return lines
}

func (r OperationalCostRecord) FindItem(id uuid.UUID) int {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return i
		}
	}
	return -1
}
