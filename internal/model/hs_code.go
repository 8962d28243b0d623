package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HSCodeRate stores the duty/VAT/excise percentages of an HS code with
// temporal validity. Periods for the same code must not overlap.
type HSCodeRate struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string          `gorm:"type:varchar(20);not null;index" json:"code"`
	Description   string          `gorm:"type:text" json:"description"`
	ImportDutyPct decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"import_duty_pct"`
	VATPct        decimal.Decimal `gorm:"column:vat_pct;type:decimal(10,4);not null;default:0" json:"vat_pct"`
	ExcisePct     decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"excise_pct"`
	EffectiveFrom time.Time       `gorm:"type:date;not null;index" json:"effective_from"`
	EffectiveTo   *time.Time      `gorm:"type:date;index" json:"effective_to"` // nullable = open ended
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (HSCodeRate) TableName() string {
	return "hs_code_rates"
}
