package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateQuotation    = "CREATE_QUOTATION"
	ActionUpdateQuotation    = "UPDATE_QUOTATION"
	ActionDuplicateQuotation = "DUPLICATE_QUOTATION"
	ActionApproveQuotation   = "APPROVE_QUOTATION"
	ActionRejectQuotation    = "REJECT_QUOTATION"
	ActionReopenQuotation    = "REOPEN_QUOTATION"

	ActionCreateOperationalRecord = "CREATE_OPERATIONAL_RECORD"
	ActionUpdateOperationalCosts  = "UPDATE_OPERATIONAL_COSTS"

	ActionCreateHSCodeRate = "CREATE_HS_CODE_RATE"
	ActionUpdateHSCodeRate = "UPDATE_HS_CODE_RATE"
	ActionDeleteHSCodeRate = "DELETE_HS_CODE_RATE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // subject of the JWT, nil for system actions
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
