package repository

import (
	"context"
	"time"

	"freightdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperationalRepository interface {
	Create(ctx context.Context, record *model.OperationalCostRecord) error
	FindByQuotationID(ctx context.Context, quotationID uuid.UUID) (*model.OperationalCostRecord, error)
	ExistsForQuotation(ctx context.Context, quotationID uuid.UUID) (bool, error)
	List(ctx context.Context, page, limit int) ([]model.OperationalCostRecord, int64, error)
	ListApprovedBetween(ctx context.Context, from, to time.Time) ([]model.OperationalCostRecord, error)
	UpdateItem(ctx context.Context, item *model.OperationalItem) error
}

type operationalRepository struct {
	db *gorm.DB
}

func NewOperationalRepository(db *gorm.DB) OperationalRepository {
	return &operationalRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *operationalRepository) Create(ctx context.Context, record *model.OperationalCostRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *operationalRepository) FindByQuotationID(ctx context.Context, quotationID uuid.UUID) (*model.OperationalCostRecord, error) {
	var record model.OperationalCostRecord
	if err := GetDB(ctx, r.db).Preload("Items", orderedItems).First(&record, "quotation_id = ?", quotationID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *operationalRepository) ExistsForQuotation(ctx context.Context, quotationID uuid.UUID) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.OperationalCostRecord{}).Where("quotation_id = ?", quotationID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *operationalRepository) List(ctx context.Context, page, limit int) ([]model.OperationalCostRecord, int64, error) {
	var records []model.OperationalCostRecord
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.OperationalCostRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items", orderedItems).Order("approved_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *operationalRepository) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]model.OperationalCostRecord, error) {
	var records []model.OperationalCostRecord
	if err := GetDB(ctx, r.db).
		Preload("Items", orderedItems).
		Where("approved_at >= ? AND approved_at <= ?", from, to).
		Order("approved_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateItem writes the mutable columns only; the quoted snapshot is never
// part of an update statement.
func (r *operationalRepository) UpdateItem(ctx context.Context, item *model.OperationalItem) error {
	return updateItemQuery(GetDB(ctx, r.db), item).Error
}

func updateItemQuery(db *gorm.DB, item *model.OperationalItem) *gorm.DB {
	return db.Model(item).Select(model.OperationalItemMutableColumns).Updates(item)
}
