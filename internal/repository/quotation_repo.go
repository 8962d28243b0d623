package repository

import (
	"context"
	"errors"

	"freightdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationFilter struct {
	Status string
	Type   string
	Search string
}

type QuotationRepository interface {
	Create(ctx context.Context, q *model.Quotation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	List(ctx context.Context, filter QuotationFilter, page, limit int) ([]model.Quotation, int64, error)
	Update(ctx context.Context, q *model.Quotation) error
	CreateItem(ctx context.Context, item *model.CargoItem) error
	UpdateItem(ctx context.Context, item *model.CargoItem) error
	DeleteItem(ctx context.Context, quotationID, itemID uuid.UUID) error
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	LockNumberPrefix(ctx context.Context, prefix string) error
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, q *model.Quotation) error {
	return GetDB(ctx, r.db).Create(q).Error
}

func (r *quotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var q model.Quotation
	err := GetDB(ctx, r.db).
		Preload("CargoItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&q, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quotationRepository) List(ctx context.Context, filter QuotationFilter, page, limit int) ([]model.Quotation, int64, error) {
	var quotations []model.Quotation
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Quotation{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("quotation_no ILIKE ? OR customer_name ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("CargoItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&quotations).Error; err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}

// Update saves the root document only; cargo items have their own methods.
func (r *quotationRepository) Update(ctx context.Context, q *model.Quotation) error {
	return GetDB(ctx, r.db).Omit("CargoItems").Save(q).Error
}

func (r *quotationRepository) CreateItem(ctx context.Context, item *model.CargoItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *quotationRepository) UpdateItem(ctx context.Context, item *model.CargoItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *quotationRepository) DeleteItem(ctx context.Context, quotationID, itemID uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND quotation_id = ?", itemID, quotationID).Delete(&model.CargoItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LastNumberWithPrefix returns the highest quotation number starting with
// prefix, or "" when none exists yet.
func (r *quotationRepository) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var q model.Quotation
	err := GetDB(ctx, r.db).
		Select("quotation_no").
		Where("quotation_no LIKE ?", prefix+"%").
		Order("quotation_no DESC").
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return q.QuotationNo, nil
}

func (r *quotationRepository) LockNumberPrefix(ctx context.Context, prefix string) error {
	return advisoryLock(ctx, r.db, prefix)
}
