package repository

import (
	"context"
	"time"

	"freightdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HSCodeRepository interface {
	Create(ctx context.Context, rate *model.HSCodeRate) error
	Update(ctx context.Context, rate *model.HSCodeRate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.HSCodeRate, error)
	List(ctx context.Context, codePrefix string, page, limit int) ([]model.HSCodeRate, int64, error)
	FindActiveByCode(ctx context.Context, code string, targetDate time.Time) (*model.HSCodeRate, error)
	CountOverlapping(ctx context.Context, code string, from time.Time, to *time.Time, excludeID *uuid.UUID) (int64, error)
}

type hsCodeRepository struct {
	db *gorm.DB
}

func NewHSCodeRepository(db *gorm.DB) HSCodeRepository {
	return &hsCodeRepository{db: db}
}

func (r *hsCodeRepository) Create(ctx context.Context, rate *model.HSCodeRate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *hsCodeRepository) Update(ctx context.Context, rate *model.HSCodeRate) error {
	return GetDB(ctx, r.db).Save(rate).Error
}

func (r *hsCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.HSCodeRate{}).Error
}

func (r *hsCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.HSCodeRate, error) {
	var rate model.HSCodeRate
	if err := GetDB(ctx, r.db).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *hsCodeRepository) List(ctx context.Context, codePrefix string, page, limit int) ([]model.HSCodeRate, int64, error) {
	var rates []model.HSCodeRate
	var total int64

	query := GetDB(ctx, r.db).Model(&model.HSCodeRate{})
	if codePrefix != "" {
		query = query.Where("code LIKE ?", codePrefix+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("code ASC, effective_from DESC").Offset(offset).Limit(limit).Find(&rates).Error; err != nil {
		return nil, 0, err
	}

	return rates, total, nil
}

// FindActiveByCode: effective_from <= targetDate AND (effective_to IS NULL OR effective_to >= targetDate)
func (r *hsCodeRepository) FindActiveByCode(ctx context.Context, code string, targetDate time.Time) (*model.HSCodeRate, error) {
	var rate model.HSCodeRate
	if err := GetDB(ctx, r.db).
		Where("code = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", code, targetDate, targetDate).
		Order("effective_from DESC").
		First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *hsCodeRepository) CountOverlapping(ctx context.Context, code string, from time.Time, to *time.Time, excludeID *uuid.UUID) (int64, error) {
	var count int64
	query := GetDB(ctx, r.db).Model(&model.HSCodeRate{}).Where("code = ?", code)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	if to != nil {
		// existing.from <= new.to AND (existing.to IS NULL OR existing.to >= new.from)
		query = query.Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", *to, from)
	} else {
		query = query.Where("(effective_to IS NULL OR effective_to >= ?)", from)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
