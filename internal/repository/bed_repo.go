package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiaodeng873/CareApp/internal/model"
)

// BedRepository 床位資料存取介面
type BedRepository interface {
	GetByQRCodeID(ctx context.Context, qrCodeID string) (*model.Bed, error)
	GetByNumber(ctx context.Context, bedNumber string) (*model.Bed, error)
}

type bedRepo struct {
	db *gorm.DB
}

// NewBedRepo 建立 BedRepository 實例
func NewBedRepo(db *gorm.DB) BedRepository {
	return &bedRepo{db: db}
}

func (r *bedRepo) GetByQRCodeID(ctx context.Context, qrCodeID string) (*model.Bed, error) {
	var bed model.Bed
	err := r.db.WithContext(ctx).
		Where("qr_code_id = ?", qrCodeID).
		First(&bed).Error
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

func (r *bedRepo) GetByNumber(ctx context.Context, bedNumber string) (*model.Bed, error) {
	var bed model.Bed
	err := r.db.WithContext(ctx).
		Where("LOWER(bed_number) = LOWER(?)", strings.TrimSpace(bedNumber)).
		First(&bed).Error
	if err != nil {
		return nil, err
	}
	return &bed, nil
}
