package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiaodeng873/CareApp/internal/model"
)

// ResidentRepository 院友名冊資料存取介面（唯讀）
type ResidentRepository interface {
	ListActive(ctx context.Context) ([]model.Resident, error)
	SearchActive(ctx context.Context, query string) ([]model.Resident, error)
	GetByID(ctx context.Context, id int64) (*model.Resident, error)
	GetActiveByBedCode(ctx context.Context, bedCode string) (*model.Resident, error)
	GetActiveByBedID(ctx context.Context, bedID string) (*model.Resident, error)
}

type residentRepo struct {
	db *gorm.DB
}

// NewResidentRepo 建立 ResidentRepository 實例
func NewResidentRepo(db *gorm.DB) ResidentRepository {
	return &residentRepo{db: db}
}

func (r *residentRepo) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where(`"在住狀態" = ?`, model.ResidentStatusActive)
}

func (r *residentRepo) ListActive(ctx context.Context) ([]model.Resident, error) {
	var residents []model.Resident
	err := r.active(ctx).Order(`"床號" ASC`).Find(&residents).Error
	return residents, err
}

// SearchActive 床號不分大小寫、姓名子字串；空白查詢等同全部
func (r *residentRepo) SearchActive(ctx context.Context, query string) ([]model.Resident, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.ListActive(ctx)
	}

	pattern := "%" + escapeLike(query) + "%"
	var residents []model.Resident
	err := r.active(ctx).
		Where(`"床號" ILIKE ? OR "中文姓名" LIKE ?`, pattern, pattern).
		Order(`"床號" ASC`).
		Find(&residents).Error
	return residents, err
}

func (r *residentRepo) GetByID(ctx context.Context, id int64) (*model.Resident, error) {
	var res model.Resident
	err := r.db.WithContext(ctx).
		Where(`"院友id" = ?`, id).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *residentRepo) GetActiveByBedCode(ctx context.Context, bedCode string) (*model.Resident, error) {
	var res model.Resident
	err := r.active(ctx).
		Where(`LOWER("床號") = LOWER(?)`, strings.TrimSpace(bedCode)).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *residentRepo) GetActiveByBedID(ctx context.Context, bedID string) (*model.Resident, error) {
	var res model.Resident
	err := r.active(ctx).
		Where("bed_id = ?", bedID).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// escapeLike 轉義 LIKE 萬用字元
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
