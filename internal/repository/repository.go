package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Resident   ResidentRepository
	Bed        BedRepository
	CareRecord CareRecordRepository
}

// NewRepository 建立 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Resident:   NewResidentRepo(db),
		Bed:        NewBedRepo(db),
		CareRecord: NewCareRecordRepo(db),
	}
}
