package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/model"
)

// CareRecordRepository 照護記錄資料存取介面
// 四種記錄各有一張表，以 careslot.CareType 選表
type CareRecordRepository interface {
	ListByRange(ctx context.Context, ct careslot.CareType, patientID int64, from, to careslot.Date) ([]model.CareRecord, error)
	FindBySlot(ctx context.Context, ct careslot.CareType, patientID int64, date careslot.Date, slot string) (model.CareRecord, error)
	GetByID(ctx context.Context, ct careslot.CareType, id string) (model.CareRecord, error)
	Create(ctx context.Context, rec model.CareRecord) error
	Update(ctx context.Context, rec model.CareRecord) error
	Delete(ctx context.Context, ct careslot.CareType, id string) error
}

type careRecordRepo struct {
	db *gorm.DB
}

// NewCareRecordRepo 建立 CareRecordRepository 實例
func NewCareRecordRepo(db *gorm.DB) CareRecordRepository {
	return &careRecordRepo{db: db}
}

func tableFor(ct careslot.CareType) (model.CareTable, error) {
	tbl, ok := model.TableFor(ct)
	if !ok {
		return model.CareTable{}, fmt.Errorf("%w: %s", careslot.ErrUnknownCareType, ct)
	}
	return tbl, nil
}

func (r *careRecordRepo) ListByRange(ctx context.Context, ct careslot.CareType, patientID int64, from, to careslot.Date) ([]model.CareRecord, error) {
	tbl, err := tableFor(ct)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Where(fmt.Sprintf("patient_id = ? AND %s >= ? AND %s <= ?", tbl.DateColumn, tbl.DateColumn),
			patientID, model.ToDBDate(from), model.ToDBDate(to)).
		Order(tbl.DateColumn + " ASC, created_at ASC")

	switch ct {
	case careslot.CarePatrol:
		return listInto[model.PatrolRound](q)
	case careslot.CareDiaper:
		return listInto[model.DiaperChangeRecord](q)
	case careslot.CarePosition:
		return listInto[model.PositionChangeRecord](q)
	default:
		return listInto[model.RestraintObservationRecord](q)
	}
}

func listInto[T any, PT interface {
	*T
	model.CareRecord
}](q *gorm.DB) ([]model.CareRecord, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.CareRecord, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}

func (r *careRecordRepo) FindBySlot(ctx context.Context, ct careslot.CareType, patientID int64, date careslot.Date, slot string) (model.CareRecord, error) {
	tbl, err := tableFor(ct)
	if err != nil {
		return nil, err
	}

	rec := model.NewCareRecord(ct)
	err = r.db.WithContext(ctx).
		Where(fmt.Sprintf("patient_id = ? AND %s = ? AND %s = ?", tbl.DateColumn, tbl.SlotColumn),
			patientID, model.ToDBDate(date), slot).
		First(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *careRecordRepo) GetByID(ctx context.Context, ct careslot.CareType, id string) (model.CareRecord, error) {
	if _, err := tableFor(ct); err != nil {
		return nil, err
	}

	rec := model.NewCareRecord(ct)
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *careRecordRepo) Create(ctx context.Context, rec model.CareRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Update 只覆寫可變欄位，id 與時段鍵不變
func (r *careRecordRepo) Update(ctx context.Context, rec model.CareRecord) error {
	res := r.db.WithContext(ctx).
		Model(rec).
		Updates(rec.UpdatableColumns())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 硬刪除；id 不存在時回傳 gorm.ErrRecordNotFound
func (r *careRecordRepo) Delete(ctx context.Context, ct careslot.CareType, id string) error {
	if _, err := tableFor(ct); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(model.NewCareRecord(ct))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
