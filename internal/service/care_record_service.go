package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/dto"
	"github.com/xiaodeng873/CareApp/internal/event"
	"github.com/xiaodeng873/CareApp/internal/model"
	"github.com/xiaodeng873/CareApp/internal/repository"
)

// maxRangeDays 記錄查詢的最長區間（含頭尾）
const maxRangeDays = 93

// 檢視模式
const (
	ViewDay  = "day"
	ViewWeek = "week"
)

// CareRecordService 照護記錄業務介面
type CareRecordService interface {
	Slots(ct careslot.CareType) *dto.SlotsResponse
	List(ctx context.Context, residentID int64, ct careslot.CareType, from, to string) ([]dto.CareRecordResponse, error)
	Grid(ctx context.Context, residentID int64, ct careslot.CareType, date, view string) (*dto.CareGridResponse, error)
	// Upsert 同一 (院友, 日期, 時段) 已有記錄時覆寫並保留 id，否則新增
	Upsert(ctx context.Context, residentID int64, ct careslot.CareType, req *dto.UpsertCareRecordRequest, sess *Session) (*dto.UpsertCareRecordResponse, error)
	Delete(ctx context.Context, ct careslot.CareType, id string) error
}

type careRecordService struct {
	repo      *repository.Repository
	publisher event.Publisher
	clock     careslot.Clock
	logger    *zap.Logger
}

// NewCareRecordService 建立 CareRecordService 實例
func NewCareRecordService(repo *repository.Repository, publisher event.Publisher, clock careslot.Clock, logger *zap.Logger) CareRecordService {
	return &careRecordService{repo: repo, publisher: publisher, clock: clock, logger: logger}
}

// ────────────────────── Slots ──────────────────────

func (s *careRecordService) Slots(ct careslot.CareType) *dto.SlotsResponse {
	slots := careslot.SlotsFor(ct)
	resp := &dto.SlotsResponse{
		CareType: string(ct),
		Label:    ct.Label(),
		Slots:    slots,
	}
	if ct == careslot.CarePosition {
		resp.SuggestedPositions = make([]string, len(slots))
		for i := range slots {
			resp.SuggestedPositions[i] = careslot.SuggestedPosition(i)
		}
	}
	return resp
}

// ────────────────────── List ──────────────────────

func (s *careRecordService) List(ctx context.Context, residentID int64, ct careslot.CareType, from, to string) ([]dto.CareRecordResponse, error) {
	fromDate, toDate, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.CareRecord.ListByRange(ctx, ct, residentID, fromDate, toDate)
	if err != nil {
		s.logger.Error("查詢照護記錄失敗",
			zap.Int64("resident_id", residentID), zap.String("care_type", string(ct)), zap.Error(err))
		return nil, backendErr(err)
	}

	result := make([]dto.CareRecordResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, *toCareRecordResponse(rec))
	}
	return result, nil
}

func parseRange(from, to string) (careslot.Date, careslot.Date, error) {
	fromDate, err := careslot.ParseDate(from)
	if err != nil {
		return careslot.Date{}, careslot.Date{}, ErrInvalidDate
	}
	toDate, err := careslot.ParseDate(to)
	if err != nil {
		return careslot.Date{}, careslot.Date{}, ErrInvalidDate
	}
	if toDate.Before(fromDate) {
		return careslot.Date{}, careslot.Date{}, ErrInvalidDateRange
	}
	if fromDate.AddDays(maxRangeDays - 1).Before(toDate) {
		return careslot.Date{}, careslot.Date{}, ErrDateRangeTooLong
	}
	return fromDate, toDate, nil
}

// ────────────────────── Grid ──────────────────────

func (s *careRecordService) Grid(ctx context.Context, residentID int64, ct careslot.CareType, date, view string) (*dto.CareGridResponse, error) {
	now := s.clock.Now()

	anchor := careslot.Today(now)
	if date != "" {
		d, err := careslot.ParseDate(date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		anchor = d
	}

	if view == "" {
		view = ViewDay
	}
	dates := []careslot.Date{anchor}
	if view == ViewWeek {
		dates = careslot.WeekOf(anchor)
	}

	if _, err := s.repo.Resident.GetByID(ctx, residentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResidentNotFound
		}
		s.logger.Error("查詢院友失敗", zap.Int64("resident_id", residentID), zap.Error(err))
		return nil, backendErr(err)
	}

	records, err := s.repo.CareRecord.ListByRange(ctx, ct, residentID, dates[0], dates[len(dates)-1])
	if err != nil {
		s.logger.Error("查詢照護記錄失敗",
			zap.Int64("resident_id", residentID), zap.String("care_type", string(ct)), zap.Error(err))
		return nil, backendErr(err)
	}

	grid := careslot.BuildGrid(ct, dates, now, asSlotRecords(records))
	return toGridResponse(residentID, view, grid), nil
}

func asSlotRecords(records []model.CareRecord) []careslot.Record {
	out := make([]careslot.Record, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}

func toGridResponse(residentID int64, view string, g careslot.Grid) *dto.CareGridResponse {
	resp := &dto.CareGridResponse{
		ResidentID: residentID,
		CareType:   string(g.CareType),
		Label:      g.CareType.Label(),
		View:       view,
		Dates:      make([]string, len(g.Dates)),
		Rows:       make([]dto.GridRowResponse, 0, len(g.Rows)),
		Summary:    make(map[string]int, 3),
	}
	for i, d := range g.Dates {
		resp.Dates[i] = d.String()
	}
	for kind, n := range g.Summary() {
		resp.Summary[string(kind)] = n
	}

	for _, row := range g.Rows {
		r := dto.GridRowResponse{
			Slot:              row.Slot,
			SuggestedPosition: row.SuggestedPosition,
			Cells:             make([]dto.GridCellResponse, 0, len(row.Cells)),
		}
		for _, cell := range row.Cells {
			c := dto.GridCellResponse{
				Date:   cell.Date.String(),
				Status: string(cell.Status.Kind),
			}
			if rec, ok := cell.Status.Record.(model.CareRecord); ok {
				c.Record = toCareRecordResponse(rec)
			}
			r.Cells = append(r.Cells, c)
		}
		resp.Rows = append(resp.Rows, r)
	}
	return resp
}

// ────────────────────── Upsert ──────────────────────

func (s *careRecordService) Upsert(ctx context.Context, residentID int64, ct careslot.CareType, req *dto.UpsertCareRecordRequest, sess *Session) (*dto.UpsertCareRecordResponse, error) {
	// 1. 時段鍵校驗
	date, err := careslot.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !careslot.IsValidSlot(ct, req.Slot) {
		return nil, ErrInvalidSlot
	}

	recorder := strings.TrimSpace(req.Recorder)
	if recorder == "" && sess != nil {
		recorder = sess.DisplayName
	}
	if recorder == "" {
		return nil, ErrRecorderRequired
	}

	// 2. 依類型建立記錄
	rec, err := s.buildRecord(residentID, ct, date, req, recorder)
	if err != nil {
		return nil, err
	}

	// 3. 院友須存在
	if _, err := s.repo.Resident.GetByID(ctx, residentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResidentNotFound
		}
		s.logger.Error("查詢院友失敗", zap.Int64("resident_id", residentID), zap.Error(err))
		return nil, backendErr(err)
	}

	// 4. 先查後寫；並發新增撞到唯一鍵時改為覆寫
	created, err := s.write(ctx, ct, rec, residentID, date, req.Slot)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		created, err = s.write(ctx, ct, rec, residentID, date, req.Slot)
	}
	if err != nil {
		s.logger.Error("寫入照護記錄失敗",
			zap.Int64("resident_id", residentID),
			zap.String("care_type", string(ct)),
			zap.String("date", date.String()),
			zap.String("slot", req.Slot),
			zap.Error(err))
		return nil, backendErr(err)
	}

	saved, err := s.repo.CareRecord.GetByID(ctx, ct, rec.RecordID())
	if err != nil {
		s.logger.Warn("讀回照護記錄失敗，以寫入內容回應", zap.String("id", rec.RecordID()), zap.Error(err))
		saved = rec
	}

	s.publish(ctx, event.TypeCareRecordUpserted, saved)

	return &dto.UpsertCareRecordResponse{
		Record:  *toCareRecordResponse(saved),
		Created: created,
	}, nil
}

func (s *careRecordService) write(ctx context.Context, ct careslot.CareType, rec model.CareRecord, residentID int64, date careslot.Date, slot string) (bool, error) {
	existing, err := s.repo.CareRecord.FindBySlot(ctx, ct, residentID, date, slot)
	switch {
	case err == nil:
		rec.SetRecordID(existing.RecordID())
		return false, s.repo.CareRecord.Update(ctx, rec)
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec.SetRecordID(uuid.New().String())
		return true, s.repo.CareRecord.Create(ctx, rec)
	default:
		return false, err
	}
}

func (s *careRecordService) buildRecord(residentID int64, ct careslot.CareType, date careslot.Date, req *dto.UpsertCareRecordRequest, recorder string) (model.CareRecord, error) {
	day := model.ToDBDate(date)
	actual := req.ActualTime
	if actual == "" {
		actual = s.clock.Now().In(careslot.FacilityZone).Format("15:04")
	}

	switch ct {
	case careslot.CarePatrol:
		return &model.PatrolRound{
			PatientID:     residentID,
			PatrolDate:    day,
			PatrolTime:    actual,
			ScheduledTime: req.Slot,
			Recorder:      recorder,
			Notes:         trimmedOrNil(req.Notes),
		}, nil

	case careslot.CareDiaper:
		return buildDiaperRecord(residentID, day, req, recorder)

	case careslot.CarePosition:
		position := req.Position
		if position == "" {
			position = careslot.SuggestedPosition(careslot.SlotIndex(ct, req.Slot))
		}
		if !careslot.IsValidPosition(position) {
			return nil, ErrInvalidPosition
		}
		return &model.PositionChangeRecord{
			PatientID:     residentID,
			ChangeDate:    day,
			ScheduledTime: req.Slot,
			Position:      position,
			Recorder:      recorder,
		}, nil

	case careslot.CareRestraint:
		if !careslot.IsValidRestraintStatus(req.ObservationStatus) {
			return nil, ErrInvalidObservation
		}
		return &model.RestraintObservationRecord{
			PatientID:         residentID,
			ObservationDate:   day,
			ObservationTime:   actual,
			ScheduledTime:     req.Slot,
			ObservationStatus: req.ObservationStatus,
			Recorder:          recorder,
			Notes:             trimmedOrNil(req.Notes),
		}, nil
	}
	return nil, ErrInvalidCareType
}

func buildDiaperRecord(residentID int64, day datatypes.Date, req *dto.UpsertCareRecordRequest, recorder string) (model.CareRecord, error) {
	if err := careslot.ValidateDiaperSelection(req.HasUrine, req.HasStool, req.HasNone); err != nil {
		return nil, ErrEmptySelection
	}
	if err := careslot.CheckDiaperExclusivity(req.HasUrine, req.HasStool, req.HasNone); err != nil {
		return nil, ErrConflictingSelection
	}

	rec := &model.DiaperChangeRecord{
		PatientID:  residentID,
		ChangeDate: day,
		TimeSlot:   req.Slot,
		HasUrine:   req.HasUrine,
		HasStool:   req.HasStool,
		HasNone:    req.HasNone,
		Recorder:   recorder,
	}
	// 未勾選的項目不保留細節
	if req.HasUrine {
		rec.UrineAmount = req.UrineAmount
	}
	if req.HasStool {
		rec.StoolColor = req.StoolColor
		rec.StoolTexture = req.StoolTexture
		rec.StoolAmount = req.StoolAmount
	}
	return rec, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// ────────────────────── Delete ──────────────────────

func (s *careRecordService) Delete(ctx context.Context, ct careslot.CareType, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrCareRecordNotFound
	}

	if err := s.repo.CareRecord.Delete(ctx, ct, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCareRecordNotFound
		}
		s.logger.Error("刪除照護記錄失敗", zap.String("care_type", string(ct)), zap.String("id", id), zap.Error(err))
		return backendErr(err)
	}

	s.publishEvent(ctx, event.CareRecordEvent{
		Type:     event.TypeCareRecordDeleted,
		CareType: string(ct),
		RecordID: id,
	})
	return nil
}

// ── 事件 ──

func (s *careRecordService) publish(ctx context.Context, typ string, rec model.CareRecord) {
	s.publishEvent(ctx, event.CareRecordEvent{
		Type:       typ,
		CareType:   string(rec.CareType()),
		RecordID:   rec.RecordID(),
		ResidentID: rec.ResidentID(),
		Date:       rec.RecordDate().String(),
		Slot:       rec.SlotLabel(),
		Recorder:   rec.RecorderName(),
	})
}

// publishEvent 發布失敗只記錄，不影響使用者操作
func (s *careRecordService) publishEvent(ctx context.Context, evt event.CareRecordEvent) {
	evt.OccurredAt = s.clock.Now().UTC()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("發布照護記錄事件失敗",
			zap.String("type", evt.Type), zap.String("record_id", evt.RecordID), zap.Error(err))
	}
}

// ── 轉換 ──

func toCareRecordResponse(rec model.CareRecord) *dto.CareRecordResponse {
	resp := &dto.CareRecordResponse{
		ID:         rec.RecordID(),
		ResidentID: rec.ResidentID(),
		CareType:   string(rec.CareType()),
		Date:       rec.RecordDate().String(),
		Slot:       rec.SlotLabel(),
		Recorder:   rec.RecorderName(),
	}

	var base model.BaseModel
	switch r := rec.(type) {
	case *model.PatrolRound:
		resp.ActualTime = shortTime(r.PatrolTime)
		resp.Notes = r.Notes
		base = r.BaseModel
	case *model.DiaperChangeRecord:
		resp.Diaper = &dto.DiaperDetail{
			HasUrine:     r.HasUrine,
			HasStool:     r.HasStool,
			HasNone:      r.HasNone,
			UrineAmount:  r.UrineAmount,
			StoolColor:   r.StoolColor,
			StoolTexture: r.StoolTexture,
			StoolAmount:  r.StoolAmount,
		}
		base = r.BaseModel
	case *model.PositionChangeRecord:
		resp.Position = r.Position
		base = r.BaseModel
	case *model.RestraintObservationRecord:
		resp.ActualTime = shortTime(r.ObservationTime)
		resp.ObservationStatus = r.ObservationStatus
		resp.Notes = r.Notes
		base = r.BaseModel
	}

	if !base.CreatedAt.IsZero() {
		resp.CreatedAt = base.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !base.UpdatedAt.IsZero() {
		resp.UpdatedAt = base.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// shortTime TIME 欄位可能帶秒，回應統一為 HH:MM
func shortTime(t string) string {
	if len(t) > 5 && t[2] == ':' {
		return t[:5]
	}
	return t
}
