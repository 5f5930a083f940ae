package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/dto"
	"github.com/xiaodeng873/CareApp/internal/model"
	"github.com/xiaodeng873/CareApp/internal/repository"
)

// ResidentService 院友查詢與床位掃描
type ResidentService interface {
	List(ctx context.Context, query string) ([]dto.ResidentResponse, error)
	Get(ctx context.Context, id int64) (*dto.ResidentResponse, error)
	// Lookup 手動輸入：床號優先，其次姓名
	Lookup(ctx context.Context, query string) (*dto.ScanResponse, error)
	// Scan 床位空置時回傳床位資料與 ErrBedVacant
	Scan(ctx context.Context, payload string) (*dto.ScanResponse, error)
}

type residentService struct {
	repo   *repository.Repository
	clock  careslot.Clock
	logger *zap.Logger
}

// NewResidentService 建立 ResidentService 實例
func NewResidentService(repo *repository.Repository, clock careslot.Clock, logger *zap.Logger) ResidentService {
	return &residentService{repo: repo, clock: clock, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *residentService) List(ctx context.Context, query string) ([]dto.ResidentResponse, error) {
	residents, err := s.repo.Resident.SearchActive(ctx, query)
	if err != nil {
		s.logger.Error("查詢院友名冊失敗", zap.String("q", query), zap.Error(err))
		return nil, backendErr(err)
	}

	result := make([]dto.ResidentResponse, 0, len(residents))
	for i := range residents {
		result = append(result, *s.toResidentResponse(&residents[i]))
	}
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *residentService) Get(ctx context.Context, id int64) (*dto.ResidentResponse, error) {
	res, err := s.repo.Resident.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResidentNotFound
		}
		s.logger.Error("查詢院友失敗", zap.Int64("resident_id", id), zap.Error(err))
		return nil, backendErr(err)
	}
	return s.toResidentResponse(res), nil
}

// ────────────────────── Lookup ──────────────────────

func (s *residentService) Lookup(ctx context.Context, query string) (*dto.ScanResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrResidentNotFound
	}

	// 1. 院友床號完全相符（不分大小寫）
	res, err := s.repo.Resident.GetActiveByBedCode(ctx, query)
	switch {
	case err == nil:
		return &dto.ScanResponse{Resident: s.toResidentResponse(res)}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("依床號查詢院友失敗", zap.String("q", query), zap.Error(err))
		return nil, backendErr(err)
	}

	// 2. 床位表的床號，可判斷空置
	bed, err := s.repo.Bed.GetByNumber(ctx, query)
	switch {
	case err == nil:
		return s.residentOnBed(ctx, bed)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("依床號查詢床位失敗", zap.String("q", query), zap.Error(err))
		return nil, backendErr(err)
	}

	// 3. 姓名子字串，取第一位
	residents, err := s.repo.Resident.SearchActive(ctx, query)
	if err != nil {
		s.logger.Error("依姓名查詢院友失敗", zap.String("q", query), zap.Error(err))
		return nil, backendErr(err)
	}
	for i := range residents {
		if strings.Contains(residents[i].DisplayName, query) {
			return &dto.ScanResponse{Resident: s.toResidentResponse(&residents[i])}, nil
		}
	}
	return nil, ErrResidentNotFound
}

// ────────────────────── Scan ──────────────────────

func (s *residentService) Scan(ctx context.Context, payload string) (*dto.ScanResponse, error) {
	qrCodeID, err := careslot.ParseBedQR(payload)
	if err != nil {
		return nil, ErrInvalidScan
	}

	bed, err := s.repo.Bed.GetByQRCodeID(ctx, qrCodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBedNotFound
		}
		s.logger.Error("依 QR Code 查詢床位失敗", zap.String("qr_code_id", qrCodeID), zap.Error(err))
		return nil, backendErr(err)
	}
	return s.residentOnBed(ctx, bed)
}

func (s *residentService) residentOnBed(ctx context.Context, bed *model.Bed) (*dto.ScanResponse, error) {
	resp := &dto.ScanResponse{Bed: toBedResponse(bed)}

	res, err := s.repo.Resident.GetActiveByBedID(ctx, bed.BedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, ErrBedVacant
		}
		s.logger.Error("查詢床位院友失敗", zap.String("bed_id", bed.BedID), zap.Error(err))
		return nil, backendErr(err)
	}
	resp.Resident = s.toResidentResponse(res)
	return resp, nil
}

// ── 轉換 ──

func (s *residentService) toResidentResponse(r *model.Resident) *dto.ResidentResponse {
	resp := &dto.ResidentResponse{
		ID:               r.ResidentID,
		BedCode:          r.BedCode,
		DisplayName:      r.DisplayName,
		Surname:          r.Surname,
		GivenName:        r.GivenName,
		Sex:              r.Sex,
		InfectionControl: []string(r.InfectionControl),
		Status:           r.Status,
	}
	if resp.InfectionControl == nil {
		resp.InfectionControl = []string{}
	}
	if birth, ok := r.Birth(); ok {
		d := careslot.DateFromTime(birth)
		resp.BirthDate = d.String()
		age := careslot.YearsBetween(d, careslot.Today(s.clock.Now()))
		resp.Age = &age
	}
	if r.PhotoURL != nil {
		resp.PhotoURL = *r.PhotoURL
	}
	if r.CareLevel != nil {
		resp.CareLevel = *r.CareLevel
	}
	return resp
}

func toBedResponse(b *model.Bed) *dto.BedResponse {
	return &dto.BedResponse{
		ID:        b.BedID,
		BedNumber: b.BedNumber,
		QRCodeID:  b.QRCodeID,
	}
}
