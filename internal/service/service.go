package service

import (
	"go.uber.org/zap"

	"github.com/xiaodeng873/CareApp/config"
	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/event"
	"github.com/xiaodeng873/CareApp/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Resident   ResidentService
	CareRecord CareRecordService
	Export     ExportService
	Session    SessionService
}

// NewService 建立 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	publisher event.Publisher,
	revoker TokenRevoker,
	clock careslot.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		Resident:   NewResidentService(repo, clock, logger),
		CareRecord: NewCareRecordService(repo, publisher, clock, logger),
		Export:     NewExportService(repo, clock, cfg.Facility.Name, logger),
		Session:    NewSessionService(revoker, clock, logger),
	}
}
