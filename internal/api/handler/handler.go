package handler

import "github.com/xiaodeng873/CareApp/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Health     *HealthHandler
	Session    *SessionHandler
	Resident   *ResidentHandler
	CareRecord *CareRecordHandler
	Export     *ExportHandler
}

// NewHandler 建立 Handler 聚合
func NewHandler(svc *service.Service, checks map[string]HealthCheck) *Handler {
	return &Handler{
		Health:     NewHealthHandler(checks),
		Session:    NewSessionHandler(svc.Session),
		Resident:   NewResidentHandler(svc.Resident),
		CareRecord: NewCareRecordHandler(svc.CareRecord),
		Export:     NewExportHandler(svc.Export),
	}
}
