package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/dto"
	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

// ResidentHandler 院友與床位掃描 HTTP 處理器
type ResidentHandler struct {
	residentSvc service.ResidentService
}

// NewResidentHandler 建立 ResidentHandler
func NewResidentHandler(residentSvc service.ResidentService) *ResidentHandler {
	return &ResidentHandler{residentSvc: residentSvc}
}

// ListResidents 在住院友列表，q 為床號或姓名
// GET /api/v1/residents?q=
func (h *ResidentHandler) ListResidents(c *gin.Context) {
	var req dto.ResidentSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.residentSvc.List(c.Request.Context(), req.Q)
	if err != nil {
		h.handleResidentError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetResident 院友詳情
// GET /api/v1/residents/:id
func (h *ResidentHandler) GetResident(c *gin.Context) {
	id, ok := mustParseResidentID(c)
	if !ok {
		return
	}

	res, err := h.residentSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleResidentError(c, err)
		return
	}

	response.OK(c, res)
}

// Lookup 手動輸入床號或姓名
// GET /api/v1/residents/lookup?q=
func (h *ResidentHandler) Lookup(c *gin.Context) {
	var req dto.ResidentLookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.residentSvc.Lookup(c.Request.Context(), req.Q)
	if err != nil {
		h.handleScanError(c, result, err)
		return
	}

	response.OK(c, result)
}

// Scan 解析床位 QR Code
// POST /api/v1/scan
func (h *ResidentHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.residentSvc.Scan(c.Request.Context(), req.Payload)
	if err != nil {
		h.handleScanError(c, result, err)
		return
	}

	response.OK(c, result)
}

// handleScanError 床位空置不是錯誤，回 200 並帶床位資料
func (h *ResidentHandler) handleScanError(c *gin.Context, result *dto.ScanResponse, err error) {
	switch {
	case errors.Is(err, service.ErrBedVacant):
		response.Notice(c, codeBedVacant, "此床位目前沒有在住院友", result)
	case errors.Is(err, service.ErrInvalidScan):
		response.BadRequest(c, codeInvalidScan, "無法識別的 QR Code")
	case errors.Is(err, service.ErrBedNotFound):
		response.NotFound(c, codeBedNotFound, "找不到此床位")
	default:
		h.handleResidentError(c, err)
	}
}

func (h *ResidentHandler) handleResidentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResidentNotFound):
		response.NotFound(c, codeResidentNotFound, "查無此院友")
	default:
		writeKindError(c, err, codeResidentNotFound)
	}
}
