package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/dto"
	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

// CareRecordHandler 照護記錄 HTTP 處理器
type CareRecordHandler struct {
	careSvc service.CareRecordService
}

// NewCareRecordHandler 建立 CareRecordHandler
func NewCareRecordHandler(careSvc service.CareRecordService) *CareRecordHandler {
	return &CareRecordHandler{careSvc: careSvc}
}

// Slots 照護類型的固定時段
// GET /api/v1/care/slots/:type
func (h *CareRecordHandler) Slots(c *gin.Context) {
	ct, ok := mustParseCareType(c)
	if !ok {
		return
	}
	response.OK(c, h.careSvc.Slots(ct))
}

// ListRecords 日期區間內的記錄
// GET /api/v1/residents/:id/care/:type/records?from=&to=
func (h *CareRecordHandler) ListRecords(c *gin.Context) {
	id, ok := mustParseResidentID(c)
	if !ok {
		return
	}
	ct, ok := mustParseCareType(c)
	if !ok {
		return
	}

	var req dto.CareRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.careSvc.List(c.Request.Context(), id, ct, req.From, req.To)
	if err != nil {
		h.handleCareError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Grid 日／週照護表
// GET /api/v1/residents/:id/care/:type/grid?date=&view=day|week
func (h *CareRecordHandler) Grid(c *gin.Context) {
	id, ok := mustParseResidentID(c)
	if !ok {
		return
	}
	ct, ok := mustParseCareType(c)
	if !ok {
		return
	}

	var req dto.CareGridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	grid, err := h.careSvc.Grid(c.Request.Context(), id, ct, req.Date, req.View)
	if err != nil {
		h.handleCareError(c, err)
		return
	}

	response.OK(c, grid)
}

// UpsertRecord 新增或覆寫一個時段的記錄
// PUT /api/v1/residents/:id/care/:type/records
func (h *CareRecordHandler) UpsertRecord(c *gin.Context) {
	id, ok := mustParseResidentID(c)
	if !ok {
		return
	}
	ct, ok := mustParseCareType(c)
	if !ok {
		return
	}

	var req dto.UpsertCareRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	result, err := h.careSvc.Upsert(c.Request.Context(), id, ct, &req, sess)
	if err != nil {
		h.handleCareError(c, err)
		return
	}

	if result.Created {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// DeleteRecord 刪除記錄
// DELETE /api/v1/care/:type/records/:recordId
func (h *CareRecordHandler) DeleteRecord(c *gin.Context) {
	ct, ok := mustParseCareType(c)
	if !ok {
		return
	}

	if err := h.careSvc.Delete(c.Request.Context(), ct, c.Param("recordId")); err != nil {
		h.handleCareError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCareError 統一處理照護記錄業務錯誤
func (h *CareRecordHandler) handleCareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResidentNotFound):
		response.NotFound(c, codeResidentNotFound, "查無此院友")
	case errors.Is(err, service.ErrCareRecordNotFound):
		response.NotFound(c, codeCareRecordNotFound, "照護記錄不存在")
	case errors.Is(err, service.ErrEmptySelection):
		response.BadRequest(c, codeEmptySelection, "請至少選擇小便、大便或無其中一項")
	case errors.Is(err, service.ErrConflictingSelection):
		response.BadRequest(c, codeConflictingSelected, "選擇「無」時不可同時選擇小便或大便")
	case errors.Is(err, service.ErrInvalidSlot):
		response.BadRequest(c, codeInvalidSlot, "時段不屬於此照護類型")
	case errors.Is(err, service.ErrInvalidDateRange), errors.Is(err, service.ErrDateRangeTooLong):
		response.BadRequest(c, codeInvalidDateRange, err.Error())
	case errors.Is(err, service.ErrInvalidPosition),
		errors.Is(err, service.ErrInvalidObservation),
		errors.Is(err, service.ErrRecorderRequired),
		errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, codeInvalidCareInput, err.Error())
	default:
		writeKindError(c, err, codeCareRecordNotFound)
	}
}
