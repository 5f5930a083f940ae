package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/dto"
	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 匯出模組 HTTP 處理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 建立 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportCareWeek 匯出院友一週照護表
// GET /api/v1/export/care-week?resident_id=&type=&date=
func (h *ExportHandler) ExportCareWeek(c *gin.Context) {
	var req dto.CareExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	ct, err := careslot.ParseCareType(req.Type)
	if err != nil {
		response.BadRequest(c, codeInvalidCareType, "不支援的照護類型")
		return
	}

	buf, filename, err := h.exportSvc.ExportCareWeek(c.Request.Context(), req.ResidentID, ct, req.Date)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResidentNotFound):
		response.NotFound(c, codeResidentNotFound, "查無此院友")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.ErrorWithDetails(c, http.StatusInternalServerError, codeExportFailed, "匯出失敗", err.Error())
	default:
		writeKindError(c, err, codeResidentNotFound)
	}
}
