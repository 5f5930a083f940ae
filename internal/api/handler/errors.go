package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/xiaodeng873/CareApp/pkg/errors"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

// 業務碼
const (
	codeValidation = 10001

	codeResidentNotFound = 12001

	codeInvalidScan = 13001
	codeBedNotFound = 13002
	codeBedVacant   = 13003

	codeInvalidCareType     = 14001
	codeInvalidSlot         = 14002
	codeEmptySelection      = 14003
	codeConflictingSelected = 14004
	codeInvalidCareInput    = 14005
	codeCareRecordNotFound  = 14006
	codeInvalidDateRange    = 14007

	codeExportFailed = 15001
)

// writeKindError 依錯誤分類回應；各 handler 先處理自己的特定錯誤
// 4xx 的訊息只含 sentinel 文字，後端錯誤一律回通用訊息
func writeKindError(c *gin.Context, err error, notFoundCode int) {
	switch pkgerrors.Kind(err) {
	case pkgerrors.ErrLookupMiss:
		response.NotFound(c, notFoundCode, err.Error())
	case pkgerrors.ErrEmptySelection:
		response.BadRequest(c, codeEmptySelection, "請至少選擇一項")
	case pkgerrors.ErrInvalidInput:
		response.BadRequest(c, codeValidation, err.Error())
	case pkgerrors.ErrBedVacant:
		response.Notice(c, codeBedVacant, "床位空置", nil)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindFailed 參數綁定失敗
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "參數校驗失敗", err.Error())
}
