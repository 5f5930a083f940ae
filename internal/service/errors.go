package service

import (
	"fmt"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	pkgerrors "github.com/xiaodeng873/CareApp/pkg/errors"
)

// ── 業務錯誤 ──
// 每個錯誤包裹 pkg/errors 的分類，handler 以 errors.Is 判斷

var (
	ErrResidentNotFound   = fmt.Errorf("%w: 查無此院友", pkgerrors.ErrLookupMiss)
	ErrBedNotFound        = fmt.Errorf("%w: 找不到此床位", pkgerrors.ErrLookupMiss)
	ErrCareRecordNotFound = fmt.Errorf("%w: 照護記錄不存在", pkgerrors.ErrLookupMiss)

	ErrBedVacant = fmt.Errorf("%w: 床位目前沒有在住院友", pkgerrors.ErrBedVacant)

	ErrEmptySelection = fmt.Errorf("%w: %w", pkgerrors.ErrEmptySelection, careslot.ErrEmptySelection)

	ErrInvalidScan          = fmt.Errorf("%w: %w", pkgerrors.ErrInvalidInput, careslot.ErrInvalidScan)
	ErrInvalidCareType      = fmt.Errorf("%w: %w", pkgerrors.ErrInvalidInput, careslot.ErrUnknownCareType)
	ErrInvalidSlot          = fmt.Errorf("%w: 時段不屬於此照護類型", pkgerrors.ErrInvalidInput)
	ErrInvalidDate          = fmt.Errorf("%w: 日期格式應為 YYYY-MM-DD", pkgerrors.ErrInvalidInput)
	ErrInvalidDateRange     = fmt.Errorf("%w: 結束日期不可早於開始日期", pkgerrors.ErrInvalidInput)
	ErrDateRangeTooLong     = fmt.Errorf("%w: 查詢區間不可超過 93 天", pkgerrors.ErrInvalidInput)
	ErrConflictingSelection = fmt.Errorf("%w: %w", pkgerrors.ErrInvalidInput, careslot.ErrConflictingSelection)
	ErrInvalidPosition      = fmt.Errorf("%w: 體位只可為 左、平、右", pkgerrors.ErrInvalidInput)
	ErrInvalidObservation   = fmt.Errorf("%w: 觀察狀態只可為 N、P、S", pkgerrors.ErrInvalidInput)
	ErrRecorderRequired     = fmt.Errorf("%w: 記錄者不可為空", pkgerrors.ErrInvalidInput)
)

// backendErr 資料庫等後端錯誤統一歸類為 BackendFailure，保留原始錯誤
func backendErr(err error) error {
	return fmt.Errorf("%w: %w", pkgerrors.ErrBackendFailure, err)
}
