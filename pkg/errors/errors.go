package errors

import "errors"

// 錯誤分類：服務層的 sentinel 錯誤以 %w 包裹其中之一，
// handler 再依分類決定 HTTP 狀態碼。
var (
	// ErrLookupMiss 查無院友、床位或記錄
	ErrLookupMiss = errors.New("查無資料")

	// ErrEmptySelection 換片記錄未選擇任何排泄情況
	ErrEmptySelection = errors.New("未選擇任何項目")

	// ErrBackendFailure 後端（資料庫、Redis）讀寫失敗
	ErrBackendFailure = errors.New("後端服務暫時無法使用")

	// ErrBedVacant 床位存在但目前沒有在住院友，屬提示性質
	ErrBedVacant = errors.New("床位空置")

	// ErrInvalidInput 其他輸入校驗失敗
	ErrInvalidInput = errors.New("輸入資料無效")
)

// Kind 回傳 err 所屬的分類；無法分類時視為後端失敗
func Kind(err error) error {
	for _, k := range []error{ErrLookupMiss, ErrEmptySelection, ErrBedVacant, ErrInvalidInput, ErrBackendFailure} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrBackendFailure
}
