package careslot

import "errors"

// 轉身體位
const (
	PositionLeft  = "左"
	PositionFlat  = "平"
	PositionRight = "右"
)

var positionRotation = [3]string{PositionLeft, PositionFlat, PositionRight}

// SuggestedPosition 新增轉身記錄時的預設體位：左 → 平 → 右 循環。
// 僅作預填，不限制使用者實際提交的體位。
func SuggestedPosition(slotIndex int) string {
	i := slotIndex % len(positionRotation)
	if i < 0 {
		i += len(positionRotation)
	}
	return positionRotation[i]
}

// IsValidPosition 體位取值校驗
func IsValidPosition(p string) bool {
	return p == PositionLeft || p == PositionFlat || p == PositionRight
}

// 約束觀察狀態
const (
	RestraintNormal    = "N" // 正常
	RestraintProblem   = "P" // 有問題
	RestraintSuspended = "S" // 暫停
)

// IsValidRestraintStatus 約束觀察狀態取值校驗
func IsValidRestraintStatus(s string) bool {
	return s == RestraintNormal || s == RestraintProblem || s == RestraintSuspended
}

var (
	// ErrEmptySelection 換片記錄未選擇任何排泄情況
	ErrEmptySelection = errors.New("請至少選擇一項排泄情況")
	// ErrConflictingSelection 「無」與「小便 / 大便」同時選取
	ErrConflictingSelection = errors.New("「無」不可與小便或大便同時選取")
)

// ValidateDiaperSelection 三項皆未選取時失敗；其餘組合一律通過。
// 「無」與其他兩項的互斥由輸入介面負責。
func ValidateDiaperSelection(hasUrine, hasStool, hasNone bool) error {
	if !hasUrine && !hasStool && !hasNone {
		return ErrEmptySelection
	}
	return nil
}

// CheckDiaperExclusivity 寫入前的嚴格校驗：「無」排除小便與大便
func CheckDiaperExclusivity(hasUrine, hasStool, hasNone bool) error {
	if hasNone && (hasUrine || hasStool) {
		return ErrConflictingSelection
	}
	return nil
}
