// Package careslot 照護時段模型：固定時段表、時段狀態（待記錄 / 已完成 / 逾時）、
// 轉身體位輪替與換片選項校驗。純函數，不做任何 I/O。
package careslot

import (
	"errors"
	"fmt"
)

// CareType 照護類型
type CareType string

const (
	CarePatrol    CareType = "patrol"    // 巡房
	CareDiaper    CareType = "diaper"    // 換片
	CarePosition  CareType = "position"  // 轉身
	CareRestraint CareType = "restraint" // 約束觀察
)

// ErrUnknownCareType 外部輸入的照護類型無法識別
var ErrUnknownCareType = errors.New("未知的照護類型")

// clockSlots 巡房 / 轉身 / 約束共用：每 2 小時一格，跨越午夜
var clockSlots = []string{
	"07:00", "09:00", "11:00", "13:00", "15:00", "17:00",
	"19:00", "21:00", "23:00", "01:00", "03:00", "05:00",
}

// rangeSlots 換片專用：區段標籤
var rangeSlots = []string{
	"7AM-10AM", "11AM-2PM", "3PM-6PM", "7PM-10PM", "11PM-2AM", "3AM-6AM",
}

// AllCareTypes 依介面顯示順序列出所有照護類型
func AllCareTypes() []CareType {
	return []CareType{CarePatrol, CareDiaper, CarePosition, CareRestraint}
}

// ParseCareType 校驗外部字串（如 URL 路徑參數）
func ParseCareType(s string) (CareType, error) {
	ct := CareType(s)
	if _, ok := lookupSlots(ct); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCareType, s)
	}
	return ct, nil
}

// Label 中文顯示名稱
func (ct CareType) Label() string {
	switch ct {
	case CarePatrol:
		return "巡房"
	case CareDiaper:
		return "換片"
	case CarePosition:
		return "轉身"
	case CareRestraint:
		return "約束"
	}
	return string(ct)
}

func lookupSlots(ct CareType) ([]string, bool) {
	switch ct {
	case CarePatrol, CarePosition, CareRestraint:
		return clockSlots, true
	case CareDiaper:
		return rangeSlots, true
	}
	return nil, false
}

// SlotsFor 回傳該照護類型的固定時段序列（每次回傳新副本）。
// 未知類型屬於程式錯誤，直接 panic。
func SlotsFor(ct CareType) []string {
	slots, ok := lookupSlots(ct)
	if !ok {
		panic(fmt.Sprintf("careslot: unknown care type %q", string(ct)))
	}
	out := make([]string, len(slots))
	copy(out, slots)
	return out
}

// SlotIndex 時段在序列中的位置；不屬於該類型時回傳 -1
func SlotIndex(ct CareType, slot string) int {
	slots, ok := lookupSlots(ct)
	if !ok {
		return -1
	}
	for i, s := range slots {
		if s == slot {
			return i
		}
	}
	return -1
}

// IsValidSlot 時段標籤是否屬於該照護類型
func IsValidSlot(ct CareType, slot string) bool {
	return SlotIndex(ct, slot) >= 0
}
