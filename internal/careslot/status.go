package careslot

import (
	"strconv"
	"strings"
	"time"
)

// clockSlotGrace 時鐘時段的寬限：時段時間 + 2 小時後才算逾時
const clockSlotGrace = 120

// Record 任一照護記錄變體需提供的比對鍵
type Record interface {
	CareType() CareType
	RecordDate() Date
	SlotLabel() string
}

// StatusKind 時段狀態
type StatusKind string

const (
	StatusPending   StatusKind = "pending"
	StatusCompleted StatusKind = "completed"
	StatusOverdue   StatusKind = "overdue"
)

// SlotStatus 單一（院友, 日期, 時段, 類型）的顯示狀態。
// Kind 為 StatusCompleted 時 Record 非 nil。
type SlotStatus struct {
	Kind   StatusKind
	Record Record
}

// StatusOf 計算時段狀態：
//  1. 有同類型、同日期、同時段的記錄 → 已完成
//  2. 日期早於今天 → 逾時；晚於今天 → 待記錄
//  3. 今天：院舍時區當日分鐘數嚴格大於時段截止分鐘 → 逾時
//
// 不合法的時段標籤永遠不會配對到記錄；今天且無法解析截止時間時視為待記錄。
func StatusOf(ct CareType, date Date, slot string, now time.Time, records []Record) SlotStatus {
	if IsValidSlot(ct, slot) {
		for _, r := range records {
			if r == nil || r.CareType() != ct {
				continue
			}
			if r.SlotLabel() == slot && r.RecordDate() == date {
				return SlotStatus{Kind: StatusCompleted, Record: r}
			}
		}
	}

	today := Today(now)
	switch {
	case date.Before(today):
		return SlotStatus{Kind: StatusOverdue}
	case date.After(today):
		return SlotStatus{Kind: StatusPending}
	}

	deadline, ok := slotDeadline(slot)
	if ok && MinutesOfDay(now) > deadline {
		return SlotStatus{Kind: StatusOverdue}
	}
	return SlotStatus{Kind: StatusPending}
}

// slotDeadline 時段截止的當日分鐘數。
// "HH:MM" 加上寬限；"<n>AM-<n>PM" 取區段結束時間，無寬限。
func slotDeadline(slot string) (int, bool) {
	if start, ok := parseClock(slot); ok {
		return start + clockSlotGrace, true
	}
	parts := strings.Split(slot, "-")
	if len(parts) != 2 {
		return 0, false
	}
	if _, ok := parseMeridiemHour(parts[0]); !ok {
		return 0, false
	}
	end, ok := parseMeridiemHour(parts[1])
	if !ok {
		return 0, false
	}
	return end * 60, true
}

// parseClock "HH:MM" → 分鐘
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// parseMeridiemHour "7AM" / "12PM" → 24 小時制的小時
func parseMeridiemHour(s string) (int, bool) {
	if len(s) < 3 {
		return 0, false
	}
	suffix := s[len(s)-2:]
	h, err := strconv.Atoi(s[:len(s)-2])
	if err != nil || h < 1 || h > 12 {
		return 0, false
	}
	switch suffix {
	case "AM":
		if h == 12 {
			return 0, true
		}
		return h, true
	case "PM":
		if h == 12 {
			return 12, true
		}
		return h + 12, true
	}
	return 0, false
}
