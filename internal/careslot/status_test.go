package careslot

import (
	"testing"
	"time"
)

// ── 測試輔助 ──

type testRecord struct {
	ct   CareType
	date Date
	slot string
	id   string
}

func (r testRecord) CareType() CareType { return r.ct }
func (r testRecord) RecordDate() Date   { return r.date }
func (r testRecord) SlotLabel() string  { return r.slot }

func hkTime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, FacilityZone)
}

var testDay = Date{Year: 2026, Month: time.October, Day: 16}

// ── SlotsFor ──

func TestSlotsFor_FixedSequences(t *testing.T) {
	clock := []string{"07:00", "09:00", "11:00", "13:00", "15:00", "17:00", "19:00", "21:00", "23:00", "01:00", "03:00", "05:00"}
	labeled := []string{"7AM-10AM", "11AM-2PM", "3PM-6PM", "7PM-10PM", "11PM-2AM", "3AM-6AM"}

	cases := map[CareType][]string{
		CarePatrol:    clock,
		CarePosition:  clock,
		CareRestraint: clock,
		CareDiaper:    labeled,
	}
	for ct, want := range cases {
		for round := 0; round < 2; round++ {
			got := SlotsFor(ct)
			if len(got) != len(want) {
				t.Fatalf("%s: 期望 %d 個時段，實際 %d", ct, len(want), len(got))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("%s[%d]: 期望 %s，實際 %s", ct, i, want[i], got[i])
				}
			}
		}
	}
}

func TestSlotsFor_ReturnsCopy(t *testing.T) {
	got := SlotsFor(CarePatrol)
	got[0] = "99:99"
	if SlotsFor(CarePatrol)[0] != "07:00" {
		t.Error("修改回傳值不應影響固定時段表")
	}
}

func TestSlotsFor_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("未知照護類型應 panic")
		}
	}()
	SlotsFor(CareType("toilet_training"))
}

func TestParseCareType(t *testing.T) {
	if ct, err := ParseCareType("diaper"); err != nil || ct != CareDiaper {
		t.Errorf("期望 diaper，實際 %q, %v", ct, err)
	}
	if _, err := ParseCareType("intake_output"); err == nil {
		t.Error("未支援的類型應回傳錯誤")
	}
}

// ── StatusOf ──

func TestStatusOf_ClockSlotGraceWindow(t *testing.T) {
	if got := StatusOf(CarePatrol, testDay, "09:00", hkTime(2026, 10, 16, 10, 59), nil); got.Kind != StatusPending {
		t.Errorf("10:59 期望 pending，實際 %s", got.Kind)
	}
	if got := StatusOf(CarePatrol, testDay, "09:00", hkTime(2026, 10, 16, 11, 0), nil); got.Kind != StatusPending {
		t.Errorf("11:00 恰好在截止點，期望 pending，實際 %s", got.Kind)
	}
	if got := StatusOf(CarePatrol, testDay, "09:00", hkTime(2026, 10, 16, 11, 1), nil); got.Kind != StatusOverdue {
		t.Errorf("11:01 期望 overdue，實際 %s", got.Kind)
	}
}

func TestStatusOf_LabeledSlotBoundary(t *testing.T) {
	if got := StatusOf(CareDiaper, testDay, "7AM-10AM", hkTime(2026, 10, 16, 9, 59), nil); got.Kind != StatusPending {
		t.Errorf("09:59 期望 pending，實際 %s", got.Kind)
	}
	if got := StatusOf(CareDiaper, testDay, "7AM-10AM", hkTime(2026, 10, 16, 10, 1), nil); got.Kind != StatusOverdue {
		t.Errorf("10:01 期望 overdue，實際 %s", got.Kind)
	}
}

func TestStatusOf_LabeledSlotNoonAndMidnight(t *testing.T) {
	// 11AM-2PM 截止於 14:00
	if got := StatusOf(CareDiaper, testDay, "11AM-2PM", hkTime(2026, 10, 16, 14, 1), nil); got.Kind != StatusOverdue {
		t.Errorf("14:01 期望 overdue，實際 %s", got.Kind)
	}
	// 11PM-2AM 截止於 02:00（當日分鐘比較）
	if got := StatusOf(CareDiaper, testDay, "11PM-2AM", hkTime(2026, 10, 16, 1, 59), nil); got.Kind != StatusPending {
		t.Errorf("01:59 期望 pending，實際 %s", got.Kind)
	}
	if got := StatusOf(CareDiaper, testDay, "11PM-2AM", hkTime(2026, 10, 16, 2, 1), nil); got.Kind != StatusOverdue {
		t.Errorf("02:01 期望 overdue，實際 %s", got.Kind)
	}
}

func TestStatusOf_UsesFacilityZone(t *testing.T) {
	// UTC 02:30 = 香港 10:30；09:00 時段尚未逾時
	now := time.Date(2026, 10, 16, 2, 30, 0, 0, time.UTC)
	if got := StatusOf(CarePatrol, testDay, "09:00", now, nil); got.Kind != StatusPending {
		t.Errorf("期望 pending，實際 %s", got.Kind)
	}
	// UTC 前一日 17:00 = 香港當日 01:00，日期以香港為準
	now = time.Date(2026, 10, 15, 17, 0, 0, 0, time.UTC)
	if got := StatusOf(CarePatrol, testDay.AddDays(-1), "07:00", now, nil); got.Kind != StatusOverdue {
		t.Errorf("香港已是翌日，前一日應逾時，實際 %s", got.Kind)
	}
}

func TestStatusOf_PastAndFutureDates(t *testing.T) {
	now := hkTime(2026, 10, 16, 0, 0)
	if got := StatusOf(CarePatrol, testDay.AddDays(-1), "05:00", now, nil); got.Kind != StatusOverdue {
		t.Errorf("過去日期期望 overdue，實際 %s", got.Kind)
	}
	now = hkTime(2026, 10, 16, 23, 59)
	if got := StatusOf(CarePatrol, testDay.AddDays(1), "07:00", now, nil); got.Kind != StatusPending {
		t.Errorf("未來日期期望 pending，實際 %s", got.Kind)
	}
}

func TestStatusOf_CompletedMatchesCareTypeKey(t *testing.T) {
	now := hkTime(2026, 10, 16, 23, 0)
	records := []Record{
		testRecord{ct: CarePosition, date: testDay, slot: "07:00", id: "pos"},
		testRecord{ct: CarePatrol, date: testDay.AddDays(-1), slot: "07:00", id: "yesterday"},
	}

	got := StatusOf(CarePatrol, testDay, "07:00", now, records)
	if got.Kind != StatusOverdue {
		t.Errorf("其他類型或其他日期的記錄不應配對，實際 %s", got.Kind)
	}

	got = StatusOf(CarePosition, testDay, "07:00", now, records)
	if got.Kind != StatusCompleted || got.Record.(testRecord).id != "pos" {
		t.Errorf("期望配對到轉身記錄，實際 %+v", got)
	}
}

func TestStatusOf_MalformedSlotNeverCompleted(t *testing.T) {
	now := hkTime(2026, 10, 16, 12, 0)
	records := []Record{testRecord{ct: CarePatrol, date: testDay, slot: "bogus"}}

	got := StatusOf(CarePatrol, testDay, "bogus", now, records)
	if got.Kind != StatusPending {
		t.Errorf("當日無法解析的時段應為 pending，實際 %s", got.Kind)
	}
	got = StatusOf(CarePatrol, testDay.AddDays(-2), "bogus", now, records)
	if got.Kind != StatusOverdue {
		t.Errorf("過去日期無法解析的時段應為 overdue，實際 %s", got.Kind)
	}
}

func TestStatusOf_UnknownCareTypeDoesNotPanic(t *testing.T) {
	got := StatusOf(CareType("intake_output"), testDay, "07:00", hkTime(2026, 10, 16, 6, 0), nil)
	if got.Kind != StatusPending {
		t.Errorf("期望 pending，實際 %s", got.Kind)
	}
}

func TestStatusOf_EndToEndPatrol(t *testing.T) {
	now := hkTime(2026, 10, 16, 6, 0)
	var records []Record

	if got := StatusOf(CarePatrol, testDay, "07:00", now, records); got.Kind != StatusPending {
		t.Fatalf("記錄前期望 pending，實際 %s", got.Kind)
	}

	rec := testRecord{ct: CarePatrol, date: testDay, slot: "07:00", id: "alice-0702"}
	records = append(records, rec)

	got := StatusOf(CarePatrol, testDay, "07:00", now, records)
	if got.Kind != StatusCompleted {
		t.Fatalf("記錄後期望 completed，實際 %s", got.Kind)
	}
	if got.Record != Record(rec) {
		t.Errorf("期望回傳剛寫入的記錄，實際 %+v", got.Record)
	}
}

// ── slotDeadline ──

func TestSlotDeadline(t *testing.T) {
	cases := []struct {
		slot string
		want int
		ok   bool
	}{
		{"07:00", 9 * 60, true},
		{"23:00", 25 * 60, true},
		{"7AM-10AM", 10 * 60, true},
		{"11AM-12PM", 12 * 60, true},
		{"11PM-12AM", 0, true},
		{"3PM-6PM", 18 * 60, true},
		{"7AM", 0, false},
		{"13PM-2PM", 0, false},
		{"7:00", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := slotDeadline(tc.slot)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("slotDeadline(%q) = %d,%v，期望 %d,%v", tc.slot, got, ok, tc.want, tc.ok)
		}
	}
}
