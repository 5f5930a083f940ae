package careslot

import (
	"fmt"
	"time"
)

// FacilityZone 院舍所在時區（香港，固定 UTC+8，不受主機時區影響）
var FacilityZone = time.FixedZone("HKT", 8*60*60)

const dateLayout = "2006-01-02"

// Date 民用日曆日期（無時分秒、無時區）
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("日期格式無效 %q: %w", s, err)
	}
	return DateFromTime(t), nil
}

// DateFromTime 直接取 t 自身的年月日，不做時區轉換。
// 用於資料庫 DATE 欄位掃描出來的值。
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today 院舍時區下 now 所在的日期
func Today(now time.Time) Date {
	return DateFromTime(now.In(FacilityZone))
}

// MinutesOfDay 院舍時區下 now 的當日分鐘數（0..1439）
func MinutesOfDay(now time.Time) int {
	local := now.In(FacilityZone)
	return local.Hour()*60 + local.Minute()
}

// Time 院舍時區當日零時
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, FacilityZone)
}

// AddDays 加減天數
func (d Date) AddDays(n int) Date {
	return DateFromTime(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare 比較兩個日期：d<o 回傳 -1，相等回傳 0，d>o 回傳 1
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// IsZero 是否未設定
func (d Date) IsZero() bool { return d == Date{} }

// Weekday 星期幾
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// WeekOf 回傳 d 所在週的週一至週日
func WeekOf(d Date) []Date {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := d.AddDays(-offset)
	days := make([]Date, 7)
	for i := range days {
		days[i] = monday.AddDays(i)
	}
	return days
}

// YearsBetween 計算 from 至 to 的足歲數；from 晚於 to 時回傳 0
func YearsBetween(from, to Date) int {
	if from.After(to) {
		return 0
	}
	years := to.Year - from.Year
	if to.Month < from.Month || (to.Month == from.Month && to.Day < from.Day) {
		years--
	}
	return years
}

// Clock 提供目前時間
type Clock interface {
	Now() time.Time
}

// SystemClock 系統時鐘
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock 固定時間，供測試使用
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
