package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/xiaodeng873/CareApp/internal/careslot"
)

// CareRecord 四種照護記錄的共同介面
type CareRecord interface {
	careslot.Record
	RecordID() string
	SetRecordID(id string)
	ResidentID() int64
	RecorderName() string
	// UpdatableColumns 覆寫既有時段記錄時要更新的欄位
	UpdatableColumns() map[string]interface{}
}

// CareTable 每種照護類型的表名與時段鍵欄位
type CareTable struct {
	Table      string
	DateColumn string
	SlotColumn string
}

var careTables = map[careslot.CareType]CareTable{
	careslot.CarePatrol:    {Table: "patrol_rounds", DateColumn: "patrol_date", SlotColumn: "scheduled_time"},
	careslot.CareDiaper:    {Table: "diaper_change_records", DateColumn: "change_date", SlotColumn: "time_slot"},
	careslot.CarePosition:  {Table: "position_change_records", DateColumn: "change_date", SlotColumn: "scheduled_time"},
	careslot.CareRestraint: {Table: "restraint_observation_records", DateColumn: "observation_date", SlotColumn: "scheduled_time"},
}

// TableFor 回傳照護類型對應的表資訊
func TableFor(ct careslot.CareType) (CareTable, bool) {
	t, ok := careTables[ct]
	return t, ok
}

// NewCareRecord 建立對應類型的空記錄（指標），未知類型回傳 nil
func NewCareRecord(ct careslot.CareType) CareRecord {
	switch ct {
	case careslot.CarePatrol:
		return &PatrolRound{}
	case careslot.CareDiaper:
		return &DiaperChangeRecord{}
	case careslot.CarePosition:
		return &PositionChangeRecord{}
	case careslot.CareRestraint:
		return &RestraintObservationRecord{}
	}
	return nil
}

func civil(d datatypes.Date) careslot.Date {
	return careslot.DateFromTime(time.Time(d))
}

// ToDBDate careslot.Date 轉為 DATE 欄位值
func ToDBDate(d careslot.Date) datatypes.Date {
	return datatypes.Date(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
}

// ── 巡房 ──

// PatrolRound 巡房記錄，對應 patrol_rounds
type PatrolRound struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PatientID     int64          `gorm:"column:patient_id;not null"     json:"patient_id"`
	PatrolDate    datatypes.Date `gorm:"column:patrol_date;not null"    json:"patrol_date"`
	PatrolTime    string         `gorm:"column:patrol_time;type:time"   json:"patrol_time"`
	ScheduledTime string         `gorm:"column:scheduled_time;not null" json:"scheduled_time"`
	Recorder      string         `gorm:"column:recorder;not null"       json:"recorder"`
	Notes         *string        `gorm:"column:notes"                   json:"notes,omitempty"`
	BaseModel
}

func (PatrolRound) TableName() string { return "patrol_rounds" }

func (r PatrolRound) CareType() careslot.CareType { return careslot.CarePatrol }
func (r PatrolRound) RecordDate() careslot.Date   { return civil(r.PatrolDate) }
func (r PatrolRound) SlotLabel() string           { return r.ScheduledTime }
func (r PatrolRound) RecordID() string            { return r.ID }
func (r *PatrolRound) SetRecordID(id string)      { r.ID = id }
func (r PatrolRound) ResidentID() int64           { return r.PatientID }
func (r PatrolRound) RecorderName() string        { return r.Recorder }

func (r PatrolRound) UpdatableColumns() map[string]interface{} {
	return map[string]interface{}{
		"patrol_time": r.PatrolTime,
		"recorder":    r.Recorder,
		"notes":       r.Notes,
	}
}

// ── 換片 ──

// DiaperChangeRecord 換片記錄，對應 diaper_change_records
type DiaperChangeRecord struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PatientID    int64          `gorm:"column:patient_id;not null"     json:"patient_id"`
	ChangeDate   datatypes.Date `gorm:"column:change_date;not null"    json:"change_date"`
	TimeSlot     string         `gorm:"column:time_slot;not null"      json:"time_slot"`
	HasUrine     bool           `gorm:"column:has_urine;not null"      json:"has_urine"`
	HasStool     bool           `gorm:"column:has_stool;not null"      json:"has_stool"`
	HasNone      bool           `gorm:"column:has_none;not null"       json:"has_none"`
	UrineAmount  *string        `gorm:"column:urine_amount"            json:"urine_amount,omitempty"`  // 少 | 中 | 多
	StoolColor   *string        `gorm:"column:stool_color"             json:"stool_color,omitempty"`   // 黃 | 啡 | 綠 | 黑 | 紅
	StoolTexture *string        `gorm:"column:stool_texture"           json:"stool_texture,omitempty"` // 硬 | 軟 | 稀 | 水狀
	StoolAmount  *string        `gorm:"column:stool_amount"            json:"stool_amount,omitempty"`  // 少 | 中 | 多
	Recorder     string         `gorm:"column:recorder;not null"       json:"recorder"`
	BaseModel
}

func (DiaperChangeRecord) TableName() string { return "diaper_change_records" }

func (r DiaperChangeRecord) CareType() careslot.CareType { return careslot.CareDiaper }
func (r DiaperChangeRecord) RecordDate() careslot.Date   { return civil(r.ChangeDate) }
func (r DiaperChangeRecord) SlotLabel() string           { return r.TimeSlot }
func (r DiaperChangeRecord) RecordID() string            { return r.ID }
func (r *DiaperChangeRecord) SetRecordID(id string)      { r.ID = id }
func (r DiaperChangeRecord) ResidentID() int64           { return r.PatientID }
func (r DiaperChangeRecord) RecorderName() string        { return r.Recorder }

func (r DiaperChangeRecord) UpdatableColumns() map[string]interface{} {
	return map[string]interface{}{
		"has_urine":     r.HasUrine,
		"has_stool":     r.HasStool,
		"has_none":      r.HasNone,
		"urine_amount":  r.UrineAmount,
		"stool_color":   r.StoolColor,
		"stool_texture": r.StoolTexture,
		"stool_amount":  r.StoolAmount,
		"recorder":      r.Recorder,
	}
}

// ── 轉身 ──

// PositionChangeRecord 轉身記錄，對應 position_change_records
type PositionChangeRecord struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PatientID     int64          `gorm:"column:patient_id;not null"     json:"patient_id"`
	ChangeDate    datatypes.Date `gorm:"column:change_date;not null"    json:"change_date"`
	ScheduledTime string         `gorm:"column:scheduled_time;not null" json:"scheduled_time"`
	Position      string         `gorm:"column:position;not null"       json:"position"` // 左 | 平 | 右
	Recorder      string         `gorm:"column:recorder;not null"       json:"recorder"`
	BaseModel
}

func (PositionChangeRecord) TableName() string { return "position_change_records" }

func (r PositionChangeRecord) CareType() careslot.CareType { return careslot.CarePosition }
func (r PositionChangeRecord) RecordDate() careslot.Date   { return civil(r.ChangeDate) }
func (r PositionChangeRecord) SlotLabel() string           { return r.ScheduledTime }
func (r PositionChangeRecord) RecordID() string            { return r.ID }
func (r *PositionChangeRecord) SetRecordID(id string)      { r.ID = id }
func (r PositionChangeRecord) ResidentID() int64           { return r.PatientID }
func (r PositionChangeRecord) RecorderName() string        { return r.Recorder }

func (r PositionChangeRecord) UpdatableColumns() map[string]interface{} {
	return map[string]interface{}{
		"position": r.Position,
		"recorder": r.Recorder,
	}
}

// ── 約束觀察 ──

// RestraintObservationRecord 約束觀察記錄，對應 restraint_observation_records
type RestraintObservationRecord struct {
	ID                string         `gorm:"column:id;type:uuid;primaryKey"     json:"id"`
	PatientID         int64          `gorm:"column:patient_id;not null"         json:"patient_id"`
	ObservationDate   datatypes.Date `gorm:"column:observation_date;not null"   json:"observation_date"`
	ObservationTime   string         `gorm:"column:observation_time;type:time"  json:"observation_time"`
	ScheduledTime     string         `gorm:"column:scheduled_time;not null"     json:"scheduled_time"`
	ObservationStatus string         `gorm:"column:observation_status;not null" json:"observation_status"` // N | P | S
	Recorder          string         `gorm:"column:recorder;not null"           json:"recorder"`
	Notes             *string        `gorm:"column:notes"                       json:"notes,omitempty"`
	BaseModel
}

func (RestraintObservationRecord) TableName() string { return "restraint_observation_records" }

func (r RestraintObservationRecord) CareType() careslot.CareType { return careslot.CareRestraint }
func (r RestraintObservationRecord) RecordDate() careslot.Date   { return civil(r.ObservationDate) }
func (r RestraintObservationRecord) SlotLabel() string           { return r.ScheduledTime }
func (r RestraintObservationRecord) RecordID() string            { return r.ID }
func (r *RestraintObservationRecord) SetRecordID(id string)      { r.ID = id }
func (r RestraintObservationRecord) ResidentID() int64           { return r.PatientID }
func (r RestraintObservationRecord) RecorderName() string        { return r.Recorder }

func (r RestraintObservationRecord) UpdatableColumns() map[string]interface{} {
	return map[string]interface{}{
		"observation_time":   r.ObservationTime,
		"observation_status": r.ObservationStatus,
		"recorder":           r.Recorder,
		"notes":              r.Notes,
	}
}
