package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ResidentStatusActive 在住
const ResidentStatusActive = "在住"

// Resident 院友主表，由院舍管理系統維護，本服務唯讀
type Resident struct {
	ResidentID       int64           `gorm:"column:院友id;primaryKey"     json:"resident_id"`
	BedCode          string          `gorm:"column:床號"                  json:"bed_code"`
	DisplayName      string          `gorm:"column:中文姓名"                json:"display_name"`
	Surname          string          `gorm:"column:中文姓氏"                json:"surname"`
	GivenName        string          `gorm:"column:中文名字"                json:"given_name"`
	Sex              string          `gorm:"column:性別"                  json:"sex"`
	BirthDate        *datatypes.Date `gorm:"column:出生日期"                json:"birth_date,omitempty"`
	PhotoURL         *string         `gorm:"column:院友相片"                json:"photo_url,omitempty"`
	InfectionControl pq.StringArray  `gorm:"column:感染控制;type:text[]"    json:"infection_control"`
	CareLevel        *string         `gorm:"column:護理等級"                json:"care_level,omitempty"`
	Status           string          `gorm:"column:在住狀態"                json:"status"`
	BedID            *string         `gorm:"column:bed_id;type:uuid"    json:"bed_id,omitempty"`
}

// TableName 指定表名
func (Resident) TableName() string { return "院友主表" }

// IsActive 是否在住
func (r *Resident) IsActive() bool { return r.Status == ResidentStatusActive }

// Birth 出生日期，未登記時 ok=false
func (r *Resident) Birth() (time.Time, bool) {
	if r.BirthDate == nil {
		return time.Time{}, false
	}
	return time.Time(*r.BirthDate), true
}

// Bed 床位表，qr_code_id 對應床頭 QR 碼
type Bed struct {
	BedID     string `gorm:"column:id;type:uuid;primaryKey" json:"bed_id"`
	BedNumber string `gorm:"column:bed_number"              json:"bed_number"`
	QRCodeID  string `gorm:"column:qr_code_id"              json:"qr_code_id"`
}

// TableName 指定表名
func (Bed) TableName() string { return "beds" }
