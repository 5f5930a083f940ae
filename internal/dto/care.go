package dto

// ── 照護記錄 DTO ──

// UpsertCareRecordRequest 新增或覆寫一個時段的照護記錄
// 四種照護類型共用，欄位依類型取用
type UpsertCareRecordRequest struct {
	Date     string  `json:"date"     binding:"required,datetime=2006-01-02"`
	Slot     string  `json:"slot"     binding:"required,max=16"`
	Recorder string  `json:"recorder" binding:"omitempty,max=50"` // 空白時使用登入者名稱
	Notes    *string `json:"notes"    binding:"omitempty,max=500"`

	// 巡房、約束觀察：實際時間 HH:MM，空白時使用目前時間
	ActualTime string `json:"actual_time" binding:"omitempty,datetime=15:04"`

	// 換片
	HasUrine     bool    `json:"has_urine"`
	HasStool     bool    `json:"has_stool"`
	HasNone      bool    `json:"has_none"`
	UrineAmount  *string `json:"urine_amount"  binding:"omitempty,oneof=少 中 多"`
	StoolColor   *string `json:"stool_color"   binding:"omitempty,oneof=黃 啡 綠 黑 紅"`
	StoolTexture *string `json:"stool_texture" binding:"omitempty,oneof=硬 軟 稀 水狀"`
	StoolAmount  *string `json:"stool_amount"  binding:"omitempty,oneof=少 中 多"`

	// 轉身
	Position string `json:"position" binding:"omitempty,oneof=左 平 右"`

	// 約束觀察
	ObservationStatus string `json:"observation_status" binding:"omitempty,oneof=N P S"`
}

// CareRecordListRequest 日期區間（含頭尾）
type CareRecordListRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// CareGridRequest 日／週檢視；date 空白表示今日
type CareGridRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	View string `form:"view" binding:"omitempty,oneof=day week"`
}

// DiaperDetail 換片記錄內容
type DiaperDetail struct {
	HasUrine     bool    `json:"has_urine"`
	HasStool     bool    `json:"has_stool"`
	HasNone      bool    `json:"has_none"`
	UrineAmount  *string `json:"urine_amount,omitempty"`
	StoolColor   *string `json:"stool_color,omitempty"`
	StoolTexture *string `json:"stool_texture,omitempty"`
	StoolAmount  *string `json:"stool_amount,omitempty"`
}

// CareRecordResponse 照護記錄
type CareRecordResponse struct {
	ID                string        `json:"id"`
	ResidentID        int64         `json:"resident_id"`
	CareType          string        `json:"care_type"`
	Date              string        `json:"date"`
	Slot              string        `json:"slot"`
	Recorder          string        `json:"recorder"`
	ActualTime        string        `json:"actual_time,omitempty"`
	Notes             *string       `json:"notes,omitempty"`
	Diaper            *DiaperDetail `json:"diaper,omitempty"`
	Position          string        `json:"position,omitempty"`
	ObservationStatus string        `json:"observation_status,omitempty"`
	CreatedAt         string        `json:"created_at,omitempty"`
	UpdatedAt         string        `json:"updated_at,omitempty"`
}

// UpsertCareRecordResponse Created=true 表示新增，否則為覆寫既有記錄
type UpsertCareRecordResponse struct {
	Record  CareRecordResponse `json:"record"`
	Created bool               `json:"created"`
}

// SlotsResponse 照護類型的固定時段
type SlotsResponse struct {
	CareType           string   `json:"care_type"`
	Label              string   `json:"label"`
	Slots              []string `json:"slots"`
	SuggestedPositions []string `json:"suggested_positions,omitempty"`
}

// GridCellResponse 一格時段狀態
type GridCellResponse struct {
	Date   string              `json:"date"`
	Status string              `json:"status"` // pending | completed | overdue
	Record *CareRecordResponse `json:"record,omitempty"`
}

// GridRowResponse 一個時段在各日期的狀態
type GridRowResponse struct {
	Slot              string             `json:"slot"`
	SuggestedPosition string             `json:"suggested_position,omitempty"`
	Cells             []GridCellResponse `json:"cells"`
}

// CareGridResponse 日／週照護表
type CareGridResponse struct {
	ResidentID int64             `json:"resident_id"`
	CareType   string            `json:"care_type"`
	Label      string            `json:"label"`
	View       string            `json:"view"`
	Dates      []string          `json:"dates"`
	Rows       []GridRowResponse `json:"rows"`
	Summary    map[string]int    `json:"summary"`
}

// CareExportRequest 匯出一週照護表
type CareExportRequest struct {
	ResidentID int64  `form:"resident_id" binding:"required,min=1"`
	Type       string `form:"type"        binding:"required"`
	Date       string `form:"date"        binding:"omitempty,datetime=2006-01-02"`
}
