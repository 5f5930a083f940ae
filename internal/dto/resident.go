package dto

// ── 院友模組 DTO ──

// ResidentSearchRequest 院友列表／搜尋參數
type ResidentSearchRequest struct {
	Q string `form:"q" binding:"omitempty,max=50"`
}

// ResidentLookupRequest 手動輸入床號或姓名
type ResidentLookupRequest struct {
	Q string `form:"q" binding:"required,max=50"`
}

// ResidentResponse 院友資料
type ResidentResponse struct {
	ID               int64    `json:"id"`
	BedCode          string   `json:"bed_code"`
	DisplayName      string   `json:"display_name"`
	Surname          string   `json:"surname,omitempty"`
	GivenName        string   `json:"given_name,omitempty"`
	Sex              string   `json:"sex"`
	BirthDate        string   `json:"birth_date,omitempty"`
	Age              *int     `json:"age,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	InfectionControl []string `json:"infection_control"`
	CareLevel        string   `json:"care_level,omitempty"`
	Status           string   `json:"status"`
}

// ── 掃描 ──

// ScanRequest 掃描到的 QR Code 原始內容
type ScanRequest struct {
	Payload string `json:"payload" binding:"required,max=512"`
}

// BedResponse 床位資料
type BedResponse struct {
	ID        string `json:"id"`
	BedNumber string `json:"bed_number"`
	QRCodeID  string `json:"qr_code_id,omitempty"`
}

// ScanResponse 掃描結果；床位空置時 Resident 為 nil
type ScanResponse struct {
	Bed      *BedResponse      `json:"bed,omitempty"`
	Resident *ResidentResponse `json:"resident,omitempty"`
}
