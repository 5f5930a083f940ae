package dto

// SessionResponse 目前登入狀態
type SessionResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	ExpiresAt   string `json:"expires_at"`
}
