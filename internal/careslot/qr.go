package careslot

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidScan 掃描內容不是床位 QR Code
var ErrInvalidScan = errors.New("無效的 QR Code，請掃描有效的床位 QR Code")

type bedQRPayload struct {
	Type     string `json:"type"`
	QRCodeID string `json:"qr_code_id"`
}

// ParseBedQR 解析床位 QR Code：只接受 {"type":"bed","qr_code_id":"..."}。
// 其他結構或無法解析的內容一律視為無效掃描。
func ParseBedQR(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidScan
	}
	var p bedQRPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return "", ErrInvalidScan
	}
	id := strings.TrimSpace(p.QRCodeID)
	if p.Type != "bed" || id == "" {
		return "", ErrInvalidScan
	}
	return id, nil
}
