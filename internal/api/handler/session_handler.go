package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

// SessionHandler 登入狀態 HTTP 處理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 建立 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// GetSession 目前登入者
// GET /api/v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}
	response.OK(c, h.sessionSvc.Describe(sess))
}

// Logout 登出，撤銷目前的 token
// POST /api/v1/session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	sess, ok := MustGetSession(c)
	if !ok {
		return
	}

	if err := h.sessionSvc.Logout(c.Request.Context(), sess); err != nil {
		writeKindError(c, err, 10002)
		return
	}

	response.OK(c, nil)
}
