package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/api/middleware"
	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

// MustGetSession 從 Gin 上下文取出 JWT 中介層注入的 Session。
// 取不到時寫入 401 回應並回傳 false，呼叫方應直接 return。
func MustGetSession(c *gin.Context) (*service.Session, bool) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		response.Unauthorized(c, 10002, "未登入")
		return nil, false
	}
	sess, ok := v.(*service.Session)
	if !ok || sess == nil || sess.UserID == "" {
		response.Unauthorized(c, 10002, "未登入")
		return nil, false
	}
	return sess, true
}

// mustParseResidentID 解析路徑參數 :id
func mustParseResidentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "院友 ID 無效")
		return 0, false
	}
	return id, true
}

// mustParseCareType 解析路徑參數 :type
func mustParseCareType(c *gin.Context) (careslot.CareType, bool) {
	ct, err := careslot.ParseCareType(c.Param("type"))
	if err != nil {
		response.BadRequest(c, codeInvalidCareType, "不支援的照護類型")
		return "", false
	}
	return ct, true
}
