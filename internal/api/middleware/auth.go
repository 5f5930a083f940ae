package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/jwt"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

// SessionKey gin.Context 中存放 *service.Session 的鍵
const SessionKey = "session"

// RevocationChecker 查詢 token 是否已登出
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTAuth 驗證 Authorization: Bearer <token>，通過後注入 Session
// revoked 為 nil 時不檢查登出狀態；查詢出錯時降級放行
func JWTAuth(jwtMgr *jwt.Manager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少認證標頭")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "認證標頭格式無效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			msg := "Token 無效"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "登入已過期，請重新登入"
			}
			response.Unauthorized(c, 10002, msg)
			c.Abort()
			return
		}

		if revoked != nil && claims.ID != "" {
			if yes, err := revoked.IsRevoked(c.Request.Context(), claims.ID); err == nil && yes {
				response.Unauthorized(c, 10002, "已登出，請重新登入")
				c.Abort()
				return
			}
		}

		c.Set(SessionKey, service.SessionFromClaims(claims))
		c.Next()
	}
}
