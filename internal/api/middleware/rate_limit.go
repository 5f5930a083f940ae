package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/response"
)

// RateLimiter 滑動窗口限流
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 寫入類接口限流；已登入時以使用者計算，否則以 IP
// limiter 為 nil 或出錯時降級放行
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		who := "ip:" + c.ClientIP()
		if v, ok := c.Get(SessionKey); ok {
			if sess, ok := v.(*service.Session); ok && sess.UserID != "" {
				who = "user:" + sess.UserID
			}
		}

		key := fmt.Sprintf("rate_limit:%s:%s", who, c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
