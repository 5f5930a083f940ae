package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiaodeng873/CareApp/config"
	"github.com/xiaodeng873/CareApp/internal/api/handler"
	"github.com/xiaodeng873/CareApp/internal/api/middleware"
	"github.com/xiaodeng873/CareApp/pkg/jwt"
)

// Deps 路由需要的外部依賴；Redis 未設定時兩者皆為 nil
type Deps struct {
	JWT     *jwt.Manager
	Revoked middleware.RevocationChecker
	Limiter middleware.RateLimiter
}

// Setup 初始化並回傳 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全域中介層 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康檢查 ──
	r.GET("/health", h.Health.Health)

	limit := middleware.RateLimit(deps.Limiter, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)

	// ── API v1（全部需要登入）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(deps.JWT, deps.Revoked))
	{
		// 登入狀態
		session := v1.Group("/session")
		{
			session.GET("", h.Session.GetSession)
			session.POST("/logout", h.Session.Logout)
		}

		// 院友
		residents := v1.Group("/residents")
		{
			residents.GET("", h.Resident.ListResidents)
			residents.GET("/lookup", h.Resident.Lookup)
			residents.GET("/:id", h.Resident.GetResident)

			// 照護記錄
			residents.GET("/:id/care/:type/records", h.CareRecord.ListRecords)
			residents.GET("/:id/care/:type/grid", h.CareRecord.Grid)
			residents.PUT("/:id/care/:type/records", limit, h.CareRecord.UpsertRecord)
		}

		// 床位掃描
		v1.POST("/scan", limit, h.Resident.Scan)

		care := v1.Group("/care")
		{
			care.GET("/slots/:type", h.CareRecord.Slots)
			care.DELETE("/:type/records/:recordId", limit, h.CareRecord.DeleteRecord)
		}

		// 匯出
		export := v1.Group("/export")
		{
			export.GET("/care-week", h.Export.ExportCareWeek)
		}
	}

	return r
}
