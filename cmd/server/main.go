package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiaodeng873/CareApp/config"
	"github.com/xiaodeng873/CareApp/internal/api/handler"
	"github.com/xiaodeng873/CareApp/internal/api/router"
	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/event"
	"github.com/xiaodeng873/CareApp/internal/repository"
	"github.com/xiaodeng873/CareApp/internal/service"
	"github.com/xiaodeng873/CareApp/pkg/database"
	"github.com/xiaodeng873/CareApp/pkg/jwt"
	applogger "github.com/xiaodeng873/CareApp/pkg/logger"
	"github.com/xiaodeng873/CareApp/pkg/redis"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "care-server",
		Short:         "護老院照護記錄 API 服務",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "設定檔路徑（預設 ./config/config.yaml）")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(checkConfigCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "錯誤: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "啟動 HTTP 服務",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(*configPath)
		},
	}
}

func checkConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "讀取並校驗設定後結束",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "設定有效: port=%d db=%s@%s:%d/%s redis=%s mqtt=%v\n",
				cfg.Server.Port, cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name,
				cfg.Redis.Addr, cfg.MQTT.Enabled)
			return nil
		},
	}
}

// tokenCmd 以本地密鑰簽發 token，只供開發環境測試 API
func tokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		email  string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "簽發開發用 access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(userID, email, name, ttl)
			if err != nil {
				return fmt.Errorf("簽發 token 失敗: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "dev-user", "使用者 ID")
	cmd.Flags().StringVar(&email, "email", "dev@care.local", "電郵")
	cmd.Flags().StringVar(&name, "name", "", "顯示名稱")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "有效期")
	return cmd
}

func runServer(configPath string) error {
	// 1. 載入設定
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// 2. 初始化日誌
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("初始化日誌失敗: %w", err)
	}
	defer logger.Sync()

	logger.Info("服務啟動中",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("facility", cfg.Facility.Name),
	)

	// 3. 連線資料庫
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Error("資料庫連線失敗", zap.Error(err))
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("取得底層 sql.DB 失敗: %w", err)
	}
	defer sqlDB.Close()
	logger.Info("資料庫連線成功")

	// 4. 連線 Redis（可選：失敗時降級，不支援登出撤銷與限流）
	var (
		revoker service.TokenRevoker
		deps    = router.Deps{JWT: jwt.NewManager(&cfg.Auth)}
		checks  = map[string]handler.HealthCheck{"db": sqlDB.PingContext}
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 連線失敗，登出撤銷與限流將停用", zap.Error(err))
	} else {
		defer rdb.Close()
		// 只在連線成功時賦值，避免 nil 指標包成非 nil 介面
		revoker = rdb
		deps.Revoked = rdb
		deps.Limiter = rdb
		checks["redis"] = rdb.Ping
	}

	// 5. 照護記錄事件
	publisher := event.NewNopPublisher()
	if cfg.MQTT.Enabled {
		publisher, err = event.NewMQTTPublisher(&cfg.MQTT, logger)
		if err != nil {
			logger.Warn("MQTT 連線失敗，照護記錄事件將不會推送", zap.Error(err))
			publisher = event.NewNopPublisher()
		}
	}
	defer publisher.Close()

	// 6. 依賴注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, publisher, revoker, careslot.SystemClock{}, logger)
	h := handler.NewHandler(svc, checks)

	// 7. 初始化路由
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.Setup(cfg, h, deps, logger)

	// 8. 啟動 HTTP 服務（優雅關閉）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服務已啟動", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 9. 監聽系統訊號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("收到關閉訊號，開始優雅關閉", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("HTTP 服務異常", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服務關閉異常", zap.Error(err))
		return err
	}

	logger.Info("服務已關閉")
	return nil
}
