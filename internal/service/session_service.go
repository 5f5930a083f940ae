package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiaodeng873/CareApp/internal/careslot"
	"github.com/xiaodeng873/CareApp/internal/dto"
	"github.com/xiaodeng873/CareApp/pkg/jwt"
)

// Session 目前請求的登入者，由 JWT 中介層建立後明確傳遞
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	TokenID     string
	ExpiresAt   time.Time
}

// SessionFromClaims 由已驗證的 token 聲明建立 Session
// 未提供顯示名稱時以 email 帳號部分代替
func SessionFromClaims(c *jwt.Claims) *Session {
	sess := &Session{
		UserID:      c.Subject,
		Email:       c.Email,
		DisplayName: strings.TrimSpace(c.DisplayName),
		TokenID:     c.ID,
	}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	if sess.DisplayName == "" {
		if at := strings.IndexByte(c.Email, '@'); at > 0 {
			sess.DisplayName = c.Email[:at]
		} else {
			sess.DisplayName = c.Email
		}
	}
	return sess
}

// TokenRevoker 登出時撤銷 token
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// SessionService 登入狀態業務介面
type SessionService interface {
	Describe(sess *Session) *dto.SessionResponse
	Logout(ctx context.Context, sess *Session) error
}

type sessionService struct {
	revoker TokenRevoker
	clock   careslot.Clock
	logger  *zap.Logger
}

// NewSessionService revoker 可為 nil（未設定 Redis 時登出只由前端丟棄 token）
func NewSessionService(revoker TokenRevoker, clock careslot.Clock, logger *zap.Logger) SessionService {
	return &sessionService{revoker: revoker, clock: clock, logger: logger}
}

func (s *sessionService) Describe(sess *Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		UserID:      sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		ExpiresAt:   sess.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func (s *sessionService) Logout(ctx context.Context, sess *Session) error {
	if s.revoker == nil || sess.TokenID == "" {
		return nil
	}
	ttl := sess.ExpiresAt.Sub(s.clock.Now())
	if err := s.revoker.RevokeToken(ctx, sess.TokenID, ttl); err != nil {
		s.logger.Error("撤銷 token 失敗", zap.String("user_id", sess.UserID), zap.Error(err))
		return backendErr(err)
	}
	s.logger.Info("使用者登出", zap.String("user_id", sess.UserID))
	return nil
}
