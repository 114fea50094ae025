package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"product_trial_back/internal/middleware"
	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
)

// ==================== AuthorizationService 访问控制 ====================

// AuthorizationService 基于请求身份的访问控制
// 身份来自请求 context，由 IdentityResolver 写入
type AuthorizationService struct {
	accountRepo repository.AccountRepository
	log         *zap.Logger
}

// NewAuthorizationService 创建访问控制服务
func NewAuthorizationService(accountRepo repository.AccountRepository, log *zap.Logger) *AuthorizationService {
	return &AuthorizationService{accountRepo: accountRepo, log: log}
}

// CurrentUserID 当前账号 ID，未登录返回 false
func (s *AuthorizationService) CurrentUserID(ctx context.Context) (int64, bool) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return 0, false
	}
	return identity.UserID, true
}

// RequireUser 要求已登录
func (s *AuthorizationService) RequireUser(ctx context.Context) (int64, error) {
	userID, ok := s.CurrentUserID(ctx)
	if !ok {
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

// CurrentUser 当前账号记录
// 未登录或账号已删除返回 (nil, nil)；查询失败原样返回错误
func (s *AuthorizationService) CurrentUser(ctx context.Context) (*model.Account, error) {
	userID, ok := s.CurrentUserID(ctx)
	if !ok {
		return nil, nil
	}

	account, err := s.accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve current account %d: %w", userID, err)
	}
	if account == nil {
		s.log.Warn("token subject no longer exists", zap.Int64("user_id", userID))
	}
	return account, nil
}

// CurrentUserEmail 当前账号邮箱，用于日志与审计
// 匿名、账号已删除或查询失败都返回空串
func (s *AuthorizationService) CurrentUserEmail(ctx context.Context) string {
	account, err := s.CurrentUser(ctx)
	if err != nil {
		s.log.Error("resolve current account email failed", zap.Error(err))
		return ""
	}
	if account == nil {
		return ""
	}
	return account.Email
}

// EnsureAdmin 要求管理员
// 无身份或账号已删除返回 ErrUnauthenticated，非管理员返回 ErrForbidden，存储错误原样返回
func (s *AuthorizationService) EnsureAdmin(ctx context.Context) error {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	account, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrUnauthenticated
	}
	if identity.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// CanView 是否可以查看指定账号：本人或管理员
func (s *AuthorizationService) CanView(ctx context.Context, accountID int64) bool {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return false
	}
	return identity.UserID == accountID || identity.Role == model.RoleAdmin
}
