package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/middleware"
	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
)

// ==================== AccountService 账号服务 ====================

// AccountConfig 账号服务配置
type AccountConfig struct {
	AdminEmail string // 注册/签发时匹配该邮箱（忽略大小写）的账号为管理员
	BcryptCost int
}

// AccountService 账号服务
type AccountService struct {
	accountRepo repository.AccountRepository
	tokens      *middleware.TokenService
	cfg         AccountConfig
	now         func() time.Time
	log         *zap.Logger

	// 邮箱不存在时也执行一次 bcrypt 比较，避免通过响应时间判断邮箱是否注册
	dummyOnce sync.Once
	dummyHash []byte
}

// NewAccountService 创建账号服务
func NewAccountService(
	accountRepo repository.AccountRepository,
	tokens *middleware.TokenService,
	cfg AccountConfig,
	log *zap.Logger,
	opts ...Option,
) *AccountService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	cfg.AdminEmail = model.NormalizeEmail(cfg.AdminEmail)

	o := applyOptions(opts)
	return &AccountService{
		accountRepo: accountRepo,
		tokens:      tokens,
		cfg:         cfg,
		now:         o.now,
		log:         log.Named("account"),
	}
}

// ==================== 认证相关 ====================

// Login 邮箱密码登录，签发 Token
// 邮箱不存在与密码错误统一返回 ErrInvalidCredentials
func (s *AccountService) Login(ctx context.Context, req *dto.LoginReq) (*dto.TokenResp, error) {
	email := model.NormalizeEmail(req.Email)

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	hash := s.fallbackHash()
	if account != nil {
		hash = []byte(account.Password)
	}
	compareErr := bcrypt.CompareHashAndPassword(hash, []byte(req.Password))
	if account == nil || compareErr != nil {
		s.log.Info("login rejected", zap.Bool("known_email", account != nil))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(account.ID, s.roleFor(account))
	if err != nil {
		return nil, err
	}

	return &dto.TokenResp{Token: token, ExpiresAt: expiresAt}, nil
}

// fallbackHash 与真实哈希同成本的占位哈希
func (s *AccountService) fallbackHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.cfg.BcryptCost)
		if err != nil {
			s.log.Error("generate placeholder hash failed", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// roleFor 签发时确定角色
func (s *AccountService) roleFor(account *model.Account) model.Role {
	if account.IsAdmin() || s.isAdminEmail(account.Email) {
		return model.RoleAdmin
	}
	return model.RoleUser
}

func (s *AccountService) isAdminEmail(email string) bool {
	return s.cfg.AdminEmail != "" && strings.EqualFold(email, s.cfg.AdminEmail)
}

// ==================== 账号管理 ====================

// Register 注册账号
func (s *AccountService) Register(ctx context.Context, req *dto.RegisterReq) (*model.Account, error) {
	email := model.NormalizeEmail(req.Email)

	// 检查邮箱是否存在
	exists, err := s.accountRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	// 加密密码
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if s.isAdminEmail(email) {
		role = model.RoleAdmin
	}

	now := s.now()
	account := &model.Account{
		Username:  strings.TrimSpace(req.Username),
		Firstname: strings.TrimSpace(req.Firstname),
		Email:     email,
		Password:  string(hashed),
		Role:      role,
	}
	account.CreatedAt = now
	account.UpdatedAt = now

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("account registered", zap.Int64("user_id", account.ID), zap.String("role", string(role)))
	return account, nil
}

// GetByID 获取账号
func (s *AccountService) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// UpdateProfile 更新个人资料
func (s *AccountService) UpdateProfile(ctx context.Context, id int64, req *dto.UpdateProfileReq) (*model.Account, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := account.WithProfile(req.Username, req.Firstname, s.now())
	if err := s.accountRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 删除账号及其购物车、收藏夹
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.accountRepo.DeleteWithItems(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAccountNotFound
	}
	s.log.Info("account deleted", zap.Int64("user_id", id))
	return nil
}
