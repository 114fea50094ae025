package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"product_trial_back/internal/model"
)

// ==================== Token 配置 ====================

// TokenConfig Token 签发配置
type TokenConfig struct {
	SecretKey string        // HS256 签名密钥
	TTL       time.Duration // 有效期
	Issuer    string        // 签发者
}

// Token 校验失败的分类，只用于日志，对客户端统一表现为未认证
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenExpired      = errors.New("token expired")
)

// ==================== Claims 定义 ====================

// UserClaims 用户声明，Subject 为账号 ID 的十进制字符串
type UserClaims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity 请求身份
type Identity struct {
	UserID int64
	Role   model.Role
}

// ==================== TokenService ====================

// TokenService 签发与校验无状态 Token
// 不维护吊销列表：Token 在过期前始终有效
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// TokenOption TokenService 可选项
type TokenOption func(*TokenService)

// WithClock 注入时钟
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService 创建 TokenService
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if len(cfg.SecretKey) < 32 {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	s := &TokenService{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL Token 有效期
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue 为账号签发 Token，返回 Token 与过期时间
func (s *TokenService) Issue(userID int64, role model.Role) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &UserClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify 校验 Token
// 签名不匹配、格式错误或 now >= exp 时返回分类后的错误
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &UserClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		return Identity{}, classifyTokenError(err)
	}
	if !token.Valid {
		return Identity{}, ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, fmt.Errorf("%w: subject %q", ErrTokenMalformed, claims.Subject)
	}

	role := claims.Role
	if !role.Valid() {
		role = model.RoleUser
	}

	return Identity{UserID: userID, Role: role}, nil
}

// classifyTokenError 把 jwt 库错误归为三类
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenBadSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

// tokenFailureKind 日志用的失败类型
func tokenFailureKind(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}

// ==================== 请求身份上下文 ====================

type identityContextKey struct{}

// WithIdentity 注入身份到 context
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFrom 从 context 获取身份
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}

// ==================== Gin 中间件 ====================

const bearerPrefix = "Bearer "

// IdentityResolver 解析 Bearer Token 并写入请求 context
// 从不拦截请求：没有或无效的 Token 都按匿名请求继续处理，由具体路由决定是否要求登录
func IdentityResolver(tokens *TokenService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		identity, err := tokens.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			log.Warn("bearer token rejected",
				zap.String("reason", tokenFailureKind(err)),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireAuth 要求已登录
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				ErrorBody(c, http.StatusUnauthorized, "Authentication required"))
			return
		}
		c.Next()
	}
}

// ErrorBody 统一错误响应体
func ErrorBody(c *gin.Context, status int, message string) gin.H {
	return gin.H{
		"code":      status,
		"message":   message,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
