package dto

import "time"

// ==================== 登录 ====================

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResp 登录响应
type TokenResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ==================== 账号 ====================

// RegisterReq 注册请求
// 密码 8-32 位，至少包含一个大写字母和一个特殊字符
type RegisterReq struct {
	Username  string `json:"username" binding:"required,max=100"`
	Firstname string `json:"firstname" binding:"max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=32,password_policy"`
}

// UpdateProfileReq 更新资料请求
type UpdateProfileReq struct {
	Username  string `json:"username" binding:"required,max=100"`
	Firstname string `json:"firstname" binding:"max=100"`
}

// AccountResp 账号信息
type AccountResp struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
