package model

import (
	"strings"
	"time"
)

// Role 系统角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account 注册账号
type Account struct {
	BaseModel
	Username  string `gorm:"size:100;not null"`
	Firstname string `gorm:"size:100"`
	Email     string `gorm:"size:255;uniqueIndex;not null"` // 统一小写存储
	Password  string `gorm:"size:255;not null"`             // bcrypt 哈希
	Role      Role   `gorm:"size:20;not null;default:'user'"`
}

func (Account) TableName() string {
	return "accounts"
}

// IsAdmin 是否管理员
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// WithProfile 返回更新资料后的新账号状态，原值不变
func (a Account) WithProfile(username, firstname string, at time.Time) Account {
	next := a
	next.Username = strings.TrimSpace(username)
	next.Firstname = strings.TrimSpace(firstname)
	next.UpdatedAt = at
	return next
}

// NormalizeEmail 邮箱统一为去空格小写，注册与登录共用
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
