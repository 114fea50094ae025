package model

import (
	"time"
)

// BaseModel 公共字段
// 不使用软删除：购物车/收藏夹依赖 (user_id, product_id) 唯一约束，软删除的行会继续占用唯一键
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditMixin 审计字段，由 GORM 回调根据请求身份自动填充
type AuditMixin struct {
	CreatedBy int64 `gorm:"index;default:0" json:"created_by"`
	UpdatedBy int64 `gorm:"default:0" json:"updated_by"`
}
