package model

import (
	"time"
)

// InventoryStatus 库存状态
type InventoryStatus string

const (
	InventoryInStock    InventoryStatus = "INSTOCK"
	InventoryLowStock   InventoryStatus = "LOWSTOCK"
	InventoryOutOfStock InventoryStatus = "OUTOFSTOCK"
)

// ProductFields 商品可编辑字段
type ProductFields struct {
	Code              string          `gorm:"size:64;uniqueIndex;not null"`
	Name              string          `gorm:"size:255;not null"`
	Description       string          `gorm:"type:text"`
	Image             string          `gorm:"size:512"`
	Category          string          `gorm:"size:100;index"`
	Price             float64         `gorm:"not null"`
	Quantity          int             `gorm:"default:0"`
	InternalReference string          `gorm:"size:100"`
	ShellID           int64           `gorm:"default:0"`
	InventoryStatus   InventoryStatus `gorm:"size:20"`
	Rating            float64         `gorm:"default:0"`
}

// Product 目录商品
type Product struct {
	BaseModel
	AuditMixin
	ProductFields
}

func (Product) TableName() string {
	return "products"
}

// Apply 返回替换可编辑字段后的新商品状态，ID/审计/创建时间保持不变
func (p Product) Apply(fields ProductFields, at time.Time) Product {
	next := p
	next.ProductFields = fields
	next.UpdatedAt = at
	return next
}
