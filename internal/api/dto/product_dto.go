package dto

import "time"

// ProductReq 创建/更新商品请求
type ProductReq struct {
	Code              string  `json:"code" binding:"required,max=64"`
	Name              string  `json:"name" binding:"required,max=255"`
	Description       string  `json:"description"`
	Image             string  `json:"image" binding:"max=512"`
	Category          string  `json:"category" binding:"max=100"`
	Price             float64 `json:"price" binding:"required,gt=0"`
	Quantity          int     `json:"quantity" binding:"gte=0"`
	InternalReference string  `json:"internalReference" binding:"max=100"`
	ShellID           int64   `json:"shellId" binding:"gte=0"`
	InventoryStatus   string  `json:"inventoryStatus" binding:"omitempty,oneof=INSTOCK LOWSTOCK OUTOFSTOCK"`
	Rating            float64 `json:"rating" binding:"gte=0,lte=5"`
}

// ProductListQuery 商品列表查询
type ProductListQuery struct {
	PageQuery
	Category string `form:"category"`
	Keyword  string `form:"keyword"`
}

// ProductResp 商品信息
type ProductResp struct {
	ID                int64     `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Image             string    `json:"image"`
	Category          string    `json:"category"`
	Price             float64   `json:"price"`
	Quantity          int       `json:"quantity"`
	InternalReference string    `json:"internalReference"`
	ShellID           int64     `json:"shellId"`
	InventoryStatus   string    `json:"inventoryStatus"`
	Rating            float64   `json:"rating"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
