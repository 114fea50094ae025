package dto

import "time"

// ==================== 购物车 ====================

// CartItemReq 加入购物车请求
type CartItemReq struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,min=1,max=10000"`
}

// CartItemResp 购物车条目
type CartItemResp struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ==================== 收藏夹 ====================

// WishlistItemReq 加入收藏夹请求
type WishlistItemReq struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
}

// WishlistItemResp 收藏夹条目
type WishlistItemResp struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}
