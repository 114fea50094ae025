package model

// OwnedItem 归属于某个账号、指向某个商品的记录
// (UserID, ProductID) 在各自表内唯一
type OwnedItem interface {
	CartItem | WishlistItem
	GetID() int64
	GetOwnerID() int64
	GetProductID() int64
}

// MaxCartQuantity 单个购物车条目的数量上限，合并后也不能超过
const MaxCartQuantity = 10000

// CartItem 购物车条目
type CartItem struct {
	BaseModel
	UserID    int64 `gorm:"not null;uniqueIndex:uc_cart_user_product,priority:1"`
	ProductID int64 `gorm:"not null;uniqueIndex:uc_cart_user_product,priority:2;index:idx_cart_items_product"`
	Quantity  int   `gorm:"not null;default:1"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (c CartItem) GetID() int64        { return c.ID }
func (c CartItem) GetOwnerID() int64   { return c.UserID }
func (c CartItem) GetProductID() int64 { return c.ProductID }

// WishlistItem 收藏夹条目，只记录存在性
type WishlistItem struct {
	BaseModel
	UserID    int64 `gorm:"not null;uniqueIndex:uc_wishlist_user_product,priority:1"`
	ProductID int64 `gorm:"not null;uniqueIndex:uc_wishlist_user_product,priority:2;index:idx_wishlist_items_product"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}

func (w WishlistItem) GetID() int64        { return w.ID }
func (w WishlistItem) GetOwnerID() int64   { return w.UserID }
func (w WishlistItem) GetProductID() int64 { return w.ProductID }
