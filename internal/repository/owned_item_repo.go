package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"product_trial_back/internal/model"
)

// ==================== OwnedItemRepository 归属条目仓库 ====================

// OwnedItemRepository 按账号归属的条目仓库，购物车与收藏夹共用
// 除 DeleteByID 外，所有读操作都带 owner 条件
type OwnedItemRepository[T model.OwnedItem] interface {
	// Create 写入新条目，(user_id, product_id) 冲突返回 ErrDuplicate
	Create(ctx context.Context, item *T) error
	GetByOwnerAndProduct(ctx context.Context, ownerID, productID int64) (*T, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*T, error)
	ExistsByIDAndOwner(ctx context.Context, id, ownerID int64) (bool, error)
	// DeleteByID 按 ID 删除，调用方需先校验归属
	DeleteByID(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64, page Page) ([]T, int64, error)
}

// ==================== 实现 ====================

type ownedItemRepository[T model.OwnedItem] struct {
	db *gorm.DB
}

func newOwnedItemRepository[T model.OwnedItem](db *gorm.DB) *ownedItemRepository[T] {
	return &ownedItemRepository[T]{db: db}
}

// Create 创建条目
func (r *ownedItemRepository[T]) Create(ctx context.Context, item *T) error {
	return translateWriteError(r.db.WithContext(ctx).Create(item).Error)
}

// GetByOwnerAndProduct 查询账号对某商品的条目，不存在返回 nil
func (r *ownedItemRepository[T]) GetByOwnerAndProduct(ctx context.Context, ownerID, productID int64) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", ownerID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDAndOwner 按 ID 查询且必须属于该账号，否则返回 nil
func (r *ownedItemRepository[T]) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsByIDAndOwner 检查条目是否存在且属于该账号
func (r *ownedItemRepository[T]) ExistsByIDAndOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND user_id = ?", id, ownerID).
		Count(&count).Error
	return count > 0, err
}

// DeleteByID 按 ID 删除
func (r *ownedItemRepository[T]) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(new(T), id).Error
}

// ListByOwner 账号的条目列表
func (r *ownedItemRepository[T]) ListByOwner(ctx context.Context, ownerID int64, page Page) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	err := query.
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&items).Error

	return items, total, err
}

// ==================== CartItemRepository 购物车仓库 ====================

// CartItemRepository 购物车仓库接口
type CartItemRepository interface {
	OwnedItemRepository[model.CartItem]
	// AddQuantity 原子累加数量，累加后超过 limit 或记录不存在时不更新并返回 false
	AddQuantity(ctx context.Context, id int64, delta, limit int, at time.Time) (bool, error)
	// DeleteUpdatedBefore 删除 updated_at 早于指定时间的条目
	DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type cartItemRepository struct {
	*ownedItemRepository[model.CartItem]
}

// NewCartItemRepository 创建购物车仓库
func NewCartItemRepository(db *gorm.DB) CartItemRepository {
	return &cartItemRepository{ownedItemRepository: newOwnedItemRepository[model.CartItem](db)}
}

// AddQuantity 在数据库侧累加，避免并发合并时互相覆盖
// 上限条件写在 WHERE 里，溢出的累加不会落库
func (r *cartItemRepository) AddQuantity(ctx context.Context, id int64, delta, limit int, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND quantity <= ?", id, limit-delta).
		UpdateColumns(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": at,
		})
	return result.RowsAffected > 0, result.Error
}

// DeleteUpdatedBefore 清理长期未更新的购物车条目
func (r *cartItemRepository) DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", before).
		Delete(&model.CartItem{})
	return result.RowsAffected, result.Error
}

// ==================== WishlistItemRepository 收藏夹仓库 ====================

// WishlistItemRepository 收藏夹仓库接口
type WishlistItemRepository interface {
	OwnedItemRepository[model.WishlistItem]
}

// NewWishlistItemRepository 创建收藏夹仓库
func NewWishlistItemRepository(db *gorm.DB) WishlistItemRepository {
	return newOwnedItemRepository[model.WishlistItem](db)
}
