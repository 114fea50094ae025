package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
)

// ==================== WishlistService 收藏夹服务 ====================

// WishlistService 收藏夹服务
// 同一商品只能收藏一次，重复添加返回 ErrProductAlreadyInWishlist
type WishlistService struct {
	store *ownedItemStore[model.WishlistItem]
}

// NewWishlistService 创建收藏夹服务
func NewWishlistService(
	wishlistRepo repository.WishlistItemRepository,
	accountRepo repository.AccountRepository,
	productRepo repository.ProductRepository,
	log *zap.Logger,
	opts ...Option,
) *WishlistService {
	o := applyOptions(opts)
	return &WishlistService{
		store: &ownedItemStore[model.WishlistItem]{
			items:       wishlistRepo,
			accountRepo: accountRepo,
			productRepo: productRepo,
			now:         o.now,
			log:         log.Named("wishlist"),
			notFound:    ErrWishlistItemNotFound,
			duplicate:   ErrProductAlreadyInWishlist,
		},
	}
}

// Save 加入收藏夹
func (s *WishlistService) Save(ctx context.Context, ownerID, productID int64) (*model.WishlistItem, error) {
	build := func(now time.Time) model.WishlistItem {
		item := model.WishlistItem{UserID: ownerID, ProductID: productID}
		item.CreatedAt = now
		item.UpdatedAt = now
		return item
	}
	return s.store.save(ctx, ownerID, productID, build, nil)
}

// GetByID 获取本人收藏条目
func (s *WishlistService) GetByID(ctx context.Context, id, ownerID int64) (*model.WishlistItem, error) {
	return s.store.getByID(ctx, id, ownerID)
}

// Delete 删除本人收藏条目
func (s *WishlistService) Delete(ctx context.Context, id, ownerID int64) error {
	return s.store.delete(ctx, id, ownerID)
}

// List 本人收藏夹
func (s *WishlistService) List(ctx context.Context, ownerID int64, page repository.Page) (*PageResult[model.WishlistItem], error) {
	return s.store.list(ctx, ownerID, page)
}
