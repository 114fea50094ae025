package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
)

// ==================== CartService 购物车服务 ====================

// CartService 购物车服务
// 重复添加同一商品时累加数量
type CartService struct {
	cartRepo repository.CartItemRepository
	store    *ownedItemStore[model.CartItem]
}

// NewCartService 创建购物车服务
func NewCartService(
	cartRepo repository.CartItemRepository,
	accountRepo repository.AccountRepository,
	productRepo repository.ProductRepository,
	log *zap.Logger,
	opts ...Option,
) *CartService {
	o := applyOptions(opts)
	return &CartService{
		cartRepo: cartRepo,
		store: &ownedItemStore[model.CartItem]{
			items:       cartRepo,
			accountRepo: accountRepo,
			productRepo: productRepo,
			now:         o.now,
			log:         log.Named("cart"),
			notFound:    ErrCartItemNotFound,
			duplicate:   ErrProductAlreadyInCart,
		},
	}
}

// Save 加入购物车
func (s *CartService) Save(ctx context.Context, ownerID, productID int64, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if quantity > model.MaxCartQuantity {
		return nil, ErrQuantityTooLarge
	}

	build := func(now time.Time) model.CartItem {
		item := model.CartItem{UserID: ownerID, ProductID: productID, Quantity: quantity}
		item.CreatedAt = now
		item.UpdatedAt = now
		return item
	}
	merge := func(ctx context.Context, existing model.CartItem, now time.Time) (*model.CartItem, error) {
		return s.merge(ctx, existing, quantity, now)
	}
	return s.store.save(ctx, ownerID, productID, build, merge)
}

// merge 累加数量后重新读取，返回合并后的记录
// 未命中时区分两种情况：记录已被并发删除，或累加后超过上限
func (s *CartService) merge(ctx context.Context, existing model.CartItem, quantity int, now time.Time) (*model.CartItem, error) {
	ok, err := s.cartRepo.AddQuantity(ctx, existing.ID, quantity, model.MaxCartQuantity, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.store.getByID(ctx, existing.ID, existing.UserID)
		if err != nil {
			return nil, err
		}
		s.store.log.Info("cart merge exceeds quantity limit",
			zap.Int64("item_id", current.ID),
			zap.Int("current", current.Quantity),
			zap.Int("delta", quantity),
		)
		return nil, ErrQuantityTooLarge
	}
	return s.store.getByID(ctx, existing.ID, existing.UserID)
}

// GetByID 获取本人购物车条目
func (s *CartService) GetByID(ctx context.Context, id, ownerID int64) (*model.CartItem, error) {
	return s.store.getByID(ctx, id, ownerID)
}

// Delete 删除本人购物车条目
func (s *CartService) Delete(ctx context.Context, id, ownerID int64) error {
	return s.store.delete(ctx, id, ownerID)
}

// List 本人购物车
func (s *CartService) List(ctx context.Context, ownerID int64, page repository.Page) (*PageResult[model.CartItem], error) {
	return s.store.list(ctx, ownerID, page)
}

// PurgeStale 删除 updated_at 早于 now - retention 的条目
func (s *CartService) PurgeStale(ctx context.Context, retention time.Duration) (int64, error) {
	return s.cartRepo.DeleteUpdatedBefore(ctx, s.store.now().Add(-retention))
}
