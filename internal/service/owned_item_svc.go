package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
)

// ==================== ownedItemStore 归属条目通用逻辑 ====================

// ownedItemStore 购物车与收藏夹共用的保存/查询/删除流程
// 所有读写都以 ownerID 为边界，他人条目与不存在的条目一律返回 notFound
type ownedItemStore[T model.OwnedItem] struct {
	items       repository.OwnedItemRepository[T]
	accountRepo repository.AccountRepository
	productRepo repository.ProductRepository
	now         func() time.Time
	log         *zap.Logger

	notFound  error // 条目不存在
	duplicate error // 重复添加
}

// mergeFunc 已存在条目时的合并策略，nil 表示不允许重复
type mergeFunc[T model.OwnedItem] func(ctx context.Context, existing T, now time.Time) (*T, error)

// save 保存条目
//  1. 账号必须存在
//  2. 商品必须存在
//  3. 已存在同一商品时交给 merge，merge 为空则返回 duplicate
//  4. 否则新建；并发插入撞上唯一约束时同样返回 duplicate，不重试
func (s *ownedItemStore[T]) save(
	ctx context.Context,
	ownerID, productID int64,
	build func(now time.Time) T,
	merge mergeFunc[T],
) (*T, error) {
	ownerExists, err := s.accountRepo.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ownerExists {
		return nil, ErrOwnerNotFound
	}

	productExists, err := s.productRepo.ExistsByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !productExists {
		return nil, ErrProductNotFound
	}

	existing, err := s.items.GetByOwnerAndProduct(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if existing != nil {
		current := *existing
		if merge == nil {
			s.logConflict("item already exists", current)
			return nil, s.duplicate
		}
		s.log.Debug("merging into existing item",
			zap.Int64("item_id", current.GetID()),
			zap.Int64("owner_id", current.GetOwnerID()),
		)
		return merge(ctx, current, now)
	}

	item := build(now)
	if err := s.items.Create(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logConflict("concurrent insert hit unique constraint", item)
			return nil, s.duplicate
		}
		return nil, err
	}
	return &item, nil
}

func (s *ownedItemStore[T]) logConflict(msg string, item T) {
	s.log.Info(msg,
		zap.Int64("owner_id", item.GetOwnerID()),
		zap.Int64("product_id", item.GetProductID()),
	)
}

// getByID 查询本人的条目
func (s *ownedItemStore[T]) getByID(ctx context.Context, id, ownerID int64) (*T, error) {
	item, err := s.items.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, s.notFoundError(id)
	}
	return item, nil
}

// delete 先校验归属，再按 ID 删除
func (s *ownedItemStore[T]) delete(ctx context.Context, id, ownerID int64) error {
	exists, err := s.items.ExistsByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !exists {
		return s.notFoundError(id)
	}
	return s.items.DeleteByID(ctx, id)
}

// list 本人的条目列表
func (s *ownedItemStore[T]) list(ctx context.Context, ownerID int64, page repository.Page) (*PageResult[T], error) {
	items, total, err := s.items.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return &PageResult[T]{Items: items, Total: total, Page: page}, nil
}

func (s *ownedItemStore[T]) notFoundError(id int64) error {
	return fmt.Errorf("%w with id %d", s.notFound, id)
}
