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

// ==================== ProductService 商品服务 ====================

// ProductService 商品目录服务
// 权限校验在 controller 层完成，这里只处理数据
type ProductService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
	log         *zap.Logger
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, log *zap.Logger, opts ...Option) *ProductService {
	o := applyOptions(opts)
	return &ProductService{
		productRepo: productRepo,
		now:         o.now,
		log:         log.Named("product"),
	}
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, category, keyword string, page repository.Page) (*PageResult[model.Product], error) {
	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		Category: category,
		Keyword:  keyword,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}
	return &PageResult[model.Product]{Items: products, Total: total, Page: page}, nil
}

// GetByID 获取商品
func (s *ProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w with id %d", ErrProductNotFound, id)
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, fields model.ProductFields) (*model.Product, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, fields.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProductCodeTaken
	}

	now := s.now()
	product := &model.Product{ProductFields: fields}
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProductCodeTaken
		}
		return nil, err
	}
	s.log.Info("product created", zap.Int64("product_id", product.ID), zap.String("code", product.Code))
	return product, nil
}

// Update 替换商品可编辑字段
func (s *ProductService) Update(ctx context.Context, id int64, fields model.ProductFields) (*model.Product, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.Code != current.Code {
		exists, err := s.productRepo.ExistsByCode(ctx, fields.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrProductCodeTaken
		}
	}

	updated := current.Apply(fields, s.now())
	if err := s.productRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProductCodeTaken
		}
		return nil, err
	}
	return &updated, nil
}

// Delete 删除商品，同时移除购物车与收藏夹中的引用
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.productRepo.DeleteWithReferences(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w with id %d", ErrProductNotFound, id)
	}
	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}
