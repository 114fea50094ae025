package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"product_trial_back/internal/model"
)

// ==================== ProductRepository 商品仓库 ====================

// ProductRepository 商品仓库接口
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	// DeleteWithReferences 删除商品及引用它的购物车、收藏夹条目
	DeleteWithReferences(ctx context.Context, id int64) (bool, error)
}

// ProductFilter 商品筛选条件
type ProductFilter struct {
	Category string
	Keyword  string
	Page
}

// ==================== 实现 ====================

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create 创建商品，编码重复返回 ErrDuplicate
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return translateWriteError(r.db.WithContext(ctx).Create(product).Error)
}

// GetByID 根据 ID 获取商品，不存在返回 nil
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 保存商品
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return translateWriteError(r.db.WithContext(ctx).Save(product).Error)
}

// ExistsByID 检查商品是否存在
func (r *productRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// ExistsByCode 检查商品编码是否存在
func (r *productRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// List 商品列表
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	// 分类筛选
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	// 关键词搜索
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", keyword, keyword)
	}

	// 统计总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	err := query.
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.Size).
		Find(&products).Error

	return products, total, err
}

// DeleteWithReferences 事务内删除商品及其引用
func (r *productRepository) DeleteWithReferences(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.WishlistItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
