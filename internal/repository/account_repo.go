package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"product_trial_back/internal/model"
)

// ==================== AccountRepository 账号仓库 ====================

// AccountRepository 账号仓库接口
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// DeleteWithItems 删除账号及其购物车、收藏夹，返回是否删除了账号
	DeleteWithItems(ctx context.Context, id int64) (bool, error)
}

// ==================== 实现 ====================

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 创建账号仓库
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create 创建账号，邮箱重复返回 ErrDuplicate
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return translateWriteError(r.db.WithContext(ctx).Create(account).Error)
}

// GetByID 根据 ID 获取账号，不存在返回 nil
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail 根据邮箱获取账号，不存在返回 nil
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update 保存账号
func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	return translateWriteError(r.db.WithContext(ctx).Save(account).Error)
}

// ExistsByID 检查账号是否存在
func (r *accountRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// ExistsByEmail 检查邮箱是否已注册
func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// DeleteWithItems 事务内删除账号及其归属条目
func (r *accountRepository) DeleteWithItems(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.WishlistItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Account{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
