package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"product_trial_back/internal/model"
)

// ==================== 测试辅助 ====================

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&model.Account{}, &model.Product{}, &model.CartItem{}, &model.WishlistItem{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, email string) *model.Account {
	t.Helper()
	a := &model.Account{Username: email, Email: email, Password: "hash", Role: model.RoleUser}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	return a
}

func seedProduct(t *testing.T, db *gorm.DB, code string) *model.Product {
	t.Helper()
	p := &model.Product{ProductFields: model.ProductFields{Code: code, Name: "Product " + code, Price: 10}}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	return p
}

// ==================== 唯一约束识别 ====================

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pgconn 23505", &pgconn.PgError{Code: "23505"}, true},
		{"pgconn other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: cart_items.user_id, cart_items.product_id"), true},
		{"postgres message", errors.New(`duplicate key value violates unique constraint "uc_cart_user_product"`), true},
		{"other", errors.New("connection refused"), false},
		{"digits in message", errors.New("read timeout after 23505ms"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ==================== OwnedItemRepository ====================

func TestOwnedItemRepository_UniquePair(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewWishlistItemRepository(db)

	owner := seedAccount(t, db, "a@test.com")
	product := seedProduct(t, db, "P1")

	if err := repo.Create(ctx, &model.WishlistItem{UserID: owner.ID, ProductID: product.ID}); err != nil {
		t.Fatalf("first create error = %v", err)
	}
	err := repo.Create(ctx, &model.WishlistItem{UserID: owner.ID, ProductID: product.ID})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second create error = %v, want ErrDuplicate", err)
	}
}

func TestOwnedItemRepository_OwnerScoped(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewCartItemRepository(db)

	alice := seedAccount(t, db, "alice@test.com")
	bob := seedAccount(t, db, "bob@test.com")
	product := seedProduct(t, db, "P1")

	item := &model.CartItem{UserID: alice.ID, ProductID: product.ID, Quantity: 2}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create error = %v", err)
	}

	got, err := repo.GetByIDAndOwner(ctx, item.ID, alice.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByIDAndOwner(owner) = %v, %v", got, err)
	}

	got, err = repo.GetByIDAndOwner(ctx, item.ID, bob.ID)
	if err != nil || got != nil {
		t.Errorf("GetByIDAndOwner(other) = %v, %v, want nil, nil", got, err)
	}

	exists, _ := repo.ExistsByIDAndOwner(ctx, item.ID, bob.ID)
	if exists {
		t.Errorf("ExistsByIDAndOwner(other) = true")
	}

	items, total, err := repo.ListByOwner(ctx, bob.ID, Page{Page: 0, Size: 50})
	if err != nil || total != 0 || len(items) != 0 {
		t.Errorf("ListByOwner(other) = %d items, total %d, err %v", len(items), total, err)
	}
}

func TestCartItemRepository_AddQuantity(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewCartItemRepository(db)

	owner := seedAccount(t, db, "a@test.com")
	product := seedProduct(t, db, "P1")
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	item := &model.CartItem{UserID: owner.ID, ProductID: product.ID, Quantity: 2}
	item.CreatedAt, item.UpdatedAt = created, created
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create error = %v", err)
	}

	later := created.Add(time.Hour)
	ok, err := repo.AddQuantity(ctx, item.ID, 3, model.MaxCartQuantity, later)
	if err != nil || !ok {
		t.Fatalf("AddQuantity() = %v, %v", ok, err)
	}

	got, _ := repo.GetByIDAndOwner(ctx, item.ID, owner.ID)
	if got.Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", got.Quantity)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}

	ok, err = repo.AddQuantity(ctx, 9999, 1, model.MaxCartQuantity, later)
	if err != nil || ok {
		t.Errorf("AddQuantity(missing) = %v, %v, want false, nil", ok, err)
	}
}

func TestCartItemRepository_AddQuantityLimit(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewCartItemRepository(db)

	owner := seedAccount(t, db, "a@test.com")
	product := seedProduct(t, db, "P1")

	item := &model.CartItem{UserID: owner.ID, ProductID: product.ID, Quantity: 8}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create error = %v", err)
	}

	// 恰好到达上限
	ok, err := repo.AddQuantity(ctx, item.ID, 2, 10, time.Now())
	if err != nil || !ok {
		t.Fatalf("AddQuantity(to limit) = %v, %v, want true, nil", ok, err)
	}

	// 超过上限不落库
	ok, err = repo.AddQuantity(ctx, item.ID, 1, 10, time.Now())
	if err != nil || ok {
		t.Errorf("AddQuantity(over limit) = %v, %v, want false, nil", ok, err)
	}

	got, err := repo.GetByIDAndOwner(ctx, item.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetByIDAndOwner() error = %v", err)
	}
	if got.Quantity != 10 {
		t.Errorf("Quantity = %d, want 10", got.Quantity)
	}
}

func TestCartItemRepository_DeleteUpdatedBefore(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewCartItemRepository(db)

	owner := seedAccount(t, db, "a@test.com")
	p1 := seedProduct(t, db, "P1")
	p2 := seedProduct(t, db, "P2")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	old := &model.CartItem{UserID: owner.ID, ProductID: p1.ID, Quantity: 1}
	old.CreatedAt, old.UpdatedAt = base, base
	fresh := &model.CartItem{UserID: owner.ID, ProductID: p2.ID, Quantity: 1}
	fresh.CreatedAt, fresh.UpdatedAt = base.Add(48*time.Hour), base.Add(48*time.Hour)
	repo.Create(ctx, old)
	repo.Create(ctx, fresh)

	removed, err := repo.DeleteUpdatedBefore(ctx, base.Add(24*time.Hour))
	if err != nil || removed != 1 {
		t.Fatalf("DeleteUpdatedBefore() = %d, %v, want 1", removed, err)
	}
}

// ==================== AccountRepository ====================

func TestAccountRepository(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(db)

	a := &model.Account{Username: "alice", Email: "alice@test.com", Password: "hash", Role: model.RoleUser}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create error = %v", err)
	}

	err := repo.Create(ctx, &model.Account{Username: "alice2", Email: "alice@test.com", Password: "hash"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email error = %v, want ErrDuplicate", err)
	}

	got, err := repo.GetByEmail(ctx, "alice@test.com")
	if err != nil || got == nil || got.ID != a.ID {
		t.Fatalf("GetByEmail() = %v, %v", got, err)
	}

	missing, err := repo.GetByID(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetByID(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestAccountRepository_DeleteWithItems(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(db)

	owner := seedAccount(t, db, "a@test.com")
	other := seedAccount(t, db, "b@test.com")
	product := seedProduct(t, db, "P1")
	db.Create(&model.CartItem{UserID: owner.ID, ProductID: product.ID, Quantity: 1})
	db.Create(&model.WishlistItem{UserID: owner.ID, ProductID: product.ID})
	db.Create(&model.CartItem{UserID: other.ID, ProductID: product.ID, Quantity: 1})

	deleted, err := repo.DeleteWithItems(ctx, owner.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteWithItems() = %v, %v", deleted, err)
	}

	var carts, wishes int64
	db.Model(&model.CartItem{}).Count(&carts)
	db.Model(&model.WishlistItem{}).Count(&wishes)
	if carts != 1 || wishes != 0 {
		t.Errorf("remaining cart/wishlist = %d/%d, want 1/0", carts, wishes)
	}

	deleted, err = repo.DeleteWithItems(ctx, owner.ID)
	if err != nil || deleted {
		t.Errorf("DeleteWithItems(again) = %v, %v, want false, nil", deleted, err)
	}
}

// ==================== ProductRepository ====================

func TestProductRepository_ListAndDelete(t *testing.T) {
	db := setupRepoTestDB(t)
	ctx := context.Background()
	repo := NewProductRepository(db)

	for i := 0; i < 5; i++ {
		p := &model.Product{ProductFields: model.ProductFields{
			Code: fmt.Sprintf("P%d", i), Name: fmt.Sprintf("Item %d", i), Price: 1, Category: "Accessories",
		}}
		if i%2 == 1 {
			p.Category = "Fitness"
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create error = %v", err)
		}
	}

	list, total, err := repo.List(ctx, ProductFilter{Page: Page{Page: 1, Size: 2}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 || len(list) != 2 {
		t.Fatalf("List() page 1 = %d items, total %d, want 2/5", len(list), total)
	}
	if list[0].Code != "P2" {
		t.Errorf("List() page 1 first = %q, want P2", list[0].Code)
	}

	_, total, _ = repo.List(ctx, ProductFilter{Category: "Fitness", Page: Page{Size: 50}})
	if total != 2 {
		t.Errorf("category total = %d, want 2", total)
	}

	err = repo.Create(ctx, &model.Product{ProductFields: model.ProductFields{Code: "P0", Name: "dup", Price: 1}})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate code error = %v, want ErrDuplicate", err)
	}

	owner := seedAccount(t, db, "a@test.com")
	db.Create(&model.CartItem{UserID: owner.ID, ProductID: list[0].ID, Quantity: 1})

	deleted, err := repo.DeleteWithReferences(ctx, list[0].ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteWithReferences() = %v, %v", deleted, err)
	}
	var carts int64
	db.Model(&model.CartItem{}).Count(&carts)
	if carts != 0 {
		t.Errorf("cart items referencing deleted product = %d", carts)
	}
}
