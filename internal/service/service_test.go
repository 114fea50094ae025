package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"product_trial_back/internal/middleware"
	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
)

// ==================== 测试辅助 ====================

const testSecret = "service-test-secret-with-32-bytes!!"

// testClock 可推进的时钟
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// testEnv 共享的测试依赖
type testEnv struct {
	db        *gorm.DB
	clock     *testClock
	accounts  repository.AccountRepository
	products  repository.ProductRepository
	carts     repository.CartItemRepository
	wishlists repository.WishlistItemRepository
	tokens    *middleware.TokenService
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupServiceTestDB(t)
	clock := newTestClock()

	tokens, err := middleware.NewTokenService(middleware.TokenConfig{
		SecretKey: testSecret,
		TTL:       time.Hour,
		Issuer:    "product-trial",
	}, middleware.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("创建 TokenService 失败: %v", err)
	}

	return &testEnv{
		db:        db,
		clock:     clock,
		accounts:  repository.NewAccountRepository(db),
		products:  repository.NewProductRepository(db),
		carts:     repository.NewCartItemRepository(db),
		wishlists: repository.NewWishlistItemRepository(db),
		tokens:    tokens,
	}
}

func (e *testEnv) cartService() *CartService {
	return NewCartService(e.carts, e.accounts, e.products, zap.NewNop(), WithClock(e.clock.Now))
}

func (e *testEnv) wishlistService() *WishlistService {
	return NewWishlistService(e.wishlists, e.accounts, e.products, zap.NewNop(), WithClock(e.clock.Now))
}

func (e *testEnv) accountService(adminEmail string) *AccountService {
	return NewAccountService(e.accounts, e.tokens, AccountConfig{
		AdminEmail: adminEmail,
		BcryptCost: bcrypt.MinCost,
	}, zap.NewNop(), WithClock(e.clock.Now))
}

func (e *testEnv) seedAccount(t *testing.T, email string, role model.Role) *model.Account {
	t.Helper()
	a := &model.Account{Username: email, Email: email, Password: "hash", Role: role}
	if err := e.accounts.Create(context.Background(), a); err != nil {
		t.Fatalf("创建账号失败: %v", err)
	}
	return a
}

func (e *testEnv) seedProduct(t *testing.T, code string) *model.Product {
	t.Helper()
	p := &model.Product{ProductFields: model.ProductFields{Code: code, Name: "Product " + code, Price: 10}}
	if err := e.products.Create(context.Background(), p); err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	return p
}

func ctxAs(userID int64, role model.Role) context.Context {
	return middleware.WithIdentity(context.Background(), middleware.Identity{UserID: userID, Role: role})
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func zapNop() *zap.Logger { return zap.NewNop() }
