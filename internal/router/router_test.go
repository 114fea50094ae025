package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"product_trial_back/internal/controller"
	"product_trial_back/internal/middleware"
	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
	"product_trial_back/internal/service"
)

// ==================== 测试辅助 ====================

const (
	testSecret     = "router-test-secret-with-at-least-32-bytes"
	testAdminEmail = "admin@admin.com"
	testPassword   = "Secret#123"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	logs   *observer.ObservedLogs
}

func setupTestApp(t *testing.T, limiter *middleware.ClientRateLimiter) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Account{}, &model.Product{}, &model.CartItem{}, &model.WishlistItem{}))
	require.NoError(t, middleware.RegisterAuditCallbacks(db))

	tokens, err := middleware.NewTokenService(middleware.TokenConfig{
		SecretKey: testSecret,
		TTL:       time.Hour,
		Issuer:    "product-trial",
	})
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	accounts := repository.NewAccountRepository(db)
	products := repository.NewProductRepository(db)

	authz := service.NewAuthorizationService(accounts, log)
	accountSvc := service.NewAccountService(accounts, tokens, service.AccountConfig{
		AdminEmail: testAdminEmail,
		BcryptCost: bcrypt.MinCost,
	}, log)
	productSvc := service.NewProductService(products, log)
	cartSvc := service.NewCartService(repository.NewCartItemRepository(db), accounts, products, log)
	wishlistSvc := service.NewWishlistService(repository.NewWishlistItemRepository(db), accounts, products, log)

	r := SetupRouter(Options{Log: log, Tokens: tokens, LoginLimiter: limiter}, Controllers{
		Auth:     controller.NewAuthController(accountSvc, log),
		Account:  controller.NewAccountController(accountSvc, authz, log),
		Product:  controller.NewProductController(productSvc, authz, log),
		Cart:     controller.NewCartController(cartSvc, authz, log),
		Wishlist: controller.NewWishlistController(wishlistSvc, authz, log),
		Health:   controller.NewHealthController(db, log),
	})
	return &testApp{router: r, db: db, logs: logs}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// register 注册并登录，返回账号 ID 与 Token
func (a *testApp) register(t *testing.T, email string) (int64, string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/account", "", gin.H{
		"username": "user",
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var account struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &account)

	w = a.do(t, http.MethodPost, "/api/token", "", gin.H{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token struct {
		Token string `json:"token"`
	}
	decode(t, w, &token)
	return account.ID, token.Token
}

func (a *testApp) createProduct(t *testing.T, adminToken, code string) int64 {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/products", adminToken, gin.H{
		"code":     code,
		"name":     "Product " + code,
		"price":    12.5,
		"quantity": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &product)
	return product.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decode(t, w, &body)
	return body.Message
}

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// ==================== 账号与登录 ====================

func TestRouter_RegisterAndLogin(t *testing.T) {
	app := setupTestApp(t, nil)

	w := app.do(t, http.MethodPost, "/api/account", "", gin.H{
		"username": "jdoe",
		"email":    "jdoe@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/api/account/")
	assert.NotContains(t, w.Body.String(), "password")

	w = app.do(t, http.MethodPost, "/api/account", "", gin.H{
		"username": "jdoe",
		"email":    "JDOE@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPost, "/api/token", "", gin.H{"email": "jdoe@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.Contains(t, w.Body.String(), `"expiresAt"`)
}

func TestRouter_RegisterValidation(t *testing.T) {
	app := setupTestApp(t, nil)

	w := app.do(t, http.MethodPost, "/api/account", "", gin.H{
		"username": "jdoe",
		"email":    "not-an-email",
		"password": "alllowercase1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &body)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

func TestRouter_LoginFailures(t *testing.T) {
	app := setupTestApp(t, nil)
	app.register(t, "jdoe@example.com")

	wrong := app.do(t, http.MethodPost, "/api/token", "", gin.H{"email": "jdoe@example.com", "password": "Wrong#123"})
	unknown := app.do(t, http.MethodPost, "/api/token", "", gin.H{"email": "ghost@example.com", "password": testPassword})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, wrong))
	assert.Equal(t, errorMessage(t, wrong), errorMessage(t, unknown))
}

func TestRouter_LoginRateLimited(t *testing.T) {
	app := setupTestApp(t, middleware.NewClientRateLimiter(1, 1))

	body := gin.H{"email": "ghost@example.com", "password": testPassword}
	first := app.do(t, http.MethodPost, "/api/token", "", body)
	assert.Equal(t, http.StatusUnauthorized, first.Code)

	second := app.do(t, http.MethodPost, "/api/token", "", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestRouter_AccountAccess(t *testing.T) {
	app := setupTestApp(t, nil)
	_, adminToken := app.register(t, testAdminEmail)
	aliceID, aliceToken := app.register(t, "alice@example.com")
	bobID, bobToken := app.register(t, "bob@example.com")

	w := app.do(t, http.MethodGet, "/api/account/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")

	w = app.do(t, http.MethodGet, "/api/account/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 他人账号对普通用户不可见
	w = app.do(t, http.MethodGet, idPath("/api/account", aliceID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, idPath("/api/account", aliceID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, idPath("/api/account", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodDelete, idPath("/api/account", bobID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// 账号删除后 Token 仍未过期，但按未登录处理
	w = app.do(t, http.MethodGet, "/api/account/me", bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_UpdateProfile(t *testing.T) {
	app := setupTestApp(t, nil)
	_, token := app.register(t, "jdoe@example.com")

	w := app.do(t, http.MethodPut, "/api/account/me", token, gin.H{"username": "johnny", "firstname": "John"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"johnny"`)

	w = app.do(t, http.MethodPut, "/api/account/me", token, gin.H{"firstname": "John"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== 商品 ====================

func TestRouter_ProductAdminOnly(t *testing.T) {
	app := setupTestApp(t, nil)
	adminID, adminToken := app.register(t, testAdminEmail)
	_, userToken := app.register(t, "user@example.com")

	payload := gin.H{"code": "f230fh0g3", "name": "Bamboo Watch", "price": 65}

	w := app.do(t, http.MethodPost, "/api/products", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/products", userToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	id := app.createProduct(t, adminToken, "f230fh0g3")

	var stored model.Product
	require.NoError(t, app.db.First(&stored, id).Error)
	assert.Equal(t, adminID, stored.CreatedBy)
	assert.Equal(t, adminID, stored.UpdatedBy)

	w = app.do(t, http.MethodPost, "/api/products", adminToken, payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodGet, idPath("/api/products", id), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/products?page=0&size=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		TotalElements int64 `json:"totalElements"`
		First         bool  `json:"first"`
		Last          bool  `json:"last"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.True(t, page.First)
	assert.True(t, page.Last)

	w = app.do(t, http.MethodDelete, idPath("/api/products", id), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	deleted := app.logs.FilterMessage("product deleted").All()
	require.Len(t, deleted, 1)
	assert.Equal(t, testAdminEmail, deleted[0].ContextMap()["operator"])

	w = app.do(t, http.MethodGet, idPath("/api/products", id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found with id "+strconv.FormatInt(id, 10), errorMessage(t, w))
}

// ==================== 购物车与收藏夹 ====================

func TestRouter_CartFlow(t *testing.T) {
	app := setupTestApp(t, nil)
	_, adminToken := app.register(t, testAdminEmail)
	_, aliceToken := app.register(t, "alice@example.com")
	_, bobToken := app.register(t, "bob@example.com")
	productID := app.createProduct(t, adminToken, "P1")

	w := app.do(t, http.MethodPost, "/api/cart", "", gin.H{"productId": productID, "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/cart", aliceToken, gin.H{"productId": productID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	w = app.do(t, http.MethodPost, "/api/cart", aliceToken, gin.H{"productId": productID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	var item struct {
		ID       int64 `json:"id"`
		Quantity int   `json:"quantity"`
	}
	decode(t, w, &item)
	assert.Equal(t, 5, item.Quantity)

	w = app.do(t, http.MethodPost, "/api/cart", aliceToken, gin.H{"productId": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodPost, "/api/cart", aliceToken, gin.H{"productId": productID, "quantity": 10001})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity"`)

	w = app.do(t, http.MethodGet, "/api/cart?size=200", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Page size must be less than 200", errorMessage(t, w))

	w = app.do(t, http.MethodGet, "/api/cart", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalElements":1`)

	w = app.do(t, http.MethodGet, "/api/cart", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"empty":true`)

	// 他人条目表现为不存在
	w = app.do(t, http.MethodGet, idPath("/api/cart", item.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart item not found with id "+strconv.FormatInt(item.ID, 10), errorMessage(t, w))

	w = app.do(t, http.MethodDelete, idPath("/api/cart", item.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodDelete, idPath("/api/cart", item.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_WishlistDuplicate(t *testing.T) {
	app := setupTestApp(t, nil)
	_, adminToken := app.register(t, testAdminEmail)
	_, token := app.register(t, "alice@example.com")
	productID := app.createProduct(t, adminToken, "P1")

	w := app.do(t, http.MethodPost, "/api/wishlist", token, gin.H{"productId": productID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodPost, "/api/wishlist", token, gin.H{"productId": productID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodGet, "/api/wishlist/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/wishlist/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Wishlist item not found with id 9999", errorMessage(t, w))
}

// ==================== 其他 ====================

func TestRouter_HealthAndNoRoute(t *testing.T) {
	app := setupTestApp(t, nil)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/ready", "", nil).Code)

	w := app.do(t, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_InvalidTokenIsAnonymous(t *testing.T) {
	app := setupTestApp(t, nil)

	// 公开接口不受无效 Token 影响
	w := app.do(t, http.MethodGet, "/api/products", "garbage", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/cart", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
