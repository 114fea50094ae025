package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"product_trial_back/internal/config"
	"product_trial_back/internal/controller"
	"product_trial_back/internal/middleware"
	"product_trial_back/internal/model"
	"product_trial_back/internal/repository"
	"product_trial_back/internal/router"
	"product_trial_back/internal/service"
	"product_trial_back/internal/task"
	"product_trial_back/pkg/database"
	"product_trial_back/pkg/logger"
)

// @title Product Trial API
// @version 1.0
// @description 商品目录、购物车与收藏夹服务
// @host localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>
func main() {
	configPath := flag.String("config", os.Getenv("APP_CONFIG"), "配置文件路径（可选）")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "服务启动失败: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 2. 初始化数据库
	db, err := initDatabase(cfg, log)
	if err != nil {
		return err
	}

	// 3. 初始化依赖
	deps, err := initDependencies(cfg, db, log)
	if err != nil {
		return err
	}

	// 4. 启动定时任务
	tasks := initTasks(cfg, deps, log)
	if err := tasks.Start(); err != nil {
		return fmt.Errorf("start tasks: %w", err)
	}
	defer tasks.Stop()

	// 5. 初始化路由
	gin.SetMode(cfg.Server.Mode)
	r := router.SetupRouter(router.Options{
		Log:          log,
		Tokens:       deps.Tokens,
		LoginLimiter: deps.LoginLimiter,
	}, *deps.Controllers)

	// 6. 启动服务
	return startServer(cfg.Server, r, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB           *gorm.DB
	Repos        *Repositories
	Services     *Services
	Controllers  *router.Controllers
	Tokens       *middleware.TokenService
	LoginLimiter *middleware.ClientRateLimiter
}

// Repositories 仓库集合
type Repositories struct {
	Account  repository.AccountRepository
	Product  repository.ProductRepository
	Cart     repository.CartItemRepository
	Wishlist repository.WishlistItemRepository
}

// Services 服务集合
type Services struct {
	Authz    *service.AuthorizationService
	Account  *service.AccountService
	Product  *service.ProductService
	Cart     *service.CartService
	Wishlist *service.WishlistService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库并注册审计回调
func initDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.InitDB(database.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}, log,
		// Account
		&model.Account{},
		// Product
		&model.Product{},
		// Owned items
		&model.CartItem{}, &model.WishlistItem{},
	)
	if err != nil {
		return nil, err
	}

	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		return nil, fmt.Errorf("register audit callbacks: %w", err)
	}
	return db, nil
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*Dependencies, error) {
	tokens, err := middleware.NewTokenService(middleware.TokenConfig{
		SecretKey: cfg.Auth.JWTSecret,
		TTL:       cfg.Auth.TokenTTL,
		Issuer:    cfg.Auth.Issuer,
	})
	if err != nil {
		return nil, err
	}

	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 业务服务 --------
	services := &Services{
		Authz: service.NewAuthorizationService(repos.Account, log.Named("authz")),
		Account: service.NewAccountService(repos.Account, tokens, service.AccountConfig{
			AdminEmail: cfg.Auth.AdminEmail,
			BcryptCost: cfg.Auth.BcryptCost,
		}, log),
		Product:  service.NewProductService(repos.Product, log),
		Cart:     service.NewCartService(repos.Cart, repos.Account, repos.Product, log),
		Wishlist: service.NewWishlistService(repos.Wishlist, repos.Account, repos.Product, log),
	}

	// -------- Controller 层 --------
	controllers := initControllers(services, db, log)

	return &Dependencies{
		DB:           db,
		Repos:        repos,
		Services:     services,
		Controllers:  controllers,
		Tokens:       tokens,
		LoginLimiter: middleware.NewClientRateLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
	}, nil
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:  repository.NewAccountRepository(db),
		Product:  repository.NewProductRepository(db),
		Cart:     repository.NewCartItemRepository(db),
		Wishlist: repository.NewWishlistItemRepository(db),
	}
}

// initControllers 初始化所有控制器
func initControllers(svc *Services, db *gorm.DB, log *zap.Logger) *router.Controllers {
	ctlLog := log.Named("http")
	return &router.Controllers{
		Auth:     controller.NewAuthController(svc.Account, ctlLog),
		Account:  controller.NewAccountController(svc.Account, svc.Authz, ctlLog),
		Product:  controller.NewProductController(svc.Product, svc.Authz, ctlLog),
		Cart:     controller.NewCartController(svc.Cart, svc.Authz, ctlLog),
		Wishlist: controller.NewWishlistController(svc.Wishlist, svc.Authz, ctlLog),
		Health:   controller.NewHealthController(db, ctlLog),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies, log *zap.Logger) *task.TaskManager {
	return task.NewTaskManager(&task.TaskManagerDeps{
		CartPurger:   deps.Services.Cart,
		LoginLimiter: deps.LoginLimiter,
	}, &task.TaskManagerConfig{
		CartRetention:    cfg.Tasks.CartRetention,
		CartCleanupCron:  cfg.Tasks.CartCleanupCron,
		LimiterSweepCron: cfg.Tasks.LimiterSweepCron,
		LimiterIdle:      cfg.Tasks.LimiterIdle,
	}, log)
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(cfg config.ServerConfig, r *gin.Engine, log *zap.Logger) error {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	// 异步启动服务
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
