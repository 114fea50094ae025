package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"product_trial_back/internal/controller"
	"product_trial_back/internal/middleware"

	_ "product_trial_back/docs"
)

// Controllers 路由依赖的控制器
type Controllers struct {
	Auth     *controller.AuthController
	Account  *controller.AccountController
	Product  *controller.ProductController
	Cart     *controller.CartController
	Wishlist *controller.WishlistController
	Health   *controller.HealthController
}

// Options 路由中间件依赖
type Options struct {
	Log          *zap.Logger
	Tokens       *middleware.TokenService
	LoginLimiter *middleware.ClientRateLimiter // 为 nil 时登录不限流
}

// SetupRouter 创建引擎并注册所有路由
func SetupRouter(opts Options, ctl Controllers) *gin.Engine {
	controller.RegisterValidators()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(opts.Log),
		middleware.Recovery(opts.Log),
		middleware.IdentityResolver(opts.Tokens, opts.Log),
	)

	InitRoutes(r, opts, ctl)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, middleware.ErrorBody(c, http.StatusNotFound, "Resource not found"))
	})
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, opts Options, ctl Controllers) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 探针
	r.GET("/health", ctl.Health.Health)
	r.GET("/ready", ctl.Health.Ready)

	// 3. API 路由组
	api := r.Group("/api")
	{
		// POST /api/token 登录，按客户端 IP 限流
		if opts.LoginLimiter != nil {
			api.POST("/token", opts.LoginLimiter.RateLimit(), ctl.Auth.Token)
		} else {
			api.POST("/token", ctl.Auth.Token)
		}

		// account 账号
		api.POST("/account", ctl.Account.Register)
		account := api.Group("/account", middleware.RequireAuth())
		{
			account.GET("/me", ctl.Account.Me)
			account.PUT("/me", ctl.Account.UpdateMe)
			account.GET("/:id", ctl.Account.GetByID)
			account.DELETE("/:id", ctl.Account.Delete)
		}

		// products 商品，写操作在 controller 内校验管理员
		products := api.Group("/products")
		{
			products.GET("", ctl.Product.List)
			products.GET("/:id", ctl.Product.Get)
			products.POST("", ctl.Product.Create)
			products.PUT("/:id", ctl.Product.Update)
			products.DELETE("/:id", ctl.Product.Delete)
		}

		// cart 购物车
		cart := api.Group("/cart", middleware.RequireAuth())
		{
			cart.GET("", ctl.Cart.List)
			cart.GET("/:id", ctl.Cart.Get)
			cart.POST("", ctl.Cart.Add)
			cart.DELETE("/:id", ctl.Cart.Delete)
		}

		// wishlist 收藏夹
		wishlist := api.Group("/wishlist", middleware.RequireAuth())
		{
			wishlist.GET("", ctl.Wishlist.List)
			wishlist.GET("/:id", ctl.Wishlist.Get)
			wishlist.POST("", ctl.Wishlist.Add)
			wishlist.DELETE("/:id", ctl.Wishlist.Delete)
		}
	}
}
