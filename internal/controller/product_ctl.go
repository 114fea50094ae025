package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/service"
)

// ProductController 商品控制器
type ProductController struct {
	productService *service.ProductService
	guard          *service.AuthorizationService
	log            *zap.Logger
}

func NewProductController(productService *service.ProductService, guard *service.AuthorizationService, log *zap.Logger) *ProductController {
	return &ProductController{productService: productService, guard: guard, log: log}
}

// ==================== 查询接口 ====================

// List 商品列表
// @Summary 商品列表
// @Tags Product
// @Produce json
// @Param category query string false "分类"
// @Param keyword query string false "名称/编码搜索"
// @Param page query int false "页码，从 0 开始" default(0)
// @Param size query int false "每页数量，小于 200" default(50)
// @Success 200 {object} dto.PageResp[dto.ProductResp]
// @Failure 400 {object} map[string]interface{}
// @Router /api/products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	var q dto.ProductListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	page, ok := parsePage(c, ctrl.log, q.PageQuery)
	if !ok {
		return
	}

	result, err := ctrl.productService.List(c.Request.Context(), q.Category, q.Keyword, page)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toPageResp(result, toProductResp))
}

// Get 商品详情
// @Summary 商品详情
// @Tags Product
// @Produce json
// @Param id path int true "商品ID"
// @Success 200 {object} dto.ProductResp
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [get]
func (ctrl *ProductController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(product))
}

// ==================== 管理接口 ====================

// Create 创建商品（管理员）
// @Summary 创建商品
// @Tags Product
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProductReq true "商品信息"
// @Success 201 {object} dto.ProductResp
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/products [post]
func (ctrl *ProductController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	if err := ctrl.guard.EnsureAdmin(ctx); err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctrl.productService.Create(ctx, toProductFields(&req))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	c.Header("Location", "/api/products/"+strconv.FormatInt(product.ID, 10))
	c.JSON(http.StatusCreated, toProductResp(product))
}

// Update 更新商品（管理员）
// @Summary 更新商品
// @Tags Product
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Param request body dto.ProductReq true "商品信息"
// @Success 200 {object} dto.ProductResp
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [put]
func (ctrl *ProductController) Update(c *gin.Context) {
	ctx := c.Request.Context()
	if err := ctrl.guard.EnsureAdmin(ctx); err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := ctrl.productService.Update(ctx, id, toProductFields(&req))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toProductResp(product))
}

// Delete 删除商品（管理员）
// @Summary 删除商品
// @Tags Product
// @Security BearerAuth
// @Param id path int true "商品ID"
// @Success 204
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [delete]
func (ctrl *ProductController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := ctrl.guard.EnsureAdmin(ctx); err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.productService.Delete(ctx, id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	ctrl.log.Info("product deleted",
		zap.Int64("product_id", id),
		zap.String("operator", ctrl.guard.CurrentUserEmail(ctx)),
	)
	c.Status(http.StatusNoContent)
}
