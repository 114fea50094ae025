package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/service"
)

// ==================== CartController 购物车控制器 ====================

// CartController 当前账号的购物车
type CartController struct {
	cartService *service.CartService
	guard       *service.AuthorizationService
	log         *zap.Logger
}

// NewCartController 创建购物车控制器
func NewCartController(cartService *service.CartService, guard *service.AuthorizationService, log *zap.Logger) *CartController {
	return &CartController{cartService: cartService, guard: guard, log: log}
}

// List 购物车列表
// @Summary 购物车列表
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，从 0 开始" default(0)
// @Param size query int false "每页数量，小于 200" default(50)
// @Success 200 {object} dto.PageResp[dto.CartItemResp]
// @Failure 401 {object} map[string]interface{}
// @Router /api/cart [get]
func (ctrl *CartController) List(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID, err := ctrl.guard.RequireUser(ctx)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	page, ok := parsePage(c, ctrl.log, q)
	if !ok {
		return
	}

	result, err := ctrl.cartService.List(ctx, ownerID, page)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toPageResp(result, toCartItemResp))
}

// Get 购物车条目
// @Summary 购物车条目详情
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目ID"
// @Success 200 {object} dto.CartItemResp
// @Failure 404 {object} map[string]interface{}
// @Router /api/cart/{id} [get]
func (ctrl *CartController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID, err := ctrl.guard.RequireUser(ctx)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := ctrl.cartService.GetByID(ctx, id, ownerID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toCartItemResp(item))
}

// Add 加入购物车，已存在时累加数量
// @Summary 加入购物车
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CartItemReq true "商品与数量"
// @Success 201 {object} dto.CartItemResp
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/cart [post]
func (ctrl *CartController) Add(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID, err := ctrl.guard.RequireUser(ctx)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	var req dto.CartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := ctrl.cartService.Save(ctx, ownerID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	c.Header("Location", "/api/cart/"+strconv.FormatInt(item.ID, 10))
	c.JSON(http.StatusCreated, toCartItemResp(item))
}

// Delete 移除购物车条目
// @Summary 移除购物车条目
// @Tags Cart
// @Security BearerAuth
// @Param id path int true "条目ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/cart/{id} [delete]
func (ctrl *CartController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID, err := ctrl.guard.RequireUser(ctx)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.Delete(ctx, id, ownerID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
