package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/service"
)

// ==================== WishlistController 收藏夹控制器 ====================

// WishlistController 当前账号的收藏夹
type WishlistController struct {
	wishlistService *service.WishlistService
	guard           *service.AuthorizationService
	log             *zap.Logger
}

// NewWishlistController 创建收藏夹控制器
func NewWishlistController(wishlistService *service.WishlistService, guard *service.AuthorizationService, log *zap.Logger) *WishlistController {
	return &WishlistController{wishlistService: wishlistService, guard: guard, log: log}
}

// List 收藏夹列表
// @Summary 收藏夹列表
// @Tags Wishlist
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，从 0 开始" default(0)
// @Param size query int false "每页数量，小于 200" default(50)
// @Success 200 {object} dto.PageResp[dto.WishlistItemResp]
// @Failure 401 {object} map[string]interface{}
// @Router /api/wishlist [get]
func (ctrl *WishlistController) List(c *gin.Context) {
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

	result, err := ctrl.wishlistService.List(ctx, ownerID, page)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toPageResp(result, toWishlistItemResp))
}

// Get 收藏夹条目
// @Summary 收藏夹条目详情
// @Tags Wishlist
// @Produce json
// @Security BearerAuth
// @Param id path int true "条目ID"
// @Success 200 {object} dto.WishlistItemResp
// @Failure 404 {object} map[string]interface{}
// @Router /api/wishlist/{id} [get]
func (ctrl *WishlistController) Get(c *gin.Context) {
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

	item, err := ctrl.wishlistService.GetByID(ctx, id, ownerID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toWishlistItemResp(item))
}

// Add 加入收藏夹，已存在时返回 409
// @Summary 加入收藏夹
// @Tags Wishlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.WishlistItemReq true "商品"
// @Success 201 {object} dto.WishlistItemResp
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/wishlist [post]
func (ctrl *WishlistController) Add(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID, err := ctrl.guard.RequireUser(ctx)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	var req dto.WishlistItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := ctrl.wishlistService.Save(ctx, ownerID, req.ProductID)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	c.Header("Location", "/api/wishlist/"+strconv.FormatInt(item.ID, 10))
	c.JSON(http.StatusCreated, toWishlistItemResp(item))
}

// Delete 移除收藏夹条目
// @Summary 移除收藏夹条目
// @Tags Wishlist
// @Security BearerAuth
// @Param id path int true "条目ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/wishlist/{id} [delete]
func (ctrl *WishlistController) Delete(c *gin.Context) {
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

	if err := ctrl.wishlistService.Delete(ctx, id, ownerID); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
