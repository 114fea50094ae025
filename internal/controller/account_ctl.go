package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/service"
)

// ==================== AccountController 账号控制器 ====================

// AccountController 账号控制器
type AccountController struct {
	accountService *service.AccountService
	guard          *service.AuthorizationService
	log            *zap.Logger
}

// NewAccountController 创建账号控制器
func NewAccountController(accountService *service.AccountService, guard *service.AuthorizationService, log *zap.Logger) *AccountController {
	return &AccountController{accountService: accountService, guard: guard, log: log}
}

// Register 注册账号
// @Summary 注册账号
// @Tags Account
// @Accept json
// @Produce json
// @Param request body dto.RegisterReq true "注册信息"
// @Success 201 {object} dto.AccountResp
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/account [post]
func (ctrl *AccountController) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := ctrl.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	c.Header("Location", "/api/account/"+strconv.FormatInt(account.ID, 10))
	c.JSON(http.StatusCreated, toAccountResp(account))
}

// Me 当前账号
// @Summary 当前账号信息
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccountResp
// @Failure 401 {object} map[string]interface{}
// @Router /api/account/me [get]
func (ctrl *AccountController) Me(c *gin.Context) {
	account, err := ctrl.guard.CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	if account == nil {
		respondError(c, ctrl.log, service.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(account))
}

// UpdateMe 更新个人资料
// @Summary 更新个人资料
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileReq true "资料"
// @Success 200 {object} dto.AccountResp
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/account/me [put]
func (ctrl *AccountController) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := ctrl.guard.RequireUser(ctx)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := ctrl.accountService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(account))
}

// GetByID 查看账号，仅本人或管理员
// @Summary 查看账号
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Param id path int true "账号ID"
// @Success 200 {object} dto.AccountResp
// @Failure 404 {object} map[string]interface{}
// @Router /api/account/{id} [get]
func (ctrl *AccountController) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if !ctrl.guard.CanView(ctx, id) {
		respondError(c, ctrl.log, service.ErrAccountNotFound)
		return
	}

	account, err := ctrl.accountService.GetByID(ctx, id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(account))
}

// Delete 删除账号（管理员）
// @Summary 删除账号
// @Tags Account
// @Security BearerAuth
// @Param id path int true "账号ID"
// @Success 204
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/account/{id} [delete]
func (ctrl *AccountController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if err := ctrl.guard.EnsureAdmin(ctx); err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.accountService.Delete(ctx, id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
