package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/service"
)

// ==================== AuthController 认证控制器 ====================

// AuthController 签发 Token
type AuthController struct {
	accountService *service.AccountService
	log            *zap.Logger
}

// NewAuthController 创建认证控制器
func NewAuthController(accountService *service.AccountService, log *zap.Logger) *AuthController {
	return &AuthController{accountService: accountService, log: log}
}

// Token 邮箱密码换取 Token
// @Summary 登录获取 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginReq true "登录信息"
// @Success 200 {object} dto.TokenResp
// @Failure 401 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/token [post]
func (ctrl *AuthController) Token(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		// 请求体不合法同样按凭证错误处理
		respondError(c, ctrl.log, service.ErrInvalidCredentials)
		return
	}

	resp, err := ctrl.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
