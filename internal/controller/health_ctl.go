package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"product_trial_back/pkg/database"
)

// HealthController 存活与就绪探针
type HealthController struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHealthController(db *gorm.DB, log *zap.Logger) *HealthController {
	return &HealthController{db: db, log: log}
}

// Health 存活探针
// @Summary 存活检查
// @Tags Health
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// Ready 就绪探针，检查数据库连接
// @Summary 就绪检查
// @Tags Health
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (ctrl *HealthController) Ready(c *gin.Context) {
	if err := database.Ping(ctrl.db); err != nil {
		ctrl.log.Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
