package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"product_trial_back/internal/api/dto"
	"product_trial_back/internal/middleware"
	"product_trial_back/internal/repository"
	"product_trial_back/internal/service"
)

// ==================== 错误响应 ====================

// 分类错误本身的对外消息
var categoryMessages = map[error]string{
	service.ErrUnauthenticated: "Authentication required",
	service.ErrForbidden:       "Access denied",
	service.ErrNotFound:        "Resource not found",
	service.ErrConflict:        "Resource conflict",
	service.ErrInvalidInput:    "Invalid input",
}

// statusFor 错误分类到 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError 统一错误响应，未分类错误只记录日志，不暴露给客户端
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	if m, ok := categoryMessages[err]; ok {
		message = m
	}

	if status == http.StatusInternalServerError {
		log.Error("unexpected error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		message = "Unexpected error"
	}

	c.AbortWithStatusJSON(status, middleware.ErrorBody(c, status, message))
}

// respondBindError 参数绑定/校验失败
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			middleware.ErrorBody(c, http.StatusBadRequest, "Malformed request"))
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describeFieldError(fe)
	}

	body := middleware.ErrorBody(c, http.StatusBadRequest, "Validation failed")
	body["fields"] = fields
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

func describeFieldError(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case passwordPolicyTag:
		return "must contain at least one uppercase letter and one special character"
	default:
		return "is invalid"
	}
}

// ==================== 请求参数 ====================

// parseID 解析路径参数 id
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			middleware.ErrorBody(c, http.StatusBadRequest, "Invalid id"))
		return 0, false
	}
	return id, true
}

// parsePage 校验分页参数
func parsePage(c *gin.Context, log *zap.Logger, q dto.PageQuery) (repository.Page, bool) {
	page, err := service.NewPage(q.Page, q.Size)
	if err != nil {
		respondError(c, log, err)
		return repository.Page{}, false
	}
	return page, true
}

// toPageResp 分页结果转换为响应
func toPageResp[M, R any](result *service.PageResult[M], convert func(*M) R) dto.PageResp[R] {
	content := make([]R, 0, len(result.Items))
	for i := range result.Items {
		content = append(content, convert(&result.Items[i]))
	}

	totalPages := result.TotalPages()
	number := result.Page.Page
	return dto.PageResp[R]{
		Content:       content,
		TotalElements: result.Total,
		TotalPages:    totalPages,
		Number:        number,
		Size:          result.Page.Size,
		First:         number == 0,
		Last:          number >= totalPages-1,
		Empty:         len(content) == 0,
	}
}
