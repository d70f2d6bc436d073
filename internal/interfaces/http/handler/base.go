// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/interfaces/http/dto"
	"bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// respondError 统一错误出口
// 业务错误按错误码映射状态码；其余错误记日志并按 500 返回通用文案
func respondError(c *gin.Context, err error, fallback string) {
	if errors.IsAppError(err) {
		dto.FromAppError(c, err)
		return
	}
	logger.Error(c.Request.Context(), fallback, err,
		"path", c.Request.URL.Path, "method", c.Request.Method)
	dto.InternalError(c, fallback)
}
