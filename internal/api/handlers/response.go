package handlers

import (
	"errors"
	"net/http"

	"leftover-chef/internal/core/recipe"
	"leftover-chef/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為 {error, code, details} 回應。
// 輸入驗證錯誤附帶 valid / invalid / suggestions 供用戶端修正。
func RespondError(c *gin.Context, err error) {
	status, body := common.ToErrorResponse(err)

	var inputErr *recipe.InputError
	if errors.As(err, &inputErr) {
		body.Details = inputErr.Validation
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("code", body.Code),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求無法處理", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// BindJSON 解析請求體，失敗時回應 400 並返回 false
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		status, body := common.ToErrorResponse(common.ErrInvalidRequest.Wrap(err))
		body.Details = gin.H{"reason": err.Error()}
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		c.AbortWithStatusJSON(status, body)
		return false
	}
	return true
}
