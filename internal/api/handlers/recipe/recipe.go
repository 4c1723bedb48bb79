package recipe

import (
	"net/http"

	"leftover-chef/internal/api/handlers"
	"leftover-chef/internal/core/export"
	recipeService "leftover-chef/internal/core/recipe"
	"leftover-chef/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ValidateRequest 只驗證食材，不查詢食譜
type ValidateRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
}

// Handler 食譜處理程序
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// HandleSearch 依食材搜尋食譜
func (h *Handler) HandleSearch(c *gin.Context) {
	requestID := requestid.Get(c)

	var req common.SearchRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	common.LogInfo("開始處理食譜搜尋請求",
		zap.String("request_id", requestID),
		zap.Strings("ingredients", req.Ingredients),
		zap.String("diet", req.Diet.String()),
	)

	res, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// HandleExport 搜尋後以 CSV 下載結果
func (h *Handler) HandleExport(c *gin.Context) {
	var req common.SearchRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="recipes.csv"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, res.Recipes); err != nil {
		common.LogError("CSV 輸出失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
	}
}

// HandleValidate 返回食材驗證結果
func (h *Handler) HandleValidate(c *gin.Context) {
	var req ValidateRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.service.Validate(req.Ingredients))
}
