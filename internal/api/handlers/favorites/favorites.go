package favorites

import (
	"fmt"
	"net/http"

	"leftover-chef/internal/api/handlers"
	"leftover-chef/internal/core/favorites"
	"leftover-chef/internal/core/recipe"
	"leftover-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 收藏處理程序
type Handler struct {
	store  *favorites.Store
	source recipe.Source
}

// AddRequest 加入收藏的請求；食譜內容一律向食譜來源查詢
type AddRequest struct {
	ID string `json:"id" binding:"required"`
}

// NewHandler 創建收藏處理程序
func NewHandler(store *favorites.Store, source recipe.Source) *Handler {
	return &Handler{store: store, source: source}
}

// HandleList 列出收藏
func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.store.List()
	if err != nil {
		handlers.RespondError(c, common.ErrInternalError.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": items, "count": len(items)})
}

// HandleAdd 加入收藏；已存在時返回 200，新增時返回 201
func (h *Handler) HandleAdd(c *gin.Context) {
	var req AddRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	r, err := h.source.LookupRecipe(c.Request.Context(), req.ID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if r == nil {
		handlers.RespondError(c, common.ErrRecipeNotFound.Wrap(fmt.Errorf("recipe %s", req.ID)))
		return
	}

	added, err := h.store.Add(*r)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"id": r.ID, "title": r.Title, "added": added})
}

// HandleRemove 移除收藏
func (h *Handler) HandleRemove(c *gin.Context) {
	id := c.Param("id")
	removed, err := h.store.Remove(id)
	if err != nil {
		handlers.RespondError(c, common.ErrInternalError.Wrap(err))
		return
	}
	if !removed {
		handlers.RespondError(c, common.ErrRecipeNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
