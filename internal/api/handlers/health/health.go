package health

import (
	"net/http"
	"runtime"
	"time"

	"leftover-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Status 健康檢查所需的應用狀態
type Status interface {
	BreakerState() string
	CacheStats() map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Vocabulary int                    `json:"vocabulary"`
	Breaker    string                 `json:"breaker"`
	Cache      map[string]interface{} `json:"cache"`
	Runtime    map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	version    string
	vocabulary int
	status     Status
}

// NewHandler 創建健康檢查處理器
func NewHandler(version string, vocabulary int, status Status) *Handler {
	return &Handler{version: version, vocabulary: vocabulary, status: status}
}

// HealthCheck 健康檢查；斷路器開啟時狀態為 degraded
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	breaker := h.status.BreakerState()
	status := "ok"
	if breaker == "open" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Version:    h.version,
		Vocabulary: h.vocabulary,
		Breaker:    breaker,
		Cache:      h.status.CacheStats(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck 就緒檢查；食譜來源斷路器開啟時返回 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.vocabulary == 0 || h.status.BreakerState() == "open" {
		status, body := common.ToErrorResponse(common.ErrServiceUnavailable)
		body.Details = gin.H{
			"status":     "not_ready",
			"vocabulary": h.vocabulary,
			"breaker":    h.status.BreakerState(),
		}
		c.AbortWithStatusJSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
