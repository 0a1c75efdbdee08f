package api_router

import (
	"net/http"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/app"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string  `json:"status"`    // "ok" 或 "unhealthy"
	Timestamp string  `json:"timestamp"` // 当前时间 RFC3339
	Version   string  `json:"version"`   // 服务版本号
	Uptime    float64 `json:"uptime"`    // 运行时间（秒）
	Database  string  `json:"database"`  // "connected" 或 "error"
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括数据库连接
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   app.Version,
		Uptime:    time.Since(h.App.StartTime).Seconds(),
		Database:  "connected",
	}

	statusCode := http.StatusOK
	if err := h.App.DB.Raw("SELECT 1").Error; err != nil {
		response.Status = "unhealthy"
		response.Database = "error"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
