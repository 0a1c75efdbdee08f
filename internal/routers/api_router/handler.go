// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"errors"

	"github.com/haierkeys/fridge-board-service/internal/app"
	pkgapp "github.com/haierkeys/fridge-board-service/pkg/app"
	"github.com/haierkeys/fridge-board-service/pkg/code"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// respondError maps service errors onto the response envelope
// 业务码直接返回，其余错误折叠为 500
func respondError(response *pkgapp.Response, err error) {
	var cerr *code.Code
	if errors.As(err, &cerr) {
		response.ToError(cerr)
		return
	}
	response.ToError(code.ErrorServerInternal)
}
