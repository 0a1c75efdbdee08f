// Package routers 组装 HTTP 路由与中间件
package routers

import (
	"time"

	"github.com/haierkeys/fridge-board-service/internal/app"
	"github.com/haierkeys/fridge-board-service/internal/middleware"
	"github.com/haierkeys/fridge-board-service/internal/routers/api_router"
	"github.com/haierkeys/fridge-board-service/pkg/limiter"
	"github.com/haierkeys/fridge-board-service/pkg/storage"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
)

// 上传接口单独限流，避免大文件写入挤占其他请求
var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/images",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

// NewRouter 创建主路由（注入 App Container 与翻译器）
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()
	logger := appContainer.Logger()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(middleware.NoFound())
	r.NoMethod(middleware.NoMethod())

	r.Use(middleware.Cors())

	// 本地存储开启 httpfs 时直接静态暴露图片目录
	// Local storage exposes the blob directory over HTTP when httpfs is on
	if cfg.Storage.Type == storage.LOCAL && cfg.Storage.HttpfsIsEnable {
		r.Static("/uploads", cfg.Storage.SavePath)
	}

	healthHandler := api_router.NewHealthHandler(appContainer)
	r.GET("/health", healthHandler.Check)

	// websocket 升级在中间件链之外，连接不受请求超时约束
	r.GET("/ws", appContainer.Room.Run())

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(app.Name, app.Version))
		api.Use(middleware.Tracer())
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(logger))
		api.Use(middleware.RecoveryWithLogger(logger))

		noteHandler := api_router.NewNoteHandler(appContainer)
		imageHandler := api_router.NewImageHandler(appContainer)

		notes := api.Group("/notes")
		{
			notes.GET("", noteHandler.List)
			notes.POST("", noteHandler.Create)
			notes.GET("/:id", noteHandler.Get)
			notes.PUT("/:id", noteHandler.Update)
			notes.PATCH("/:id/position", noteHandler.UpdatePosition)
			notes.DELETE("/:id", noteHandler.Delete)
		}

		images := api.Group("/images")
		{
			images.GET("", imageHandler.List)
			images.POST("", imageHandler.Upload)
			images.GET("/:id", imageHandler.Get)
			images.PUT("/:id", imageHandler.Update)
			images.PATCH("/:id/position", imageHandler.UpdatePosition)
			images.DELETE("/:id", imageHandler.Delete)
		}
	}

	return r
}
