// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/dao"
	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/internal/hub"
	"github.com/haierkeys/fridge-board-service/internal/service"
	"github.com/haierkeys/fridge-board-service/pkg/cache"
	"github.com/haierkeys/fridge-board-service/pkg/storage"
	"github.com/haierkeys/fridge-board-service/pkg/workerpool"
	"github.com/haierkeys/fridge-board-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB

	// 并发控制组件
	workerPool    *workerpool.Pool
	dispatchPool  *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// 缓存与 Blob 存储
	Cache   *cache.Cache
	Storage storage.Storager

	// 实时同步
	Rooms *hub.Registry
	Room  *hub.Room

	// Repository 层
	NoteRepo  domain.NoteRepository
	ImageRepo domain.ImageRepository

	// Service 层
	NoteService  service.NoteService
	ImageService service.ImageService

	// 启动时间
	StartTime time.Time

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 广播走单 worker 通道，提交顺序即投递顺序
	dpConfig := workerpool.Config{
		MaxWorkers:     1,
		QueueSize:      wpConfig.QueueSize,
		WarningPercent: wpConfig.WarningPercent,
	}
	a.dispatchPool = workerpool.New(&dpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	// 初始化列表缓存
	a.Cache = cache.New(cfg.GetListCacheTTL())

	// 初始化 Blob 存储
	store, err := storage.NewClient(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	a.Storage = store

	// 初始化房间注册表与主房间
	a.Rooms = hub.NewRegistry(logger)
	a.Room = a.Rooms.GetOrCreate(cfg.App.RoomName)

	// 初始化 Repository 层
	a.NoteRepo = dao.NewNoteRepository(db, logger)
	a.ImageRepo = dao.NewImageRepository(db, logger)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		PublicURL: cfg.Storage.PublicURL,
	}

	// 初始化 Service 层（依赖注入）
	a.NoteService = service.NewNoteService(a.NoteRepo, a.Cache, a.writeQueueMgr, a.dispatchPool, a.Room, logger, svcConfig)
	a.ImageService = service.NewImageService(a.ImageRepo, a.Cache, a.Storage, a.writeQueueMgr, a.dispatchPool, a.Room, logger, svcConfig)

	logger.Info("App container initialized successfully",
		zap.String("room", cfg.App.RoomName),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SubmitTask 提交任务到 Worker Pool
// 返回错误如果池已满或已关闭
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// SubmitTaskAsync 异步提交任务到 Worker Pool（不等待结果）
// 返回错误如果池已满或已关闭
func (a *App) SubmitTaskAsync(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.SubmitAsync(ctx, task)
}

// ExecuteWrite 执行写操作（通过 Write Queue 串行化）
// key: 实体类型，用于确定写队列
// fn: 写操作函数
func (a *App) ExecuteWrite(ctx context.Context, key string, fn func() error) error {
	return a.writeQueueMgr.Execute(ctx, key, fn)
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：房间 -> Worker Pool -> Write Queue Manager -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 关闭所有房间（断开所有 websocket 连接）
	if a.Rooms != nil {
		a.logger.Info("Shutting down rooms...")
		a.Rooms.Shutdown()
	}

	// 2. 关闭广播通道与 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.dispatchPool != nil {
		if err := a.dispatchPool.Shutdown(ctx); err != nil {
			a.logger.Warn("dispatch pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("dispatch pool shutdown: %w", err))
		}
	}
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		} else {
			a.logger.Info("Worker pool shutdown completed")
		}
	}

	// 3. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		} else {
			a.logger.Info("write queue manager shutdown completed")
		}
	}

	// 4. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 5. 清空缓存并关闭数据库连接
	if a.Cache != nil {
		a.Cache.Flush()
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道（用于监听关闭事件）
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
