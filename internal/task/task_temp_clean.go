package task

import (
	"context"
	"os"

	"github.com/haierkeys/fridge-board-service/internal/app"

	"go.uber.org/zap"
)

// TempCleanupTask 启动时清空临时目录
type TempCleanupTask struct {
	app    *app.App
	logger *zap.Logger
}

// NewTempCleanupTask 创建临时目录清理任务
func NewTempCleanupTask(a *app.App, logger *zap.Logger) *TempCleanupTask {
	return &TempCleanupTask{app: a, logger: logger}
}

// Name 任务名称
func (t *TempCleanupTask) Name() string {
	return "TempCleanupTask"
}

// CronSpec 空串，只在启动时执行
func (t *TempCleanupTask) CronSpec() string {
	return ""
}

// IsStartupRun 启动时立即执行一次
func (t *TempCleanupTask) IsStartupRun() bool {
	return true
}

// Run 删除并重建临时目录
func (t *TempCleanupTask) Run(ctx context.Context) error {
	tempDir := t.app.Config().App.TempPath
	if tempDir == "" {
		tempDir = "storage/temp"
	}

	t.logger.Info("starting temp cleanup", zap.String("path", tempDir))

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return os.MkdirAll(tempDir, 0755)
	}

	if err := os.RemoveAll(tempDir); err != nil {
		t.logger.Error(t.Name()+" failed: remove temp directory", zap.String("path", tempDir), zap.Error(err))
		return err
	}

	if err := os.MkdirAll(tempDir, 0755); err != nil {
		t.logger.Error(t.Name()+" failed: recreate temp directory", zap.String("path", tempDir), zap.Error(err))
		return err
	}

	t.logger.Info(t.Name() + " completed successfully")
	return nil
}
