package task

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/app"
	"github.com/haierkeys/fridge-board-service/pkg/storage"

	"go.uber.org/zap"
)

// sweepGracePeriod 孤儿对象的保护期，避免误删刚写入还未入库的对象
const sweepGracePeriod = time.Hour

// BlobSweepTask 清理本地存储中没有元数据指向的孤儿图片对象
// 上传先落对象再写元数据，元数据写入失败时回收可能遗漏，这里兜底
type BlobSweepTask struct {
	app      *app.App
	logger   *zap.Logger
	savePath string
}

// NewBlobSweepTask 创建孤儿对象清理任务，非本地存储返回 nil
func NewBlobSweepTask(a *app.App, logger *zap.Logger) (*BlobSweepTask, error) {
	cfg := a.Config()
	if cfg.Storage.Type != storage.LOCAL {
		return nil, nil
	}
	return &BlobSweepTask{
		app:      a,
		logger:   logger,
		savePath: cfg.Storage.SavePath,
	}, nil
}

// Name 任务名称
func (t *BlobSweepTask) Name() string {
	return "BlobSweepTask"
}

// CronSpec 每天凌晨 3:30 执行
func (t *BlobSweepTask) CronSpec() string {
	return "30 3 * * *"
}

// IsStartupRun 不在启动时执行，服务刚起时可能还有未入库的上传
func (t *BlobSweepTask) IsStartupRun() bool {
	return false
}

// Run 扫描 images 目录，删除没有对应元数据且超过保护期的对象目录
func (t *BlobSweepTask) Run(ctx context.Context) error {
	imagesDir := filepath.Join(t.savePath, "images")
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	images, err := t.app.ImageRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(images))
	for _, img := range images {
		known[img.ID] = struct{}{}
	}

	var removed int
	now := time.Now()
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "image-") {
			continue
		}
		if _, ok := known[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < sweepGracePeriod {
			continue
		}

		dir := filepath.Join(imagesDir, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			t.logger.Warn(t.Name()+" remove err", zap.String("dir", dir), zap.Error(err))
			continue
		}
		removed++
	}

	t.logger.Info(t.Name()+" completed", zap.Int("removed", removed))
	return nil
}
