// Package task 提供后台定时任务的注册与调度
package task

import (
	"context"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/app"
	"github.com/haierkeys/fridge-board-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	CronSpec() string              // cron 表达式，空串表示不做周期执行
	IsStartupRun() bool            // 是否启动时立即执行一次
}

// Manager 任务管理器，负责创建和管理所有任务
type Manager struct {
	cron   *cron.Cron
	tasks  []Task
	logger *zap.Logger
	sc     *safe_close.SafeClose
	app    *app.App
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, a *app.App) *Manager {
	return &Manager{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
		sc:     sc,
		app:    a,
	}
}

// RegisterTasks 注册所有任务
func (m *Manager) RegisterTasks() error {
	m.tasks = append(m.tasks, NewTempCleanupTask(m.app, m.logger))

	sweepTask, err := NewBlobSweepTask(m.app, m.logger)
	if err != nil {
		m.logger.Warn("failed to create blob sweep task", zap.Error(err))
		return err
	}
	if sweepTask != nil {
		m.tasks = append(m.tasks, sweepTask)
	} else {
		m.logger.Info("blob sweep task is disabled (storage is not local)")
	}

	return nil
}

// Start 启动所有已注册的任务，关闭信号触发时平滑停止
func (m *Manager) Start() {
	if len(m.tasks) == 0 {
		m.logger.Info("no tasks to schedule")
		return
	}

	m.logger.Info("tasks starting", zap.Int("count", len(m.tasks)))

	for _, t := range m.tasks {
		m.startTask(t)
	}

	m.cron.Start()

	m.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal

		stopCtx := m.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(10 * time.Second):
			m.logger.Warn("tasks stop timeout, abandoning running jobs")
		}
		m.logger.Info("tasks stopped")
	})
}

// startTask 注册单个任务的启动执行与周期执行
func (m *Manager) startTask(t Task) {
	run := func() {
		if err := t.Run(context.Background()); err != nil {
			m.logger.Error("task running error", zap.String("name", t.Name()), zap.Error(err))
		}
	}

	if t.IsStartupRun() {
		m.logger.Info("task running", zap.String("name", t.Name()), zap.Bool("startupRun", true))
		go func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("task startupRun panic",
						zap.String("name", t.Name()),
						zap.Any("panic", r),
						zap.Stack("stack"))
				}
			}()
			run()
		}()
	}

	if spec := t.CronSpec(); spec != "" {
		if _, err := m.cron.AddFunc(spec, run); err != nil {
			m.logger.Error("task schedule error",
				zap.String("name", t.Name()),
				zap.String("spec", spec),
				zap.Error(err))
		}
	}
}
