package boardclient

import (
	"sync"
	"time"
)

// pendingPosition 待落库的最新坐标
type pendingPosition struct {
	timer *time.Timer
	x     float64
	y     float64
}

// debouncer collapses bursts of position writes into one call per entity
// A newer write cancels the pending one, the last position wins
// debouncer 将同一实体的连续位置写入折叠为一次调用
// 新写入取消未触发的旧写入，最后一次位置生效
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*pendingPosition
	flush   func(id string, x float64, y float64)
	closed  bool
}

func newDebouncer(window time.Duration, flush func(id string, x float64, y float64)) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*pendingPosition),
		flush:   flush,
	}
}

// Schedule 记录实体的最新坐标并重置其防抖计时
func (d *debouncer) Schedule(id string, x float64, y float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if p, ok := d.pending[id]; ok {
		p.x = x
		p.y = y
		p.timer.Reset(d.window)
		return
	}

	p := &pendingPosition{x: x, y: y}
	p.timer = time.AfterFunc(d.window, func() {
		d.fire(id)
	})
	d.pending[id] = p
}

// fire 取出实体的待落库坐标并执行落库
func (d *debouncer) fire(id string) {
	d.mu.Lock()
	p, ok := d.pending[id]
	if ok {
		delete(d.pending, id)
	}
	d.mu.Unlock()

	if ok {
		d.flush(id, p.x, p.y)
	}
}

// PendingCount 返回未触发的防抖条目数
func (d *debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Close 取消全部待触发的落库
func (d *debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for id, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, id)
	}
}
