// Package safe_close provides coordinated graceful shutdown for long-running services
// Package safe_close 提供长期运行服务的协调式优雅关闭
// Each subsystem attaches a handler; the first close signal fans out to all of them
// 每个子系统注册一个处理器，首个关闭信号会广播给所有处理器
package safe_close

import (
	"sync"
)

type SafeClose struct {
	mu sync.Mutex

	// Closed when a close signal is sent
	// 发送关闭信号时被关闭
	closeSignal chan struct{}

	// First error carried by the close signal
	// 关闭信号携带的第一个错误
	err error

	wg sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach starts f in its own goroutine
// f must call done() when it finishes and must return once closeSignal is closed
// Attach 在独立的 goroutine 中启动 f
// f 完成时必须调用 done()，并且在 closeSignal 关闭后必须返回
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go f(func() { s.wg.Done() }, s.closeSignal)
}

// SendCloseSignal sends a close signal to all attached handlers
// Only the first call takes effect, later calls are no-ops
// SendCloseSignal 向所有已注册的处理器发送关闭信号
// 只有第一次调用生效，后续调用为空操作
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.closeSignal:
		// Already closed
		// 已经关闭
	default:
		s.err = err
		close(s.closeSignal)
	}
}

// HasClosed reports whether a close signal has been sent
// HasClosed 返回是否已经发送过关闭信号
func (s *SafeClose) HasClosed() bool {
	select {
	case <-s.closeSignal:
		return true
	default:
		return false
	}
}

// WaitClosed blocks until every attached handler has called done()
// Returns the error carried by the first close signal, if any
// WaitClosed 阻塞直到所有已注册处理器调用 done()
// 返回首个关闭信号携带的错误（如有）
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
