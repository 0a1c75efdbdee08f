// Package boardclient 提供冰箱看板的客户端同步层
// 负责初始加载、乐观更新、位置防抖落库、事件幂等合并与断线重连
// Package boardclient is the board's client sync layer
// It handles initial load, optimistic updates, debounced position
// persistence, idempotent event merging and auto reconnect
package boardclient

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/haierkeys/fridge-board-service/pkg/timex"

	"go.uber.org/zap"
)

// 默认参数，可由 Config 覆盖
const (
	DefaultDebounceWindow = 300 * time.Millisecond
	DefaultReconnectDelay = 3 * time.Second
	DefaultHTTPTimeout    = 15 * time.Second
)

// Position 实体在画板上的坐标
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Note 便签实体的客户端视图
type Note struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Position  Position   `json:"position"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

// Image 图片实体的客户端视图
type Image struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	OriginalName string     `json:"originalName"`
	Position     Position   `json:"position"`
	CreatedAt    timex.Time `json:"createdAt"`
	UpdatedAt    timex.Time `json:"updatedAt"`
}

// Event 服务端下发的事件帧
type Event struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ConnState 连接状态
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Config 客户端配置
type Config struct {
	// BaseURL 服务端 HTTP 地址，如 http://localhost:8000
	BaseURL string
	// WSURL websocket 地址，留空时从 BaseURL 推导
	WSURL string
	// DebounceWindow 位置落库的防抖窗口，零值取默认
	DebounceWindow time.Duration
	// ReconnectDelay 断线重连间隔，零值取默认
	ReconnectDelay time.Duration
	// HTTPClient 自定义 HTTP 客户端，nil 时使用带默认超时的客户端
	HTTPClient *http.Client
	// Logger nil 时静默
	Logger *zap.Logger
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.DebounceWindow <= 0 {
		out.DebounceWindow = DefaultDebounceWindow
	}
	if out.ReconnectDelay <= 0 {
		out.ReconnectDelay = DefaultReconnectDelay
	}
	if out.HTTPClient == nil {
		out.HTTPClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	if out.WSURL == "" {
		out.WSURL = deriveWSURL(out.BaseURL)
	}
	return out
}
