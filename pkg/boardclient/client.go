package boardclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// APIError 服务端返回的业务错误
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsTransient reports whether the error is a network level failure
// Transient failures keep optimistic state, other failures trigger a reload
// IsTransient 判断错误是否为网络层瞬时故障
// 瞬时故障保留乐观状态，其余故障触发整体重载
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Client 冰箱看板客户端
// 组合 HTTP 变更调用、实时事件订阅与本地状态投影
type Client struct {
	cfg      Config
	http     *http.Client
	state    *State
	noteDeb  *debouncer
	imageDeb *debouncer
	logger   *zap.Logger

	connState atomic.Int32
	closeCh   chan struct{}
	closed    atomic.Bool
}

// NewClient 创建客户端，配置零值取默认
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:     cfg,
		http:    cfg.HTTPClient,
		state:   NewState(cfg.Logger),
		logger:  cfg.Logger,
		closeCh: make(chan struct{}),
	}
	c.noteDeb = newDebouncer(cfg.DebounceWindow, c.flushNotePosition)
	c.imageDeb = newDebouncer(cfg.DebounceWindow, c.flushImagePosition)
	return c
}

// State 返回本地状态投影
func (c *Client) State() *State {
	return c.state
}

// ConnState 返回当前连接状态
func (c *Client) ConnState() ConnState {
	return ConnState(c.connState.Load())
}

// Close 停止重连与未触发的防抖落库
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.closeCh)
	}
	c.noteDeb.Close()
	c.imageDeb.Close()
}

// Load fetches notes and images in parallel and replaces local state
// Load 并行拉取便签与图片并整体替换本地状态
func (c *Client) Load(ctx context.Context) error {
	var notes []*Note
	var images []*Image

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.doJSON(gctx, http.MethodGet, "/api/notes", nil, &notes)
	})
	g.Go(func() error {
		return c.doJSON(gctx, http.MethodGet, "/api/images", nil, &images)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.state.Replace(notes, images)
	return nil
}

// CreateNote 创建便签，用服务端返回的实体做乐观插入
func (c *Client) CreateNote(ctx context.Context, content string, x float64, y float64) (*Note, error) {
	body := map[string]interface{}{
		"content":  content,
		"position": Position{X: x, Y: y},
	}
	var note Note
	if err := c.doJSON(ctx, http.MethodPost, "/api/notes", body, &note); err != nil {
		return nil, err
	}
	c.state.upsertNote(&note, true)
	return &note, nil
}

// UpdateNote 更新便签内容
func (c *Client) UpdateNote(ctx context.Context, id string, content string) (*Note, error) {
	body := map[string]interface{}{"content": content}
	var note Note
	if err := c.doJSON(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), body, &note); err != nil {
		return nil, err
	}
	c.state.upsertNote(&note, false)
	return &note, nil
}

// MoveNote applies the position locally at once and defers persistence
// by the debounce window, a newer move cancels the pending write
// MoveNote 立即应用本地位置，落库按防抖窗口延迟
// 更新的移动会取消尚未触发的落库
func (c *Client) MoveNote(id string, x float64, y float64) {
	c.state.moveNote(id, x, y)
	c.noteDeb.Schedule(id, x, y)
}

// DeleteNote 乐观删除便签，失败时整体重载回滚
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	c.state.removeNote(id)

	err := c.doJSON(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil)
	if err != nil {
		c.logger.Warn("boardclient DeleteNote err, reloading", zap.String("id", id), zap.Error(err))
		if rerr := c.Load(ctx); rerr != nil {
			c.logger.Error("boardclient rollback reload err", zap.Error(rerr))
		}
		return err
	}
	return nil
}

// UploadImage 上传图片，用服务端返回的实体做乐观插入
func (c *Client) UploadImage(ctx context.Context, fileName string, file io.Reader, x float64, y float64) (*Image, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, err
	}
	_ = mw.WriteField("positionX", fmt.Sprintf("%g", x))
	_ = mw.WriteField("positionY", fmt.Sprintf("%g", y))
	if err = mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/images", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var image Image
	if err = c.send(req, &image); err != nil {
		return nil, err
	}
	c.state.upsertImage(&image, true)
	return &image, nil
}

// MoveImage applies the position locally at once and defers persistence
// by the debounce window, a newer move cancels the pending write
// MoveImage 立即应用本地位置，落库按防抖窗口延迟
// 更新的移动会取消尚未触发的落库
func (c *Client) MoveImage(id string, x float64, y float64) {
	c.state.moveImage(id, x, y)
	c.imageDeb.Schedule(id, x, y)
}

// DeleteImage 乐观删除图片，失败时整体重载回滚
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	c.state.removeImage(id)

	err := c.doJSON(ctx, http.MethodDelete, "/api/images/"+url.PathEscape(id), nil, nil)
	if err != nil {
		c.logger.Warn("boardclient DeleteImage err, reloading", zap.String("id", id), zap.Error(err))
		if rerr := c.Load(ctx); rerr != nil {
			c.logger.Error("boardclient rollback reload err", zap.Error(rerr))
		}
		return err
	}
	return nil
}

// flushNotePosition 防抖窗口到期后的实际落库
func (c *Client) flushNotePosition(id string, x float64, y float64) {
	c.flushPosition("/api/notes/"+url.PathEscape(id)+"/position", id, x, y)
}

// flushImagePosition 图片位置的防抖落库
func (c *Client) flushImagePosition(id string, x float64, y float64) {
	c.flushPosition("/api/images/"+url.PathEscape(id)+"/position", id, x, y)
}

// flushPosition 瞬时网络错误吞掉保留乐观状态，业务错误重载回滚
func (c *Client) flushPosition(path string, id string, x float64, y float64) {
	body := map[string]interface{}{"position": Position{X: x, Y: y}}
	err := c.doJSON(context.Background(), http.MethodPatch, path, body, nil)
	if err == nil {
		return
	}
	if IsTransient(err) {
		c.logger.Debug("boardclient position flush transient err", zap.String("id", id), zap.Error(err))
		return
	}
	c.logger.Warn("boardclient position flush err, reloading", zap.String("id", id), zap.Error(err))
	if rerr := c.Load(context.Background()); rerr != nil {
		c.logger.Error("boardclient rollback reload err", zap.Error(rerr))
	}
}

// doJSON 发送 JSON 请求并解码响应
func (c *Client) doJSON(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// send 执行请求，非 2xx 解析为 APIError
func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Error string `json:"error"`
		}
		if err := sonic.Unmarshal(payload, &envelope); err == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	return sonic.Unmarshal(payload, out)
}

// deriveWSURL 从 HTTP 地址推导 websocket 地址
func deriveWSURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/ws"
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/ws"
	default:
		return strings.TrimSuffix(baseURL, "/") + "/ws"
	}
}
