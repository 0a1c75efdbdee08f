package boardclient

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

// wsHandler 将 gws 回调接回客户端
type wsHandler struct {
	client *Client
	// lost 连接断开时关闭，唤醒重连循环
	lost chan struct{}
}

func (h *wsHandler) OnOpen(conn *gws.Conn) {
	h.client.connState.Store(int32(StateConnected))
	h.client.logger.Info("boardclient connected")
}

func (h *wsHandler) OnClose(conn *gws.Conn, err error) {
	h.client.connState.Store(int32(StateDisconnected))
	h.client.logger.Info("boardclient connection closed", zap.Error(err))
	close(h.lost)
}

func (h *wsHandler) OnPing(conn *gws.Conn, payload []byte) {
	_ = conn.WritePong(nil)
}

func (h *wsHandler) OnPong(conn *gws.Conn, payload []byte) {}

func (h *wsHandler) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode != gws.OpcodeText {
		return
	}

	var event Event
	if err := sonic.Unmarshal(message.Bytes(), &event); err != nil {
		h.client.logger.Warn("boardclient event decode err", zap.Error(err))
		return
	}
	h.client.state.ApplyEvent(&event)
}

// Connect opens the realtime connection and keeps it alive,
// reconnecting after the configured delay with unbounded retries
// Connect 建立实时连接并保活
// 断开后按配置的间隔无限次重连
func (c *Client) Connect(ctx context.Context) {
	go c.connectLoop(ctx)
}

func (c *Client) connectLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closeCh:
			return
		default:
		}

		c.connState.Store(int32(StateConnecting))

		handler := &wsHandler{client: c, lost: make(chan struct{})}
		socket, _, err := gws.NewClient(handler, &gws.ClientOption{
			Addr: c.cfg.WSURL,
		})
		if err != nil {
			c.logger.Warn("boardclient dial err", zap.String("addr", c.cfg.WSURL), zap.Error(err))
			c.connState.Store(int32(StateDisconnected))
			if !c.waitReconnect(ctx) {
				return
			}
			continue
		}

		go socket.ReadLoop()

		// Reload after (re)connecting, events missed while offline are
		// not replayed by the server
		// 连接建立后整体重载，离线期间的事件服务端不补发
		if err := c.Load(ctx); err != nil {
			c.logger.Warn("boardclient load after connect err", zap.Error(err))
		}

		select {
		case <-handler.lost:
			if !c.waitReconnect(ctx) {
				return
			}
		case <-ctx.Done():
			socket.WriteClose(1000, []byte("ClientClose"))
			return
		case <-c.closeCh:
			socket.WriteClose(1000, []byte("ClientClose"))
			return
		}
	}
}

// waitReconnect 等待重连间隔，返回 false 表示客户端已结束
func (c *Client) waitReconnect(ctx context.Context) bool {
	timer := time.NewTimer(c.cfg.ReconnectDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.closeCh:
		return false
	}
}
