// Package hub 提供房间化的 WebSocket 实时分发
// Package hub provides room based WebSocket realtime dispatch
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/dto"
	"github.com/haierkeys/fridge-board-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	// PingInterval 服务端 Ping 间隔（秒）
	PingInterval = 25
	// PingWait 未收到 Pong 的连接存活时限（秒）
	PingWait = 40
)

// Registry manages all rooms by name
// Registry 按名称管理所有房间
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// GetOrCreate returns the room with the given name, creating it on first use
// GetOrCreate 返回指定名称的房间，首次使用时创建
func (r *Registry) GetOrCreate(name string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[name]; ok {
		return room
	}
	room := newRoom(name, r.logger)
	r.rooms[name] = room
	return room
}

// Shutdown closes every connection of every room
// Shutdown 关闭所有房间的所有连接
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, room := range r.rooms {
		room.closeAll()
	}
}

// member 单个房间成员
type member struct {
	conn *gws.Conn
	done chan struct{}
}

// Room a named broadcast domain of websocket connections
// Room 一个具名的 websocket 连接广播域
type Room struct {
	name   string
	logger *zap.Logger

	mu      sync.Mutex
	members map[*gws.Conn]*member

	up *gws.Upgrader
}

func newRoom(name string, logger *zap.Logger) *Room {
	room := &Room{
		name:    name,
		logger:  logger,
		members: make(map[*gws.Conn]*member),
	}
	room.up = gws.NewUpgrader(room, &gws.ServerOption{
		ParallelEnabled:  true,
		Recovery:         gws.Recovery,
		PermessageDeflate: gws.PermessageDeflate{Enabled: true},
	})
	return room
}

// Name 返回房间名称
func (room *Room) Name() string {
	return room.name
}

// Count returns the current member count
// Count 返回当前成员数量
func (room *Room) Count() int {
	room.mu.Lock()
	defer room.mu.Unlock()
	return len(room.members)
}

// Run returns the gin handler upgrading requests into room members
// Run 返回将请求升级为房间成员的 gin 处理器
func (room *Room) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := room.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			room.logger.Error("Hub Upgrade err", zap.String(logger.FieldRoom, room.name), zap.Error(err))
			return
		}

		m := room.addMember(socket)

		// Greet the new member before any event can reach it
		// 在任何事件送达之前向新成员问候
		room.sendTo(socket, &dto.WSEvent{Type: dto.EventConnected})

		go room.pingLoop(m)
		go socket.ReadLoop()
	}
}

func (room *Room) addMember(conn *gws.Conn) *member {
	room.mu.Lock()
	defer room.mu.Unlock()

	m := &member{conn: conn, done: make(chan struct{})}
	room.members[conn] = m
	connectionsGauge.WithLabelValues(room.name).Set(float64(len(room.members)))
	return m
}

func (room *Room) removeMember(conn *gws.Conn) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if m, ok := room.members[conn]; ok {
		close(m.done)
		delete(room.members, conn)
	}
	connectionsGauge.WithLabelValues(room.name).Set(float64(len(room.members)))
}

// pingLoop 定期发送 Ping 消息
func (room *Room) pingLoop(m *member) {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			if err := m.conn.WritePing(nil); err != nil {
				room.logger.Debug("Hub Ping err", zap.String(logger.FieldRoom, room.name), zap.Error(err))
				return
			}
		}
	}
}

// closeAll 关闭房间内所有连接
func (room *Room) closeAll() {
	room.mu.Lock()
	conns := make([]*gws.Conn, 0, len(room.members))
	for conn := range room.members {
		conns = append(conns, conn)
	}
	room.mu.Unlock()

	for _, conn := range conns {
		conn.WriteClose(1000, []byte("ServerClose"))
	}
}

// BroadcastEvent serializes the event once and fans it out to every member,
// the originator of the mutation included
// BroadcastEvent 将事件序列化一次后分发给所有成员，包含变更的发起者
func (room *Room) BroadcastEvent(eventType string, data interface{}) {
	payload, err := sonic.Marshal(&dto.WSEvent{Type: eventType, Data: data})
	if err != nil {
		room.logger.Error("Hub BroadcastEvent marshal err", zap.String(logger.FieldEvent, eventType), zap.Error(err))
		return
	}
	eventsTotal.WithLabelValues(room.name, eventType).Inc()
	room.broadcast(payload, nil)
}

// broadcast fans the payload out, skipping exclude when set
// broadcast 分发负载，exclude 非空时跳过该连接
func (room *Room) broadcast(payload []byte, exclude *gws.Conn) {
	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()

	room.mu.Lock()
	defer room.mu.Unlock()
	for conn := range room.members {
		if exclude != nil && conn == exclude {
			continue
		}
		_ = b.Broadcast(conn)
	}
}

// sendTo 向单个连接发送事件
func (room *Room) sendTo(conn *gws.Conn, event *dto.WSEvent) {
	payload, err := sonic.Marshal(event)
	if err != nil {
		room.logger.Error("Hub sendTo marshal err", zap.Error(err))
		return
	}
	_ = conn.WriteMessage(gws.OpcodeText, payload)
}

// relayFrame 入站转发帧，负载原样透传
type relayFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ------------------------------------> gws.Event

func (room *Room) OnOpen(conn *gws.Conn) {
	room.logger.Info("Hub Client Connect", zap.String(logger.FieldRoom, room.name), zap.Int("Count", room.Count()))
	_ = conn.SetDeadline(time.Now().Add(PingWait * time.Second))
}

func (room *Room) OnClose(conn *gws.Conn, err error) {
	room.removeMember(conn)
	room.logger.Info("Hub Client Leave", zap.String(logger.FieldRoom, room.name), zap.Int("Count", room.Count()))
}

func (room *Room) OnPing(conn *gws.Conn, payload []byte) {
	_ = conn.SetDeadline(time.Now().Add(PingWait * time.Second))
	_ = conn.WritePong(nil)
}

func (room *Room) OnPong(conn *gws.Conn, payload []byte) {
	_ = conn.SetDeadline(time.Now().Add(PingWait * time.Second))
}

// OnMessage relays recognized broadcast frames to the other room members
// The sender is excluded, it already applied the mutation locally
// OnMessage 将可识别的广播帧转发给房间内的其他成员
// 发送者被排除，它已在本地应用该变更
func (room *Room) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode != gws.OpcodeText {
		return
	}

	var frame relayFrame
	if err := sonic.Unmarshal(message.Bytes(), &frame); err != nil || frame.Type == "" {
		// Malformed frames bounce back to the sender only
		// 格式错误的帧只回弹给发送者
		room.sendTo(conn, &dto.WSEvent{Type: dto.EventError, Message: "Invalid message format"})
		return
	}

	eventType, ok := dto.RelayEventMap[frame.Type]
	if !ok {
		relayDroppedTotal.WithLabelValues(room.name).Inc()
		room.logger.Debug("Hub OnMessage unknown type", zap.String(logger.FieldRoom, room.name), zap.String(logger.FieldEvent, frame.Type))
		return
	}

	payload, err := sonic.Marshal(&dto.WSEvent{Type: eventType, Data: frame.Data})
	if err != nil {
		room.logger.Error("Hub OnMessage marshal err", zap.Error(err))
		return
	}
	eventsTotal.WithLabelValues(room.name, eventType).Inc()
	room.broadcast(payload, conn)
}
