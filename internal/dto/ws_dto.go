package dto

// WSEvent websocket wire frame
// Frames carry a type tag plus an opaque payload; error frames carry a message instead
// WSEvent websocket 线路帧
// 帧携带类型标签和不透明负载；错误帧携带 message 字段
type WSEvent struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// EventType websocket event type tag
// EventType websocket 事件类型标签
type EventType = string

// Server-issued event types
// 服务端下发的事件类型
const (
	// EventConnected greets a client right after the upgrade
	// EventConnected 升级完成后立即向客户端问候
	EventConnected EventType = "connected"

	// EventError reports an unparseable inbound frame to its sender only
	// EventError 仅向发送者报告无法解析的入站帧
	EventError EventType = "error"

	// Note mutation events
	// 便签变更事件
	EventNoteCreated     EventType = "note_created"
	EventNoteUpdated     EventType = "note_updated"
	EventNoteDeleted     EventType = "note_deleted"
	EventPositionUpdated EventType = "position_updated"

	// Image mutation events
	// 图片变更事件
	EventImageCreated         EventType = "image_created"
	EventImageUpdated         EventType = "image_updated"
	EventImageDeleted         EventType = "image_deleted"
	EventImagePositionUpdated EventType = "image_position_updated"
)

// Client-issued broadcast tags relayed to the other room members
// Each tag maps to the event type the relay is rewritten to
// 客户端发出的广播标签，转发给房间内的其他成员
// 每个标签映射到转发时改写成的事件类型
var RelayEventMap = map[string]EventType{
	"broadcast_position_update": EventPositionUpdated,
	"broadcast_note_update":     EventNoteUpdated,
	"broadcast_note_created":    EventNoteCreated,
	"broadcast_note_deleted":    EventNoteDeleted,
}

// DeletedRes payload of delete events
// DeletedRes 删除事件的负载
type DeletedRes struct {
	ID string `json:"id"`
}

// PositionRes payload of position events
// PositionRes 位置事件的负载
type PositionRes struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}
