package boardclient

import (
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// 事件类型标签，与服务端保持一致
const (
	eventConnected            = "connected"
	eventError                = "error"
	eventNoteCreated          = "note_created"
	eventNoteUpdated          = "note_updated"
	eventNoteDeleted          = "note_deleted"
	eventPositionUpdated      = "position_updated"
	eventImageCreated         = "image_created"
	eventImageUpdated         = "image_updated"
	eventImageDeleted         = "image_deleted"
	eventImagePositionUpdated = "image_position_updated"
)

// deletedPayload 删除事件负载
type deletedPayload struct {
	ID string `json:"id"`
}

// positionPayload 位置事件负载
type positionPayload struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

// State 本地状态投影，可能短暂偏离服务端，靠幂等合并与整体重载收敛
// State is the local projection, allowed to diverge briefly, converging
// through idempotent merges and full reloads
type State struct {
	mu     sync.RWMutex
	notes  []*Note
	images []*Image
	logger *zap.Logger
}

// NewState 创建空的本地状态
func NewState(logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{logger: logger}
}

// Notes 返回便签快照
func (s *State) Notes() []*Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Images 返回图片快照
func (s *State) Images() []*Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Image, len(s.images))
	copy(out, s.images)
	return out
}

// NoteByID 返回指定便签的副本
func (s *State) NoteByID(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return *n, true
		}
	}
	return Note{}, false
}

// ImageByID 返回指定图片的副本
func (s *State) ImageByID(id string) (Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.images {
		if i.ID == id {
			return *i, true
		}
	}
	return Image{}, false
}

// Replace 用服务端权威数据整体替换本地状态
func (s *State) Replace(notes []*Note, images []*Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	s.images = images
}

// ApplyEvent merges one inbound event into local state
// Merges are idempotent, replaying an event leaves the state unchanged
// ApplyEvent 将一条入站事件合并进本地状态
// 合并是幂等的，重放同一事件不改变状态
func (s *State) ApplyEvent(event *Event) {
	switch event.Type {
	case eventConnected, eventError:
		// 连接问候与错误回弹不携带状态
	case eventNoteCreated:
		var n Note
		if err := sonic.Unmarshal(event.Data, &n); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.upsertNote(&n, true)
	case eventNoteUpdated:
		var n Note
		if err := sonic.Unmarshal(event.Data, &n); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.upsertNote(&n, false)
	case eventNoteDeleted:
		var p deletedPayload
		if err := sonic.Unmarshal(event.Data, &p); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.removeNote(p.ID)
	case eventPositionUpdated:
		var p positionPayload
		if err := sonic.Unmarshal(event.Data, &p); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.moveNote(p.ID, p.Position.X, p.Position.Y)
	case eventImageCreated:
		var i Image
		if err := sonic.Unmarshal(event.Data, &i); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.upsertImage(&i, true)
	case eventImageUpdated:
		var i Image
		if err := sonic.Unmarshal(event.Data, &i); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.upsertImage(&i, false)
	case eventImageDeleted:
		var p deletedPayload
		if err := sonic.Unmarshal(event.Data, &p); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.removeImage(p.ID)
	case eventImagePositionUpdated:
		var p positionPayload
		if err := sonic.Unmarshal(event.Data, &p); err != nil {
			s.logger.Warn("state event decode err", zap.String("type", event.Type), zap.Error(err))
			return
		}
		s.moveImage(p.ID, p.Position.X, p.Position.Y)
	default:
		s.logger.Debug("state event unknown type", zap.String("type", event.Type))
	}
}

// upsertNote 已存在则原地替换，否则按 prepend 语义插入
func (s *State) upsertNote(n *Note, prepend bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.notes {
		if cur.ID == n.ID {
			s.notes[i] = n
			return
		}
	}
	if prepend {
		s.notes = append([]*Note{n}, s.notes...)
	} else {
		// updated 事件先于 created 到达时同样接收
		s.notes = append(s.notes, n)
	}
}

func (s *State) removeNote(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.notes {
		if cur.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

// moveNote 只改坐标，未知 ID 时忽略
func (s *State) moveNote(id string, x float64, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.notes {
		if cur.ID == id {
			cur.Position = Position{X: x, Y: y}
			return
		}
	}
}

func (s *State) upsertImage(img *Image, prepend bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.images {
		if cur.ID == img.ID {
			s.images[i] = img
			return
		}
	}
	if prepend {
		s.images = append([]*Image{img}, s.images...)
	} else {
		s.images = append(s.images, img)
	}
}

func (s *State) removeImage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.images {
		if cur.ID == id {
			s.images = append(s.images[:i], s.images[i+1:]...)
			return
		}
	}
}

func (s *State) moveImage(id string, x float64, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.images {
		if cur.ID == id {
			cur.Position = Position{X: x, Y: y}
			return
		}
	}
}
