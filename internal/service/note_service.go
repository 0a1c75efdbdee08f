package service

import (
	"context"

	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/internal/dto"
	"github.com/haierkeys/fridge-board-service/pkg/cache"
	"github.com/haierkeys/fridge-board-service/pkg/code"
	"github.com/haierkeys/fridge-board-service/pkg/timex"
	"github.com/haierkeys/fridge-board-service/pkg/workerpool"
	"github.com/haierkeys/fridge-board-service/pkg/writequeue"

	"go.uber.org/zap"
)

// NoteService 便签服务接口
type NoteService interface {
	// List 获取全部便签，按创建时间倒序
	// List returns every note, newest first
	List(ctx context.Context) ([]*dto.NoteRes, error)

	// Get 按ID获取单个便签
	// Get returns one note by id
	Get(ctx context.Context, id string) (*dto.NoteRes, error)

	// Create 创建便签并广播 note_created
	// Create inserts a note and broadcasts note_created
	Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteRes, error)

	// Update 更新便签内容或位置并广播 note_updated，缺省字段保持原值
	// Update rewrites note fields and broadcasts note_updated, omitted fields keep their stored values
	Update(ctx context.Context, id string, params *dto.NoteUpdateRequest) (*dto.NoteRes, error)

	// UpdatePosition 更新便签位置并广播 position_updated
	// UpdatePosition moves a note and broadcasts position_updated
	UpdatePosition(ctx context.Context, id string, params *dto.PositionUpdateRequest) (*dto.NoteRes, error)

	// Delete 物理删除便签并广播 note_deleted
	// Delete removes a note and broadcasts note_deleted
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	repo   domain.NoteRepository
	cache  *cache.Cache
	queue  *writequeue.Manager
	pool   *workerpool.Pool
	hub    Broadcaster
	logger *zap.Logger
}

// NewNoteService 创建便签服务实例
func NewNoteService(
	repo domain.NoteRepository,
	c *cache.Cache,
	queue *writequeue.Manager,
	pool *workerpool.Pool,
	hub Broadcaster,
	logger *zap.Logger,
	cfg *ServiceConfig,
) NoteService {
	_ = cfg
	return &noteService{
		repo:   repo,
		cache:  c,
		queue:  queue,
		pool:   pool,
		hub:    hub,
		logger: logger,
	}
}

// List 列表走缓存，未命中时读库回填
func (s *noteService) List(ctx context.Context) ([]*dto.NoteRes, error) {
	if cached, ok := s.cache.Get(cache.KeyNoteList); ok {
		if list, ok := cached.([]*dto.NoteRes); ok {
			return list, nil
		}
	}

	notes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	list := dto.ToNoteResList(notes)
	s.cache.Set(cache.KeyNoteList, list)
	return list, nil
}

// Get 按ID直读数据库，不经过列表缓存
func (s *noteService) Get(ctx context.Context, id string) (*dto.NoteRes, error) {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, code.ErrorNoteNotFound
	}
	return dto.ToNoteRes(note), nil
}

func (s *noteService) Create(ctx context.Context, params *dto.NoteCreateRequest) (*dto.NoteRes, error) {
	now := timex.Now().Time()
	note := &domain.Note{
		ID:        NewEntityID("note"),
		Content:   params.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.Position != nil {
		note.PositionX = params.Position.X
		note.PositionY = params.Position.Y
	}

	err := s.queue.Execute(ctx, writeKeyNote, func() error {
		created, err := s.repo.Create(ctx, note)
		if err != nil {
			return err
		}
		note = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(cache.KeyNoteList)
	res := dto.ToNoteRes(note)
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventNoteCreated, res)
	return res, nil
}

func (s *noteService) Update(ctx context.Context, id string, params *dto.NoteUpdateRequest) (*dto.NoteRes, error) {
	var hit bool
	err := s.queue.Execute(ctx, writeKeyNote, func() error {
		// Read-modify-write inside the queue slot, omitted fields keep their stored values
		// 在队列槽内读改写，缺省字段保持原值
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		if params.Content != nil {
			current.Content = *params.Content
		}
		if params.Position != nil {
			current.PositionX = params.Position.X
			current.PositionY = params.Position.Y
		}
		current.UpdatedAt = timex.Now().Time()
		hit, err = s.repo.Update(ctx, current)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, code.ErrorNoteNotFound
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, code.ErrorNoteNotFound
	}

	s.cache.Delete(cache.KeyNoteList)
	res := dto.ToNoteRes(updated)
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventNoteUpdated, res)
	return res, nil
}

func (s *noteService) UpdatePosition(ctx context.Context, id string, params *dto.PositionUpdateRequest) (*dto.NoteRes, error) {
	note := &domain.Note{
		ID:        id,
		PositionX: params.Position.X,
		PositionY: params.Position.Y,
		UpdatedAt: timex.Now().Time(),
	}

	var hit bool
	err := s.queue.Execute(ctx, writeKeyNote, func() error {
		var err error
		hit, err = s.repo.UpdatePosition(ctx, note)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, code.ErrorNoteNotFound
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, code.ErrorNoteNotFound
	}

	s.cache.Delete(cache.KeyNoteList)
	// Position events carry only the coordinates, movements are frequent
	// 位置事件只携带坐标，移动是高频操作
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventPositionUpdated, &dto.PositionRes{
		ID:       updated.ID,
		Position: dto.Position{X: updated.PositionX, Y: updated.PositionY},
	})
	return dto.ToNoteRes(updated), nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	var hit bool
	err := s.queue.Execute(ctx, writeKeyNote, func() error {
		var err error
		hit, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if !hit {
		return code.ErrorNoteNotFound
	}

	s.cache.Delete(cache.KeyNoteList)
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventNoteDeleted, &dto.DeletedRes{ID: id})
	return nil
}
