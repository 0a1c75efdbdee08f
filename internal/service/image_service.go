package service

import (
	"context"
	"io"
	"strings"

	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/internal/dto"
	"github.com/haierkeys/fridge-board-service/pkg/cache"
	"github.com/haierkeys/fridge-board-service/pkg/code"
	"github.com/haierkeys/fridge-board-service/pkg/logger"
	"github.com/haierkeys/fridge-board-service/pkg/storage"
	"github.com/haierkeys/fridge-board-service/pkg/timex"
	"github.com/haierkeys/fridge-board-service/pkg/workerpool"
	"github.com/haierkeys/fridge-board-service/pkg/writequeue"

	"go.uber.org/zap"
)

// blobKeyPrefix 图片对象键前缀，也是从 URL 反推对象键的定位符
const blobKeyPrefix = "images/"

// httpfsPrefix 本地存储经由 HTTP 暴露的路径前缀
const httpfsPrefix = "/uploads/"

// ImageUploadParams carries the multipart parts the handler extracted
// ImageUploadParams 携带处理器提取出的 multipart 内容
type ImageUploadParams struct {
	File         io.Reader
	OriginalName string
	ContentType  string
	PositionX    float64
	PositionY    float64
	// AccessHost 请求来源地址，PublicURL 未配置时用于拼接图片 URL
	AccessHost string
}

// ImageService 图片服务接口
type ImageService interface {
	// List 获取全部图片，按创建时间倒序
	// List returns every image, newest first
	List(ctx context.Context) ([]*dto.ImageRes, error)

	// Get 按ID获取单个图片
	// Get returns one image by id
	Get(ctx context.Context, id string) (*dto.ImageRes, error)

	// Upload 先写入对象存储再落元数据，随后广播 image_created
	// Upload stores the blob before the metadata row, then broadcasts image_created
	Upload(ctx context.Context, params *ImageUploadParams) (*dto.ImageRes, error)

	// Update 更新图片并广播 image_updated，缺省字段保持原值
	// Update rewrites image fields and broadcasts image_updated, omitted fields keep their stored values
	Update(ctx context.Context, id string, params *dto.ImageUpdateRequest) (*dto.ImageRes, error)

	// UpdatePosition 更新图片位置并广播 image_position_updated
	// UpdatePosition moves an image and broadcasts image_position_updated
	UpdatePosition(ctx context.Context, id string, params *dto.PositionUpdateRequest) (*dto.ImageRes, error)

	// Delete 删除元数据后尽力清理对象，随后广播 image_deleted
	// Delete removes the metadata, best effort cleans the blob, broadcasts image_deleted
	Delete(ctx context.Context, id string) error
}

type imageService struct {
	repo   domain.ImageRepository
	cache  *cache.Cache
	store  storage.Storager
	queue  *writequeue.Manager
	pool   *workerpool.Pool
	hub    Broadcaster
	logger *zap.Logger
	cfg    *ServiceConfig
}

// NewImageService 创建图片服务实例
func NewImageService(
	repo domain.ImageRepository,
	c *cache.Cache,
	store storage.Storager,
	queue *writequeue.Manager,
	pool *workerpool.Pool,
	hub Broadcaster,
	logger *zap.Logger,
	cfg *ServiceConfig,
) ImageService {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}
	return &imageService{
		repo:   repo,
		cache:  c,
		store:  store,
		queue:  queue,
		pool:   pool,
		hub:    hub,
		logger: logger,
		cfg:    cfg,
	}
}

// List 列表走缓存，未命中时读库回填
func (s *imageService) List(ctx context.Context) ([]*dto.ImageRes, error) {
	if cached, ok := s.cache.Get(cache.KeyImageList); ok {
		if list, ok := cached.([]*dto.ImageRes); ok {
			return list, nil
		}
	}

	images, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	list := dto.ToImageResList(images)
	s.cache.Set(cache.KeyImageList, list)
	return list, nil
}

// Get 按ID直读数据库，不经过列表缓存
func (s *imageService) Get(ctx context.Context, id string) (*dto.ImageRes, error) {
	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, code.ErrorImageNotFound
	}
	return dto.ToImageRes(image), nil
}

func (s *imageService) Upload(ctx context.Context, params *ImageUploadParams) (*dto.ImageRes, error) {
	id := NewEntityID("image")
	fileKey := blobKeyPrefix + id + "/" + params.OriginalName

	// The blob lands first so a stored row never points at a missing object
	// 先落对象再写元数据，保证已入库的记录不会指向不存在的对象
	if _, err := s.store.SendFile(fileKey, params.File, params.ContentType); err != nil {
		s.logger.Error("image Upload SendFile err", zap.String(logger.FieldFileKey, fileKey), zap.Error(err))
		return nil, code.ErrorBlobWriteFailed
	}

	now := timex.Now().Time()
	image := &domain.Image{
		ID:           id,
		URL:          s.publicFileURL(fileKey, params.AccessHost),
		OriginalName: params.OriginalName,
		PositionX:    params.PositionX,
		PositionY:    params.PositionY,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.queue.Execute(ctx, writeKeyImage, func() error {
		created, err := s.repo.Create(ctx, image)
		if err != nil {
			return err
		}
		image = created
		return nil
	})
	if err != nil {
		// 元数据失败时回收孤儿对象
		if derr := s.store.Delete(fileKey); derr != nil {
			s.logger.Warn("image Upload rollback Delete err", zap.String(logger.FieldFileKey, fileKey), zap.Error(derr))
		}
		return nil, err
	}

	s.cache.Delete(cache.KeyImageList)
	res := dto.ToImageRes(image)
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventImageCreated, res)
	return res, nil
}

func (s *imageService) Update(ctx context.Context, id string, params *dto.ImageUpdateRequest) (*dto.ImageRes, error) {
	var hit bool
	err := s.queue.Execute(ctx, writeKeyImage, func() error {
		// Read-modify-write inside the queue slot, omitted fields keep their stored values
		// 在队列槽内读改写，缺省字段保持原值
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		if params.Position != nil {
			current.PositionX = params.Position.X
			current.PositionY = params.Position.Y
		}
		current.UpdatedAt = timex.Now().Time()
		hit, err = s.repo.UpdatePosition(ctx, current)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, code.ErrorImageNotFound
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, code.ErrorImageNotFound
	}

	s.cache.Delete(cache.KeyImageList)
	res := dto.ToImageRes(updated)
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventImageUpdated, res)
	return res, nil
}

func (s *imageService) UpdatePosition(ctx context.Context, id string, params *dto.PositionUpdateRequest) (*dto.ImageRes, error) {
	image := &domain.Image{
		ID:        id,
		PositionX: params.Position.X,
		PositionY: params.Position.Y,
		UpdatedAt: timex.Now().Time(),
	}

	var hit bool
	err := s.queue.Execute(ctx, writeKeyImage, func() error {
		var err error
		hit, err = s.repo.UpdatePosition(ctx, image)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, code.ErrorImageNotFound
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, code.ErrorImageNotFound
	}

	s.cache.Delete(cache.KeyImageList)
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventImagePositionUpdated, &dto.PositionRes{
		ID:       updated.ID,
		Position: dto.Position{X: updated.PositionX, Y: updated.PositionY},
	})
	return dto.ToImageRes(updated), nil
}

func (s *imageService) Delete(ctx context.Context, id string) error {
	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if image == nil {
		return code.ErrorImageNotFound
	}

	var hit bool
	err = s.queue.Execute(ctx, writeKeyImage, func() error {
		var err error
		hit, err = s.repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if !hit {
		return code.ErrorImageNotFound
	}

	// Blob cleanup is best effort, the row is already gone
	// 对象清理尽力而为，元数据此时已删除
	if fileKey := blobKeyFromURL(image.URL); fileKey != "" {
		if derr := s.store.Delete(fileKey); derr != nil {
			s.logger.Warn("image Delete blob err", zap.String(logger.FieldFileKey, fileKey), zap.Error(derr))
		}
	}

	s.cache.Delete(cache.KeyImageList)
	dispatchEvent(s.pool, s.hub, s.logger, dto.EventImageDeleted, &dto.DeletedRes{ID: id})
	return nil
}

// publicFileURL 拼接图片的公网访问地址
func (s *imageService) publicFileURL(fileKey string, accessHost string) string {
	if s.cfg.PublicURL != "" {
		return strings.TrimSuffix(s.cfg.PublicURL, "/") + "/" + fileKey
	}
	return strings.TrimSuffix(accessHost, "/") + httpfsPrefix + fileKey
}

// blobKeyFromURL 从图片 URL 反推对象键
func blobKeyFromURL(url string) string {
	idx := strings.Index(url, blobKeyPrefix)
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
