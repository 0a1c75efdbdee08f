// Package dao 实现数据访问层
package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/internal/model"
	"github.com/haierkeys/fridge-board-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// imageRepository 实现 domain.ImageRepository 接口
type imageRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewImageRepository 创建 ImageRepository 实例
func NewImageRepository(db *gorm.DB, logger *zap.Logger) domain.ImageRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &imageRepository{db: db, logger: logger}
}

// toDomain 将数据库模型转换为领域模型
func (r *imageRepository) toDomain(m *model.Image) *domain.Image {
	if m == nil {
		return nil
	}
	return &domain.Image{
		ID:           m.ID,
		URL:          m.URL,
		OriginalName: m.OriginalName,
		PositionX:    m.PositionX,
		PositionY:    m.PositionY,
		CreatedAt:    time.Time(m.CreatedAt),
		UpdatedAt:    time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *imageRepository) toModel(image *domain.Image) *model.Image {
	if image == nil {
		return nil
	}
	return &model.Image{
		ID:           image.ID,
		URL:          image.URL,
		OriginalName: image.OriginalName,
		PositionX:    image.PositionX,
		PositionY:    image.PositionY,
		CreatedAt:    timex.Time(image.CreatedAt),
		UpdatedAt:    timex.Time(image.UpdatedAt),
	}
}

// ListAll 获取全部图片，按创建时间倒序
func (r *imageRepository) ListAll(ctx context.Context) ([]*domain.Image, error) {
	var ms []*model.Image
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	images := make([]*domain.Image, 0, len(ms))
	for _, m := range ms {
		images = append(images, r.toDomain(m))
	}
	return images, nil
}

// GetByID 根据ID获取图片
// 未命中时返回 (nil, nil)
func (r *imageRepository) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	var m model.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建图片
func (r *imageRepository) Create(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	m := r.toModel(image)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdatePosition 更新图片位置与时间戳，返回是否命中记录
func (r *imageRepository) UpdatePosition(ctx context.Context, image *domain.Image) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Image{}).
		Where("id = ?", image.ID).
		Updates(map[string]interface{}{
			"position_x": image.PositionX,
			"position_y": image.PositionY,
			"updated_at": timex.Time(image.UpdatedAt),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 物理删除图片，返回是否命中记录
func (r *imageRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Image{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
