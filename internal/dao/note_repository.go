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

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(db *gorm.DB, logger *zap.Logger) domain.NoteRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteRepository{db: db, logger: logger}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:        m.ID,
		Content:   m.Content,
		PositionX: m.PositionX,
		PositionY: m.PositionY,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return &model.Note{
		ID:        note.ID,
		Content:   note.Content,
		PositionX: note.PositionX,
		PositionY: note.PositionY,
		CreatedAt: timex.Time(note.CreatedAt),
		UpdatedAt: timex.Time(note.UpdatedAt),
	}
}

// ListAll 获取全部便签，按创建时间倒序
func (r *noteRepository) ListAll(ctx context.Context) ([]*domain.Note, error) {
	var ms []*model.Note
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	notes := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		notes = append(notes, r.toDomain(m))
	}
	return notes, nil
}

// GetByID 根据ID获取便签
// 未命中时返回 (nil, nil)
func (r *noteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	var m model.Note
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建便签
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 更新便签全部可变字段与时间戳，返回是否命中记录
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", note.ID).
		Updates(map[string]interface{}{
			"content":    note.Content,
			"position_x": note.PositionX,
			"position_y": note.PositionY,
			"updated_at": timex.Time(note.UpdatedAt),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdatePosition 更新便签位置与时间戳，返回是否命中记录
func (r *noteRepository) UpdatePosition(ctx context.Context, note *domain.Note) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", note.ID).
		Updates(map[string]interface{}{
			"position_x": note.PositionX,
			"position_y": note.PositionY,
			"updated_at": timex.Time(note.UpdatedAt),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 物理删除便签，返回是否命中记录
func (r *noteRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
