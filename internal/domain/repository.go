// Package domain 定义领域模型和接口
package domain

import "context"

// NoteRepository 便签仓储接口
type NoteRepository interface {
	// ListAll 获取全部便签，按创建时间倒序
	ListAll(ctx context.Context) ([]*Note, error)

	// GetByID 根据ID获取便签
	GetByID(ctx context.Context, id string) (*Note, error)

	// Create 创建便签
	Create(ctx context.Context, note *Note) (*Note, error)

	// Update 更新便签全部可变字段与时间戳，返回是否命中记录
	Update(ctx context.Context, note *Note) (bool, error)

	// UpdatePosition 更新便签位置与时间戳，返回是否命中记录
	UpdatePosition(ctx context.Context, note *Note) (bool, error)

	// Delete 物理删除便签，返回是否命中记录
	Delete(ctx context.Context, id string) (bool, error)
}

// ImageRepository 图片仓储接口
type ImageRepository interface {
	// ListAll 获取全部图片，按创建时间倒序
	ListAll(ctx context.Context) ([]*Image, error)

	// GetByID 根据ID获取图片
	GetByID(ctx context.Context, id string) (*Image, error)

	// Create 创建图片
	Create(ctx context.Context, image *Image) (*Image, error)

	// UpdatePosition 更新图片位置与时间戳，返回是否命中记录
	UpdatePosition(ctx context.Context, image *Image) (bool, error)

	// Delete 物理删除图片，返回是否命中记录
	Delete(ctx context.Context, id string) (bool, error)
}
