package dto

import (
	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/pkg/timex"
)

// ImageRes Image response entity
// ImageRes 图片响应实体
type ImageRes struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	OriginalName string     `json:"originalName"`
	Position     Position   `json:"position"`
	CreatedAt    timex.Time `json:"createdAt"`
	UpdatedAt    timex.Time `json:"updatedAt"`
}

// ToImageRes converts a domain image into the response entity
// ToImageRes 将领域图片转换为响应实体
func ToImageRes(i *domain.Image) *ImageRes {
	if i == nil {
		return nil
	}
	return &ImageRes{
		ID:           i.ID,
		URL:          i.URL,
		OriginalName: i.OriginalName,
		Position:     Position{X: i.PositionX, Y: i.PositionY},
		CreatedAt:    timex.Time(i.CreatedAt),
		UpdatedAt:    timex.Time(i.UpdatedAt),
	}
}

// ToImageResList converts a domain image slice, never returns nil
// ToImageResList 转换领域图片切片，永不返回 nil
func ToImageResList(images []*domain.Image) []*ImageRes {
	list := make([]*ImageRes, 0, len(images))
	for _, i := range images {
		list = append(list, ToImageRes(i))
	}
	return list
}

// ImageUploadRequest Request parameters accompanying a multipart upload
// 伴随 multipart 上传的请求参数
type ImageUploadRequest struct {
	PositionX float64 `form:"positionX"`
	PositionY float64 `form:"positionY"`
}

// ImageUpdateRequest Request parameters for updating an image
// Position is the only mutable image field, omitted it keeps its stored value
// 用于更新图片的请求参数，位置是图片唯一可变字段，缺省时保持原值
type ImageUpdateRequest struct {
	Position *Position `json:"position" form:"position"`
}
