// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/fridge-board-service/internal/domain"
	"github.com/haierkeys/fridge-board-service/pkg/timex"
)

// Position 实体在画板上的坐标
// 线路上始终是嵌套对象，扁平的 position_x/position_y 只存在于数据库列
// Position is a board coordinate
// The wire always carries the nested object, flat position_x/position_y only exist as DB columns
type Position struct {
	X float64 `json:"x" form:"x"`
	Y float64 `json:"y" form:"y"`
}

// NoteRes Note response entity
// NoteRes 便签响应实体
type NoteRes struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Position  Position   `json:"position"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

// ToNoteRes converts a domain note into the response entity
// ToNoteRes 将领域便签转换为响应实体
func ToNoteRes(n *domain.Note) *NoteRes {
	if n == nil {
		return nil
	}
	return &NoteRes{
		ID:        n.ID,
		Content:   n.Content,
		Position:  Position{X: n.PositionX, Y: n.PositionY},
		CreatedAt: timex.Time(n.CreatedAt),
		UpdatedAt: timex.Time(n.UpdatedAt),
	}
}

// ToNoteResList converts a domain note slice, never returns nil
// ToNoteResList 转换领域便签切片，永不返回 nil
func ToNoteResList(notes []*domain.Note) []*NoteRes {
	list := make([]*NoteRes, 0, len(notes))
	for _, n := range notes {
		list = append(list, ToNoteRes(n))
	}
	return list
}

// NoteCreateRequest Request parameters for creating a note
// 用于创建便签的请求参数，位置缺省时落在原点
type NoteCreateRequest struct {
	Content  string    `json:"content" form:"content"`
	Position *Position `json:"position" form:"position"`
}

// NoteUpdateRequest Request parameters for updating a note
// Omitted fields keep their stored values
// 用于更新便签的请求参数，缺省字段保持原值
type NoteUpdateRequest struct {
	Content  *string   `json:"content" form:"content"`
	Position *Position `json:"position" form:"position"`
}

// PositionUpdateRequest Request parameters for moving an entity
// 用于移动实体的请求参数
type PositionUpdateRequest struct {
	Position *Position `json:"position" form:"position" binding:"required"`
}
