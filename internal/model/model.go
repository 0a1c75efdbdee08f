// Package model 定义数据库模型
package model

import (
	"github.com/haierkeys/fridge-board-service/pkg/timex"

	"gorm.io/gorm"
)

// Note 便签表模型
// 时间戳以 RFC3339 文本存储，由服务层显式赋值
type Note struct {
	ID        string     `gorm:"column:id;primaryKey" json:"id"`
	Content   string     `gorm:"column:content;type:text;not null" json:"content"`
	PositionX float64    `gorm:"column:position_x;not null;default:0" json:"positionX"`
	PositionY float64    `gorm:"column:position_y;not null;default:0" json:"positionY"`
	CreatedAt timex.Time `gorm:"column:created_at;type:text;not null;autoCreateTime:false;autoUpdateTime:false" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:text;not null;autoCreateTime:false;autoUpdateTime:false" json:"updatedAt"`
}

// TableName 指定表名
func (Note) TableName() string {
	return "notes"
}

// Image 图片表模型
type Image struct {
	ID           string     `gorm:"column:id;primaryKey" json:"id"`
	URL          string     `gorm:"column:url;type:text;not null" json:"url"`
	OriginalName string     `gorm:"column:original_name;type:text;not null" json:"originalName"`
	PositionX    float64    `gorm:"column:position_x;not null;default:0" json:"positionX"`
	PositionY    float64    `gorm:"column:position_y;not null;default:0" json:"positionY"`
	CreatedAt    timex.Time `gorm:"column:created_at;type:text;not null;autoCreateTime:false;autoUpdateTime:false" json:"createdAt"`
	UpdatedAt    timex.Time `gorm:"column:updated_at;type:text;not null;autoCreateTime:false;autoUpdateTime:false" json:"updatedAt"`
}

// TableName 指定表名
func (Image) TableName() string {
	return "images"
}

// AutoMigrate 迁移全部表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Note{}, Image{})
}
