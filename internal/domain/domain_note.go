// Package domain 定义领域模型和接口
package domain

import "time"

// Note 便签领域模型
type Note struct {
	ID        string
	Content   string
	PositionX float64
	PositionY float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
