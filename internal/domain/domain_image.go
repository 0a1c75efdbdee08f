// Package domain 定义领域模型和接口
package domain

import "time"

// Image 图片领域模型
type Image struct {
	ID           string
	URL          string
	OriginalName string
	PositionX    float64
	PositionY    float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
