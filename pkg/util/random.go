package util

import (
	"math/rand"
)

// GetRandomBase36String 生成指定长度的 base36 随机字符串
// 用于实体 ID 的随机后缀
func GetRandomBase36String(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
