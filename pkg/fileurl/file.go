// Package fileurl 提供文件路径相关的工具函数
package fileurl

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GetFileExt gets file extension
// GetFileExt 获取文件后缀
func GetFileExt(name string) string {
	return path.Ext(name)
}

// GetFileNameOrRandom 文件名为空或为剪切板默认名时换成随机名
// Clipboard uploads all arrive under the same default name
// 通过剪切板上传的附件都是同一个默认名字
func GetFileNameOrRandom(fileName string) string {
	if fileName == "" {
		return uuid.New().String()
	}
	if fileName == "image.png" {
		return uuid.New().String() + GetFileExt(fileName)
	}
	return fileName
}

// IsExist determines if the given path exists
// IsExist 判断所给路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory of the given path
// CreatePath 创建所给路径的父目录
func CreatePath(dst string, perm os.FileMode) error {
	dir := filepath.Dir(dst)
	return os.MkdirAll(dir, perm)
}

// PathSuffixCheckAdd checks path suffix, adds it if not exists
// PathSuffixCheckAdd 检查路径后缀，如果没有则添加
func PathSuffixCheckAdd(path string, suffix string) string {
	if !strings.HasSuffix(path, suffix) {
		path = path + suffix
	}
	return path
}
