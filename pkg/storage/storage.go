// Package storage abstracts blob storage behind a small interface
// Package storage 将 Blob 存储抽象为一个小接口
package storage

import (
	"io"

	"github.com/haierkeys/fridge-board-service/pkg/code"
	"github.com/haierkeys/fridge-board-service/pkg/storage/aws_s3"
	"github.com/haierkeys/fridge-board-service/pkg/storage/local_fs"

	"go.uber.org/zap"
)

type Type = string

const LOCAL Type = "localfs"
const S3 Type = "s3"

var StorageTypeMap = map[Type]bool{
	LOCAL: true,
	S3:    true,
}

// Config Unified storage configuration
// Config 统一存储配置
type Config struct {
	Type Type `yaml:"type" default:"localfs"`

	// Local FS
	SavePath       string `yaml:"save-path" default:"storage/uploads"`
	HttpfsIsEnable bool   `yaml:"httpfs-is-enable" default:"true"`
	// PublicURL URL prefix of the local httpfs, derived from the request host when empty
	// PublicURL 本地 httpfs 的 URL 前缀，为空时由请求 Host 推导
	PublicURL string `yaml:"public-url"`

	// Cloud Storage (S3)
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type Storager interface {
	// SendFile stores the blob under fileKey and returns the stored key
	// SendFile 将 Blob 存储到 fileKey 下并返回存储键
	SendFile(fileKey string, file io.Reader, contentType string) (string, error)
	// Delete removes the blob, missing blobs are not an error
	// Delete 删除 Blob，Blob 不存在时不视为错误
	Delete(fileKey string) error
}

// NewClient creates a storage client for the configured type
// NewClient 按配置的类型创建存储客户端
func NewClient(config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil {
		return nil, code.ErrorInvalidStorageType
	}

	switch config.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:       config.SavePath,
			HttpfsIsEnable: config.HttpfsIsEnable,
		})
	case S3:
		return aws_s3.NewClient(&aws_s3.Config{
			Region:          config.Region,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		}, aws_s3.WithLogger(logger))
	}
	return nil, code.ErrorInvalidStorageType
}
