package aws_s3

import (
	"context"
	"io"

	"github.com/haierkeys/fridge-board-service/pkg/fileurl"
	"github.com/haierkeys/fridge-board-service/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// withCustomPath prefixes the configured custom path, if any
// withCustomPath 拼接配置的自定义路径前缀（如有）
func (p *S3) withCustomPath(fileKey string) string {
	if p.Config.CustomPath == "" {
		return fileKey
	}
	return fileurl.PathSuffixCheckAdd(p.Config.CustomPath, "/") + fileKey
}

// SendFile 上传文件
func (p *S3) SendFile(fileKey string, file io.Reader, contentType string) (string, error) {

	bucket := p.Config.BucketName
	ctx := context.Background()

	fileKey = p.withCustomPath(fileKey)

	_, err := p.S3Manager.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(fileKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}

	p.logger.Debug("blob uploaded",
		zap.String(logger.FieldBucket, bucket),
		zap.String(logger.FieldFileKey, fileKey))

	return fileKey, nil
}

// Delete 删除文件
func (p *S3) Delete(fileKey string) error {
	fileKey = p.withCustomPath(fileKey)

	_, err := p.S3Client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(p.Config.BucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}
