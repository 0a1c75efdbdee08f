// Package logger provides the main zap logger of the service
// Package logger 提供服务的主 zap 日志器
package logger

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config logger configuration
// Config 日志器配置
type Config struct {
	// Level log level: debug / info / warn / error
	// Level 日志级别：debug / info / warn / error
	Level string
	// File log file path, empty to disable file output
	// File 日志文件路径，为空时不输出到文件
	File string
	// Production use JSON encoder for the file output
	// Production 文件输出使用 JSON 编码器
	Production bool
}

// NewLogger creates the main logger
// Console output is always enabled; file output is added when File is set
// NewLogger 创建主日志器
// 控制台输出始终开启；设置 File 时追加文件输出
func NewLogger(cfg Config) (*zap.Logger, error) {

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, errors.Wrap(err, "logger")
		}
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0754); err != nil {
			return nil, errors.Wrap(err, "logger")
		}
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, errors.Wrap(err, "logger")
		}

		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		var fileEncoder zapcore.Encoder
		if cfg.Production {
			fileEncoder = zapcore.NewJSONEncoder(fileEncoderConfig)
		} else {
			fileEncoder = zapcore.NewConsoleEncoder(fileEncoderConfig)
		}

		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.Lock(zapcore.AddSync(file)), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
