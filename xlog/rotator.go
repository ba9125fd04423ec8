package xlog

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogRotator 定义日志轮转接口
type LogRotator interface {
	GetWriter() (io.Writer, error)
	Rotate() error
}

// LumberjackRotator 使用 lumberjack 实现的日志轮转
type LumberjackRotator struct {
	logger *lumberjack.Logger
}

// NewLumberjackRotator 创建一个新的 LumberjackRotator 实例
func NewLumberjackRotator(filename string, maxSize, maxBackups, maxAge int, compress bool) *LumberjackRotator {
	return &LumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    maxSize,    // megabytes
			MaxBackups: maxBackups, // number of backups
			MaxAge:     maxAge,     // days
			Compress:   compress,   // compress backups
		},
	}
}

// Rotate 手动触发日志轮转
func (lr *LumberjackRotator) Rotate() error {
	return lr.logger.Rotate()
}

// GetWriter 返回日志轮转的 writer
func (lr *LumberjackRotator) GetWriter() (io.Writer, error) {
	return lr.logger, nil
}
