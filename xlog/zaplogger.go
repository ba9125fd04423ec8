package xlog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/omeyang/samplekit/metrics/sample"
)

// ZapLogger 基于 zap 的高性能日志实现
//
// Debug/Info 级别的日志先经过采样器，未命中直接丢弃，字段编码等开销
// 完全不会发生；Warn 及以上级别始终写出。采样器默认是快速伯努利采样器，
// 高频打点场景下每条日志的平均判定开销只有一次计数递减。
type ZapLogger struct {
	logger    *zap.Logger
	zapLevel  zap.AtomicLevel
	sampler   sample.Sampler   // 为 nil 时不采样，全量写出
	extractor ContextExtractor // 为 nil 时不提取上下文信息
	rotator   LogRotator

	mu    sync.RWMutex
	level LogLevel
}

// NewZapLogger 根据配置创建 ZapLogger
func NewZapLogger(config LogConfig) (*ZapLogger, error) {
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	z := &ZapLogger{
		zapLevel: zap.NewAtomicLevelAt(toZapLevel(config.Level)),
		level:    config.Level,
	}

	// 输出目标：显式 Writer 优先，其次轮转文件，最后标准输出
	writer := config.Writer
	if writer == nil {
		if config.Filename != "" {
			z.rotator = NewLumberjackRotator(config.Filename, 100, 10, 30, true)
			w, err := z.rotator.GetWriter()
			if err != nil {
				return nil, fmt.Errorf("xlog: 获取轮转写入器失败: %w", err)
			}
			writer = w
		} else {
			writer = os.Stdout
		}
	}

	encConfig := zap.NewProductionEncoderConfig()
	var encoder zapcore.Encoder
	if config.Encoder == TextEncoder {
		encoder = zapcore.NewConsoleEncoder(encConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encConfig)
	}

	opts := []zap.Option{}
	if config.EnableCaller {
		// 加一层跳过本包的包装方法
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(config.CallerSkip+1))
	}
	z.logger = zap.New(zapcore.NewCore(encoder, zapcore.AddSync(writer), z.zapLevel), opts...)

	if config.samplingEnabled() {
		sampler, err := sample.NewSampler(config.Sampling)
		if err != nil {
			return nil, err
		}
		z.sampler = sampler
	}
	if config.EnableTracing {
		z.extractor = NewDefaultContextExtractor()
	}
	return z, nil
}

// toZapLevel 将日志级别映射到 zap 级别
func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	case Fatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// toZapFields 转换日志字段
func toZapFields(fields []Field) []zap.Field {
	zfs := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zfs = append(zfs, zap.Any(f.Key, f.Value))
	}
	return zfs
}

// sampled 判定该条日志是否写出，只有低级别日志参与采样
func (z *ZapLogger) sampled(level LogLevel) bool {
	if z.sampler == nil || level.IsHighThan(Info) {
		return true
	}
	return z.sampler.Sample()
}

// contextFields 提取上下文中的 trace 等信息作为日志字段
func (z *ZapLogger) contextFields(ctx context.Context) []zap.Field {
	if z.extractor == nil || ctx == nil {
		return nil
	}
	info := z.extractor.Extract(ctx)
	zfs := make([]zap.Field, 0, len(info))
	for k, v := range info {
		zfs = append(zfs, zap.String(k, v))
	}
	return zfs
}

// SetLevel 设置日志等级
func (z *ZapLogger) SetLevel(level LogLevel) error {
	if _, ok := levelOrder[level]; !ok {
		return fmt.Errorf("unknown log level: %s", level)
	}
	z.mu.Lock()
	z.level = level
	z.mu.Unlock()
	z.zapLevel.SetLevel(toZapLevel(level))
	return nil
}

// GetLevel 获取日志等级
func (z *ZapLogger) GetLevel() LogLevel {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.level
}

// Debug 调试级别日志
func (z *ZapLogger) Debug(msg string, fields ...Field) {
	if !z.sampled(Debug) {
		return
	}
	z.logger.Debug(msg, toZapFields(fields)...)
}

// Info 信息级别日志
func (z *ZapLogger) Info(msg string, fields ...Field) {
	if !z.sampled(Info) {
		return
	}
	z.logger.Info(msg, toZapFields(fields)...)
}

// Warn 告警级别日志
func (z *ZapLogger) Warn(msg string, fields ...Field) {
	z.logger.Warn(msg, toZapFields(fields)...)
}

// Error 错误级别日志
func (z *ZapLogger) Error(msg string, fields ...Field) {
	z.logger.Error(msg, toZapFields(fields)...)
}

// Fatal 致命级别日志，写出后进程退出
func (z *ZapLogger) Fatal(msg string, fields ...Field) {
	z.logger.Fatal(msg, toZapFields(fields)...)
}

// DebugContext 带有上下文的调试级别日志
func (z *ZapLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	if !z.sampled(Debug) {
		return
	}
	z.logger.Debug(msg, append(toZapFields(fields), z.contextFields(ctx)...)...)
}

// InfoContext 带有上下文的信息级别日志
func (z *ZapLogger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	if !z.sampled(Info) {
		return
	}
	z.logger.Info(msg, append(toZapFields(fields), z.contextFields(ctx)...)...)
}

// WarnContext 带有上下文的告警级别日志
func (z *ZapLogger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	z.logger.Warn(msg, append(toZapFields(fields), z.contextFields(ctx)...)...)
}

// ErrorContext 带有上下文的错误级别日志
func (z *ZapLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	z.logger.Error(msg, append(toZapFields(fields), z.contextFields(ctx)...)...)
}

// FatalContext 带有上下文的致命错误级别日志
func (z *ZapLogger) FatalContext(ctx context.Context, msg string, fields ...Field) {
	z.logger.Fatal(msg, append(toZapFields(fields), z.contextFields(ctx)...)...)
}

// clone 复制日志器，采样器与轮转器共享（不复制锁）
func (z *ZapLogger) clone() *ZapLogger {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return &ZapLogger{
		logger:    z.logger,
		zapLevel:  z.zapLevel,
		sampler:   z.sampler,
		extractor: z.extractor,
		rotator:   z.rotator,
		level:     z.level,
	}
}

// WithTrace 返回带有上下文 trace 字段的日志器，共享同一个采样器
func (z *ZapLogger) WithTrace(ctx context.Context) HighPerformanceLogger {
	c := z.clone()
	c.logger = z.logger.With(z.contextFields(ctx)...)
	return c
}

// WithMetadata 返回带有元数据字段的日志器
func (z *ZapLogger) WithMetadata(metadata map[string]any) HighPerformanceLogger {
	zfs := make([]zap.Field, 0, len(metadata))
	for k, v := range metadata {
		zfs = append(zfs, zap.Any(k, v))
	}
	c := z.clone()
	c.logger = z.logger.With(zfs...)
	return c
}

// Flush 刷新缓冲的日志
func (z *ZapLogger) Flush() error {
	return z.logger.Sync()
}

// Close 关闭日志记录器
func (z *ZapLogger) Close() {
	_ = z.logger.Sync()
}

// ZapLoggerFactory 实现 LoggerFactory 接口
type ZapLoggerFactory struct{}

// CreateLogger 根据配置创建 zap 日志器
func (ZapLoggerFactory) CreateLogger(config LogConfig) (HighPerformanceLogger, error) {
	return NewZapLogger(config)
}

// 确保实现了接口
var (
	_ HighPerformanceLogger = (*ZapLogger)(nil)
	_ LoggerFactory         = ZapLoggerFactory{}
)
