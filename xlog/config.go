package xlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/omeyang/samplekit/metrics/sample"
)

// EncoderType 定义编码器类型
type EncoderType string

const (
	// TextEncoder 文本编码器类型
	TextEncoder EncoderType = "text"
	// JSONEncoder json编码器类型是默认编码类型
	JSONEncoder EncoderType = "json"
)

// LogConfig 定义日志配置
type LogConfig struct {
	// 日志级别
	Level LogLevel
	// 日志编码器类型
	Encoder EncoderType
	// 输出写入器，为空时退回到轮转文件
	Writer io.Writer
	// 轮转文件名（Writer 为空时生效）
	Filename string
	// 是否启用调用者信息
	EnableCaller bool
	// 调用栈跳过的帧数
	CallerSkip int
	// 是否启用追踪
	EnableTracing bool
	// 采样配置，作用于 Debug/Info 级别的高频日志
	// Rate 为 0 且未指定类型时关闭采样，全量写出
	Sampling sample.SamplerConfig
	// 其他特定于实现的配置选项
	ExtraOptions map[string]any
}

// LoadConfig 从环境变量和配置文件加载配置
func LoadConfig(configPath string) (LogConfig, error) {
	config := LogConfig{
		Level:         LogLevel(os.Getenv("LOG_LEVEL")),
		Encoder:       EncoderType(os.Getenv("LOG_ENCODER")),
		EnableCaller:  getEnvBool("LOG_ENABLE_CALLER", false),
		EnableTracing: getEnvBool("LOG_ENABLE_TRACING", false),
		Sampling: sample.SamplerConfig{
			Type: sample.SamplerType(os.Getenv("LOG_SAMPLING_TYPE")),
			Rate: getEnvFloat("LOG_SAMPLING_RATE", 0),
		},
	}

	// 如果提供了配置文件路径，从文件中读取配置
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}

		ext := strings.ToLower(filepath.Ext(configPath))
		switch ext {
		case ".json":
			if err := json.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("failed to parse JSON config file: %w", err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("failed to parse YAML config file: %w", err)
			}
		default:
			return config, fmt.Errorf("unsupported config file format: %s", ext)
		}
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return config, err
	}
	return config, nil
}

// validateConfig 校验并回填缺省值
func validateConfig(config *LogConfig) error {
	if config.Level == "" {
		config.Level = Info
	}
	if _, ok := levelOrder[config.Level]; !ok {
		return fmt.Errorf("unknown log level: %s", config.Level)
	}
	switch config.Encoder {
	case "":
		config.Encoder = JSONEncoder
	case TextEncoder, JSONEncoder:
	default:
		return fmt.Errorf("unknown encoder type: %s", config.Encoder)
	}
	if !(config.Sampling.Rate >= 0.0 && config.Sampling.Rate <= 1.0) {
		return fmt.Errorf("sampling rate %v out of range [0.0, 1.0]", config.Sampling.Rate)
	}
	return nil
}

// samplingEnabled 采样是否开启
func (c *LogConfig) samplingEnabled() bool {
	return c.Sampling.Type != "" || c.Sampling.Rate > 0
}

// 辅助函数，从环境变量中读取布尔值
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// 辅助函数，从环境变量中读取浮点值
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
