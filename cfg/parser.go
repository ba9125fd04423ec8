package cfg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPollInterval 是文件配置源的默认轮询间隔
const DefaultPollInterval = 5 * time.Second

// YAMLParser 基于 yaml 的通用配置解析器
type YAMLParser[T any] struct{}

// Parse 解析 yaml 配置
func (YAMLParser[T]) Parse(data []byte) (T, error) {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("cfg: 解析 yaml 配置失败: %w", err)
	}
	return v, nil
}

// JSONParser 基于 json 的通用配置解析器
type JSONParser[T any] struct{}

// Parse 解析 json 配置
func (JSONParser[T]) Parse(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("cfg: 解析 json 配置失败: %w", err)
	}
	return v, nil
}

// FileSource 基于本地文件的配置源，通过轮询修改时间感知变更
type FileSource struct {
	path     string
	interval time.Duration
}

// NewFileSource 创建文件配置源
//
// interval 小于等于 0 时使用 DefaultPollInterval
func NewFileSource(path string, interval time.Duration) *FileSource {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &FileSource{path: path, interval: interval}
}

// Read 读取配置文件内容
func (fs *FileSource) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("cfg: 读取配置文件 %s 失败: %w", fs.path, err)
	}
	return data, nil
}

// Watch 监听配置文件变更
//
// 每个轮询周期检查一次修改时间，变化时重新读取文件并推送到返回的通道。
// ctx 取消后关闭通道并停止轮询。
func (fs *FileSource) Watch(ctx context.Context) (<-chan []byte, error) {
	info, err := os.Stat(fs.path)
	if err != nil {
		return nil, fmt.Errorf("cfg: 获取配置文件 %s 状态失败: %w", fs.path, err)
	}

	ch := make(chan []byte, 1)
	go func() {
		defer close(ch)
		lastMod := info.ModTime()
		ticker := time.NewTicker(fs.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(fs.path)
				if err != nil || !info.ModTime().After(lastMod) {
					continue
				}
				lastMod = info.ModTime()
				data, err := os.ReadFile(fs.path)
				if err != nil {
					continue
				}
				select {
				case ch <- data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// 确保实现了接口
var _ Source = (*FileSource)(nil)
