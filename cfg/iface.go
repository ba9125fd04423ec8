package cfg

import "context"

// Config 定义了配置接口
// 面向配置的使用者，屏蔽配置的来源和存储方式，只暴露读取与变更订阅
type Config[T any] interface {
	// Load 从源重新加载配置
	Load(ctx context.Context) error
	// Get 获取当前配置
	Get() T
	// Watch 监听配置变更
	Watch(ctx context.Context) (<-chan T, error)
}

// Source 定义了配置源接口
// 面向配置的提供者，抽象原始配置数据的读取与监视，便于支持文件、环境变量、远程服务等不同来源
type Source interface {
	// Read 读取配置源内容
	Read(ctx context.Context) ([]byte, error)
	// Watch 监听配置源变化
	Watch(ctx context.Context) (<-chan []byte, error)
}

// Parser 定义了配置解析器接口
type Parser[T any] interface {
	// Parse 解析配置
	Parse(data []byte) (T, error)
}
