package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/samplekit/metrics/sample"
)

// ObjectFactory 定义对象创建和重置方法的接口
type ObjectFactory[T any] interface {
	New() T
	Reset(T)
}

// BatchPool 泛型对象池
type BatchPool[T any] struct {
	Pool     sync.Pool
	PoolSize int
}

// NewBatchPool 初始化一个泛型对象池
func NewBatchPool[T any](factory ObjectFactory[T], poolSize int) *BatchPool[T] {
	bp := &BatchPool[T]{
		PoolSize: poolSize,
		Pool: sync.Pool{
			New: func() any {
				return factory.New()
			},
		},
	}
	// 预先填充对象池
	for i := 0; i < poolSize; i++ {
		bp.Pool.Put(factory.New())
	}
	return bp
}

// Get 获取对象
func (bp *BatchPool[T]) Get() T {
	return bp.Pool.Get().(T)
}

// Put 放置对象
func (bp *BatchPool[T]) Put(item T, factory ObjectFactory[T]) {
	factory.Reset(item)
	bp.Pool.Put(item)
}

// SetPoolSize 更新池子的大小
func (bp *BatchPool[T]) SetPoolSize(factory ObjectFactory[T], poolSize int) {
	// 更新池子大小
	bp.PoolSize = poolSize
	// 预先填充对象池
	for i := 0; i < poolSize; i++ {
		bp.Pool.Put(factory.New())
	}
}

// SamplerHandle 捆绑一个采样器与其专属随机源
//
// 采样器是单一所有者的值，从池中借出后到归还前只能被一个协程使用，
// 借用期间无需加锁就享有完整的快路径性能。
type SamplerHandle struct {
	Sampler *sample.BernoulliSampler
	Source  sample.UniformSource
}

// Trial 在借出的采样器上执行一次试验
func (h *SamplerHandle) Trial() bool {
	return h.Sampler.Trial(h.Source)
}

// MultiTrial 在借出的采样器上一次性执行 n 次试验
func (h *SamplerHandle) MultiTrial(n uint64) bool {
	return h.Sampler.MultiTrial(n, h.Source)
}

// SamplerFactory 实现 ObjectFactory 接口，用于创建和重置采样器句柄
type SamplerFactory struct {
	Probability float64
	seq         atomic.Int64 // sync.Pool 可能并发调用 New，种子序号需要原子递增
}

// New 创建新的采样器句柄，每个句柄持有独立播种的随机源
func (f *SamplerFactory) New() *SamplerHandle {
	src := sample.NewPseudoSource(time.Now().UnixNano() + f.seq.Add(1))
	return &SamplerHandle{
		Sampler: sample.NewBernoulliSampler(f.Probability, src),
		Source:  src,
	}
}

// Reset 重置采样器句柄
//
// 重建采样器即重新抽取跳过计数；几何分布无记忆，任意时刻重抽
// 都不影响采样分布，所以归还到池里的句柄统计上仍然是"新"的。
func (f *SamplerFactory) Reset(h *SamplerHandle) {
	h.Sampler = sample.NewBernoulliSampler(f.Probability, h.Source)
}

// BufferFactory 实现 ObjectFactory 接口，用于创建和重置缓冲区
type BufferFactory struct {
	BufferSize int
}

// New 创建新的缓冲区
func (f *BufferFactory) New() []byte {
	buffer := make([]byte, f.BufferSize)
	return buffer
}

// Reset 重置缓冲区
func (f *BufferFactory) Reset(buffer []byte) {
	// 缓冲区无需实际重置，只需清空内容
	for i := range buffer {
		buffer[i] = 0
	}
}

// NewSamplerFactory 构造函数
func NewSamplerFactory(probability float64) *SamplerFactory {
	return &SamplerFactory{Probability: probability}
}

// NewBufferFactory 构造函数
func NewBufferFactory(bufferSize int) *BufferFactory {
	return &BufferFactory{BufferSize: bufferSize}
}
