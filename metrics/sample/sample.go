package sample

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// SamplerType 定义采样器类型
type SamplerType string

const (
	// BernoulliSamplerType 表示基于跳过计数的快速伯努利采样器
	BernoulliSamplerType SamplerType = "bernoulli"
	// RateSamplerType 表示基于比率的采样器
	RateSamplerType SamplerType = "rate"
	// JitterSamplerType 表示基于抖动的采样器
	JitterSamplerType SamplerType = "jitter"
)

// 采样器构造相关的错误
var (
	// ErrInvalidRate 采样率不在 [0.0, 1.0] 区间内
	ErrInvalidRate = errors.New("sample: rate must be in [0.0, 1.0]")
	// ErrUnknownSamplerType 未知的采样器类型
	ErrUnknownSamplerType = errors.New("sample: unknown sampler type")
)

// Sampler 定义采样器接口
//
// 这是面向共享消费者（如日志器）的接口，实现必须自身保证并发安全。
// 单一所有者的高频场景请直接持有 *BernoulliSampler。
type Sampler interface {
	Sample() bool
	SetRate(rate float64)
	GetRate() float64
}

// SamplerConfig 定义采样器的构造配置
type SamplerConfig struct {
	// 采样器类型，缺省为 BernoulliSamplerType
	Type SamplerType `json:"type" yaml:"type"`
	// 采样率（0.0-1.0）
	Rate float64 `json:"rate" yaml:"rate"`
	// 抖动时间（仅用于 JitterSampler）
	Jitter time.Duration `json:"jitter" yaml:"jitter"`
}

// NewSampler 根据配置创建采样器
func NewSampler(config SamplerConfig) (Sampler, error) {
	if !(config.Rate >= 0.0 && config.Rate <= 1.0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, config.Rate)
	}
	switch config.Type {
	case BernoulliSamplerType, "":
		return NewSharedBernoulli(config.Rate, nil)
	case RateSamplerType:
		return NewRateSampler(config.Rate), nil
	case JitterSamplerType:
		return NewJitterSampler(config.Rate, config.Jitter), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSamplerType, config.Type)
	}
}

// SharedBernoulli 互斥包装的伯努利采样器
//
// BernoulliSampler 本身是单一所有者的值；当多个协程必须共享同一个采样
// 序列时（典型如日志采样），用互斥锁把访问串行化。锁会抵消一部分快路径
// 的收益，追求极致吞吐时应改用 ShardedBernoulli 分片。
type SharedBernoulli struct {
	mu      sync.Mutex
	src     UniformSource
	sampler *BernoulliSampler
}

// NewSharedBernoulli 创建互斥包装的伯努利采样器
//
// rate 不在 [0.0, 1.0] 区间内时返回 ErrInvalidRate。
// src 为 nil 时使用时间播种的伪随机源。
func NewSharedBernoulli(rate float64, src UniformSource) (*SharedBernoulli, error) {
	if !(rate >= 0.0 && rate <= 1.0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	if src == nil {
		src = NewPseudoSource(time.Now().UnixNano())
	}
	return &SharedBernoulli{
		src:     src,
		sampler: NewBernoulliSampler(rate, src),
	}, nil
}

// Sample 执行一次试验
func (s *SharedBernoulli) Sample() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampler.Trial(s.src)
}

// SampleN 一次性执行 n 次试验，任意一次命中即返回 true
func (s *SharedBernoulli) SampleN(n uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampler.MultiTrial(n, s.src)
}

// SetRate 设置新的采样率
//
// 内部采样器的概率在构造后不可变，这里用新概率重建采样器。
// rate 越界属于编程错误，与 NewBernoulliSampler 一样直接 panic。
func (s *SharedBernoulli) SetRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampler = NewBernoulliSampler(rate, s.src)
}

// GetRate 获取当前采样率
func (s *SharedBernoulli) GetRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampler.Probability()
}

// RateSampler 实现基于比率的采样
//
// 每次采样都消耗一个随机数，开销恒定但高于伯努利采样器的快路径；
// 胜在无状态、天然支持原子调整采样率。
type RateSampler struct {
	// 高效地实现浮点数采样率
	// 采样率的范围是 0.0 到 1.0 的浮点数, 将这个浮点数乘以 2^63（即 1 << 63），然后转换为 uint64。
	// 这样可以将 0.0 到 1.0 的范围映射到 0 到 2^63 的整数范围。
	// 好处是使用整数可以利用原子操作,也更快一些
	rate uint64
}

// NewRateSampler 创建一个新的 RateSampler
func NewRateSampler(rate float64) *RateSampler {
	return &RateSampler{
		rate: uint64(rate * (1 << 63)),
	}
}

// Sample 根据给定的比率进行采样
func (s *RateSampler) Sample() bool {
	// 右移一位得到 [0, 2^63) 的均匀整数，与映射后的采样率同量纲
	return rand.Uint64()>>1 < atomic.LoadUint64(&s.rate)
}

// SetRate 设置新的采样率
func (s *RateSampler) SetRate(rate float64) {
	atomic.StoreUint64(&s.rate, uint64(rate*(1<<63)))
}

// GetRate 获取当前采样率
func (s *RateSampler) GetRate() float64 {
	return float64(atomic.LoadUint64(&s.rate)) / (1 << 63)
}

// JitterSampler 实现基于抖动的采样
type JitterSampler struct {
	rate       atomic.Value  // 存储 float64 类型的采样率
	jitter     time.Duration // 定义两次采样之间的最小时间间隔
	mu         sync.Mutex    // 保护 lastSample
	lastSample time.Time     // 记录上一次采样成功的时间
}

// NewJitterSampler 创建一个新的 JitterSampler
func NewJitterSampler(rate float64, jitter time.Duration) *JitterSampler {
	s := &JitterSampler{
		jitter: jitter,
	}
	s.rate.Store(rate)
	return s
}

// Sample 根据给定的抖动进行采样
func (s *JitterSampler) Sample() bool {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastSample) < s.jitter {
		return false
	}
	if rand.Float64() < s.rate.Load().(float64) {
		s.lastSample = now
		return true
	}
	return false
}

// SetRate 设置新的采样率
func (s *JitterSampler) SetRate(rate float64) {
	s.rate.Store(rate)
}

// GetRate 获取当前采样率
func (s *JitterSampler) GetRate() float64 {
	return s.rate.Load().(float64)
}

// 确保实现了接口
var (
	_ Sampler = (*SharedBernoulli)(nil)
	_ Sampler = (*RateSampler)(nil)
	_ Sampler = (*JitterSampler)(nil)
)
