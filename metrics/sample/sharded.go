package sample

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ShardedBernoulli 分片的伯努利采样器
//
// 采样器的意义就在于压低每事件开销，给它加锁会把收益抵消掉，所以并发
// 生产者的推荐做法是分片：每个生产者独占一个采样器实例和一个随机源。
// 各分片统计独立，整体采样率仍收敛到配置的概率。
//
// 分片编号由调用方分配，同一个分片在任意时刻只能被一个协程使用。
type ShardedBernoulli struct {
	samplers []*BernoulliSampler
	sources  []UniformSource
}

// NewShardedBernoulli 创建 shards 个相互独立的伯努利采样器
//
// newSource 为每个分片提供独立的随机源；传 nil 时使用按分片编号播种的
// 伪随机源。shards 小于 1 或 probability 越界属于编程错误，直接 panic。
func NewShardedBernoulli(probability float64, shards int, newSource func(shard int) UniformSource) *ShardedBernoulli {
	if shards < 1 {
		panic(fmt.Sprintf("sample: shards %d 必须大于 0", shards))
	}
	if newSource == nil {
		base := time.Now().UnixNano()
		newSource = func(shard int) UniformSource {
			return NewPseudoSource(base + int64(shard))
		}
	}
	s := &ShardedBernoulli{
		samplers: make([]*BernoulliSampler, shards),
		sources:  make([]UniformSource, shards),
	}
	for i := range s.samplers {
		s.sources[i] = newSource(i)
		s.samplers[i] = NewBernoulliSampler(probability, s.sources[i])
	}
	return s
}

// Shards 返回分片数量
func (s *ShardedBernoulli) Shards() int {
	return len(s.samplers)
}

// Trial 在指定分片上执行一次试验
func (s *ShardedBernoulli) Trial(shard int) bool {
	return s.samplers[shard].Trial(s.sources[shard])
}

// MultiTrial 在指定分片上一次性执行 n 次试验
func (s *ShardedBernoulli) MultiTrial(shard int, n uint64) bool {
	return s.samplers[shard].MultiTrial(n, s.sources[shard])
}

// Shard 返回指定分片的采样器，调用方必须保证独占使用
func (s *ShardedBernoulli) Shard(shard int) *BernoulliSampler {
	return s.samplers[shard]
}

// ForEachShard 为每个分片启动一个协程运行 fn
//
// fn 通过 trial 回调在自己的分片上执行试验，不会与其他分片产生竞争。
// 任意一个 fn 返回错误时取消其余协程并返回首个错误。
func (s *ShardedBernoulli) ForEachShard(ctx context.Context, fn func(ctx context.Context, shard int, trial func() bool) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range s.samplers {
		shard := i
		g.Go(func() error {
			return fn(ctx, shard, func() bool { return s.Trial(shard) })
		})
	}
	return g.Wait()
}
