package sample

import (
	"fmt"
	"math"
)

// BernoulliSampler 基于跳过计数的恒定时间伯努利采样器
//
// 朴素做法是每个事件都生成一个随机数再与概率比较，事件量达到每秒百万级时
// 随机数生成本身就成了主要开销。这里换一种思路：不为每次试验掷骰子，而是
// 一次性随机出"接下来还有多少次试验注定返回 false"，即跳过计数。
// 跳过计数耗尽后返回 true，并重新抽取一个新的跳过计数。
//
// 概率为 P 的伯努利试验序列中，两次成功之间的失败次数服从几何分布；
// 若 X 在 [0,1) 上均匀分布，则 floor(ln(X) / ln(1-P)) 恰好服从该几何分布。
// 因此按这个公式抽取跳过计数，对外表现与每次试验都重新掷骰子在统计上
// 完全不可区分，而快路径（计数递减）不消耗任何随机数。
//
// 实例是单一所有者的普通值，内部不做任何同步；并发生产者请使用
// ShardedBernoulli 分片，或用 SharedBernoulli 做互斥包装。
type BernoulliSampler struct {
	probability float64
	skipCount   uint32
}

// NewBernoulliSampler 创建一个以给定概率采样的伯努利采样器
//
// probability 必须落在闭区间 [0.0, 1.0] 内（NaN 同样非法），越界属于
// 编程错误，直接 panic，绝不静默截断。构造时会从 src 抽取一个均匀变量
// 来计算初始跳过计数。
func NewBernoulliSampler(probability float64, src UniformSource) *BernoulliSampler {
	if !(probability >= 0.0 && probability <= 1.0) {
		panic(fmt.Sprintf("sample: probability %v 超出 [0.0, 1.0] 区间", probability))
	}
	s := &BernoulliSampler{probability: probability}
	s.refreshSkipCount(src)
	return s
}

// refreshSkipCount 重新抽取跳过计数
func (s *BernoulliSampler) refreshSkipCount(src UniformSource) {
	switch {
	case s.probability == 0.0:
		// 永不采样：计数饱和到最大值，近似"无限跳过"
		s.skipCount = math.MaxUint32
	case s.probability == 1.0:
		// 全量采样：每次试验都命中
		s.skipCount = 0
	default:
		// 几何分布逆 CDF。x 在 [0,1) 内时结果必然非负；
		// x == 0 时 ln(x) 为 -Inf，商为 +Inf，落入下面的饱和分支
		x := src.Float64()
		skip := math.Floor(math.Log(x) / math.Log(1.0-s.probability))
		if skip <= math.MaxUint32 {
			s.skipCount = uint32(skip)
		} else {
			// 概率极小时几何抽样可能超出 uint32 范围，
			// 饱和处理而不是引入大数计数器，接受由此带来的轻微偏差
			s.skipCount = math.MaxUint32
		}
	}
}

// Trial 执行一次伯努利试验，以配置的概率返回 true
//
// 每次事件发生时调用一次。跳过计数大于零时只做一次递减，不消耗随机数，
// 这是性能关键的快路径；概率越低，平均开销越小。
func (s *BernoulliSampler) Trial(src UniformSource) bool {
	if s.skipCount > 0 {
		s.skipCount--
		return false
	}
	s.refreshSkipCount(src)
	return s.probability != 0.0
}

// MultiTrial 一次性执行 n 次伯努利试验
//
// 语义上等价于连续调用 n 次 Trial 并在任意一次返回 true 时返回 true，
// 但耗时是 O(1) 而非 O(n)。适合"事件有大小"的场景：比如把一次内存分配
// 看作对每个字节各做一次试验，分配 n 字节就调用 MultiTrial(n)。
//
// 跳过计数服从几何分布，而几何分布无记忆，所以越过剩余计数多少并不影响
// 后续抽样的分布，任意时刻重抽计数都不会引入偏差，这正是整段试验可以
// 折叠成一次 O(1) 判定的原因。
func (s *BernoulliSampler) MultiTrial(n uint64, src UniformSource) bool {
	if n < uint64(s.skipCount) {
		s.skipCount -= uint32(n)
		return false
	}
	s.refreshSkipCount(src)
	return s.probability != 0.0
}

// Probability 返回构造时配置的采样概率
func (s *BernoulliSampler) Probability() float64 {
	return s.probability
}

// SkipCount 返回接下来保证返回 false 的单次试验数量
//
// Probability() == 0.0 时该值并不准确，逻辑上应当是无穷大
func (s *BernoulliSampler) SkipCount() uint32 {
	return s.skipCount
}
