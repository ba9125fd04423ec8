package sample

import (
	"context"
	"log"

	"github.com/omeyang/samplekit/cfg"
)

// samplerBox 统一存入 AtomicValue 的具体类型，避免接口实现切换时类型不一致
type samplerBox struct {
	sampler Sampler
}

// DynamicSampler 跟随配置热更新的采样器
//
// 包装一个由 cfg.Config 驱动的采样器：配置变更时按新配置重建内部采样器
// 并原子切换，正在采样的调用方无感知。本身实现 Sampler 接口。
type DynamicSampler struct {
	current cfg.AtomicValue[samplerBox]
	cancel  context.CancelFunc
}

// NewDynamicSampler 创建跟随 config 变化的采样器
//
// 初始配置非法时返回错误；运行期收到非法配置只记录日志并保留旧采样器。
func NewDynamicSampler(ctx context.Context, config cfg.Config[SamplerConfig]) (*DynamicSampler, error) {
	sampler, err := NewSampler(config.Get())
	if err != nil {
		return nil, err
	}

	ds := &DynamicSampler{}
	ds.current.Store(samplerBox{sampler: sampler})

	watchCtx, cancel := context.WithCancel(ctx)
	ch, err := config.Watch(watchCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	ds.cancel = cancel

	go func() {
		for sc := range ch {
			next, err := NewSampler(sc)
			if err != nil {
				log.Printf("错误: 采样配置非法, 保留旧配置: %v", err)
				continue
			}
			ds.current.Store(samplerBox{sampler: next})
		}
	}()

	return ds, nil
}

// Sample 用当前生效的采样器执行一次试验
func (d *DynamicSampler) Sample() bool {
	return d.current.Load().sampler.Sample()
}

// SetRate 设置当前采样器的采样率（下次配置变更会覆盖）
func (d *DynamicSampler) SetRate(rate float64) {
	d.current.Load().sampler.SetRate(rate)
}

// GetRate 获取当前采样率
func (d *DynamicSampler) GetRate() float64 {
	return d.current.Load().sampler.GetRate()
}

// Close 停止监听配置变更
func (d *DynamicSampler) Close() {
	d.cancel()
}

var _ Sampler = (*DynamicSampler)(nil)
