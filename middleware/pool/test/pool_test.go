package pool_test

import (
	"testing"

	"github.com/omeyang/samplekit/middleware/pool"
)

func TestSamplerFactory(t *testing.T) {
	factory := pool.NewSamplerFactory(0.5)
	handle := factory.New()

	if handle.Sampler == nil || handle.Source == nil {
		t.Fatal("采样器句柄未完整初始化")
	}
	if got := handle.Sampler.Probability(); got != 0.5 {
		t.Errorf("Probability() = %v, want 0.5", got)
	}

	factory.Reset(handle)
	if got := handle.Sampler.Probability(); got != 0.5 {
		t.Errorf("Reset 后 Probability() = %v, want 0.5", got)
	}
}

func TestSamplerHandleBoundaries(t *testing.T) {
	never := pool.NewSamplerFactory(0.0).New()
	always := pool.NewSamplerFactory(1.0).New()

	for i := 0; i < 1_000; i++ {
		if never.Trial() {
			t.Fatal("概率为 0 的句柄返回了 true")
		}
		if !always.Trial() {
			t.Fatal("概率为 1 的句柄返回了 false")
		}
	}
	if never.MultiTrial(1 << 20) {
		t.Error("概率为 0 时 MultiTrial 返回了 true")
	}
	if !always.MultiTrial(1) {
		t.Error("概率为 1 时 MultiTrial 返回了 false")
	}
}

func TestBufferFactory(t *testing.T) {
	factory := pool.NewBufferFactory(1024)
	buffer := factory.New()

	if len(buffer) != 1024 {
		t.Errorf("Expected length 1024, got %d", len(buffer))
	}

	factory.Reset(buffer)
}

func TestBatchPool(t *testing.T) {
	factory := pool.NewSamplerFactory(1.0)
	bp := pool.NewBatchPool[*pool.SamplerHandle](factory, 5)

	item := bp.Get()
	if item == nil {
		t.Fatal("Expected non-nil item from pool")
	}
	if !item.Trial() {
		t.Error("概率为 1 的借出句柄应始终命中")
	}

	bp.Put(item, factory)

	bp.SetPoolSize(factory, 10)
	if bp.Get() == nil {
		t.Errorf("Expected non-nil item from pool")
	}
}
