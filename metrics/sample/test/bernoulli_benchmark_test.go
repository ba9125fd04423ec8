package sample_test

import (
	"math/rand"
	"testing"

	"github.com/omeyang/samplekit/metrics/sample"
)

func BenchmarkTrial(b *testing.B) {
	src := rand.New(rand.NewSource(1))
	s := sample.NewBernoulliSampler(0.001, src)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Trial(src)
	}
}

func BenchmarkMultiTrial(b *testing.B) {
	src := rand.New(rand.NewSource(1))
	s := sample.NewBernoulliSampler(0.0001, src)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.MultiTrial(64, src)
	}
}

// BenchmarkNaiveTrial 朴素实现对照组：每个事件消耗一个随机数
func BenchmarkNaiveTrial(b *testing.B) {
	src := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = src.Float64() < 0.001
	}
}

func BenchmarkSharedBernoulli(b *testing.B) {
	s, err := sample.NewSharedBernoulli(0.001, sample.NewPseudoSource(1))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Sample()
	}
}
