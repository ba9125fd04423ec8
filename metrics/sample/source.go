package sample

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// UniformSource 定义均匀随机源接口
//
// 每次调用返回一个落在半开区间 [0.0, 1.0) 内、均匀分布的浮点数。
// 采样器把它当作不透明的外部协作者，不负责播种或重新播种；
// *math/rand.Rand 天然满足该接口。
type UniformSource interface {
	Float64() float64
}

// 浮点数转换常量
const (
	floatBits  = 53
	floatScale = 1.0 / (1 << floatBits)
)

// CryptoSource 基于 crypto/rand 的均匀随机源
//
// 密码学安全，约 50-100ns/次，适合对随机质量有要求、调用频率不高的场景。
// 高频采样请使用 NewPseudoSource。
type CryptoSource struct{}

// Float64 返回 [0.0, 1.0) 范围内的随机浮点数
func (CryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// crypto/rand 失败表示系统随机数源不可用，这是灾难性错误
		panic("sample: crypto/rand.Read failed: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}

// NewPseudoSource 返回基于 math/rand 的伪随机源
//
// 返回值不是并发安全的，应当由单个采样器独占使用。
func NewPseudoSource(seed int64) UniformSource {
	return rand.New(rand.NewSource(seed))
}
