package cfg_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/omeyang/samplekit/cfg"
)

// samplingSettings 测试用配置结构
type samplingSettings struct {
	Type string  `json:"type" yaml:"type"`
	Rate float64 `json:"rate" yaml:"rate"`
}

func TestYAMLParser(t *testing.T) {
	parser := cfg.YAMLParser[samplingSettings]{}

	got, err := parser.Parse([]byte("type: bernoulli\nrate: 0.25\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Type != "bernoulli" || got.Rate != 0.25 {
		t.Errorf("Parse() = %+v", got)
	}

	if _, err := parser.Parse([]byte("\t")); err == nil {
		t.Error("非法 yaml 应返回错误")
	}
}

func TestJSONParser(t *testing.T) {
	parser := cfg.JSONParser[samplingSettings]{}

	got, err := parser.Parse([]byte(`{"type":"rate","rate":0.5}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Type != "rate" || got.Rate != 0.5 {
		t.Errorf("Parse() = %+v", got)
	}

	if _, err := parser.Parse([]byte("{")); err == nil {
		t.Error("非法 json 应返回错误")
	}
}

func TestFileSourceRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sampling.yaml")
	if err := os.WriteFile(path, []byte("rate: 0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := cfg.NewFileSource(path, 0)
	data, err := src.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "rate: 0.1\n" {
		t.Errorf("Read() = %q", data)
	}

	missing := cfg.NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"), 0)
	if _, err := missing.Read(context.Background()); err == nil {
		t.Error("缺失文件应返回错误")
	}
}

func TestFileSourceWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sampling.yaml")
	if err := os.WriteFile(path, []byte("rate: 0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := cfg.NewFileSource(path, 10*time.Millisecond)
	ch, err := src.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// 修改内容并显式推后修改时间，保证轮询能观察到变化
	if err := os.WriteFile(path, []byte("rate: 0.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case data := <-ch:
		if string(data) != "rate: 0.9\n" {
			t.Errorf("Watch 推送 = %q", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("超时未收到配置变更")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// 取消后允许残留一次推送，但通道最终必须关闭
			if _, ok := <-ch; ok {
				t.Error("取消后通道未关闭")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("取消后通道未关闭")
	}
}

func TestBaseConfigWithFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sampling.yaml")
	if err := os.WriteFile(path, []byte("type: bernoulli\nrate: 0.25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bc, err := cfg.NewBaseConfig[samplingSettings](
		ctx,
		cfg.NewFileSource(path, 50*time.Millisecond),
		cfg.YAMLParser[samplingSettings]{},
	)
	if err != nil {
		t.Fatalf("NewBaseConfig() error = %v", err)
	}

	got := bc.Get()
	if got.Type != "bernoulli" || got.Rate != 0.25 {
		t.Errorf("Get() = %+v", got)
	}
}
