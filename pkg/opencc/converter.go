// Package opencc 安全地持有 OpenCC 转换引擎，并可将内置词典释放到磁盘。
//
// 用法：
//
//	if err := opencc.MaterializePreset(dir, opencc.TW2SP); err != nil { ... }
//	cc, err := opencc.OpenPresetDir(dir, opencc.TW2SP)
//	if err != nil { ... }
//	defer cc.Close()
//	out, err := cc.Convert("涼風有訊")
package opencc

import (
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// bufferFactor 是 ConvertAppend 为每个输入字节预留的输出空间
const bufferFactor = 2

// Converter 持有一个打开的转换引擎。
// 多个 goroutine 可以并发调用 Convert 和 ConvertAppend；Close 会等待进行中的转换结束。
type Converter struct {
	mu      sync.RWMutex
	engine  engine
	closed  bool
	config  string
	cleanup runtime.Cleanup
}

// Open 使用配置文件路径创建转换器
func Open(configPath string) (*Converter, error) {
	if configPath == "" || !utf8.ValidString(configPath) || strings.IndexByte(configPath, 0) >= 0 {
		return nil, newError("open", configPath, ErrConfigLoad, nil)
	}
	eng, err := openEngine(configPath)
	if err != nil {
		return nil, newError("open", configPath, ErrConfigLoad, err)
	}
	c := &Converter{engine: eng, config: configPath}
	// 调用方忘记 Close 时由运行时回收
	c.cleanup = runtime.AddCleanup(c, releaseEngine, eng)
	return c, nil
}

// OpenPreset 按方案名打开，词典从引擎的默认目录加载；纯 Go 实现使用内置资源
func OpenPreset(p Preset) (*Converter, error) {
	if !p.Valid() {
		return nil, newError("open", p.String(), ErrConfigLoad, ErrUnknownPreset)
	}
	return Open(p.ConfigFile())
}

// OpenPresetDir 打开 dir 中已释放的方案配置
func OpenPresetDir(dir string, p Preset) (*Converter, error) {
	if !p.Valid() {
		return nil, newError("open", p.String(), ErrConfigLoad, ErrUnknownPreset)
	}
	return Open(filepath.Join(dir, p.ConfigFile()))
}

func releaseEngine(e engine) {
	_ = e.close()
}

// Config 返回打开时使用的配置路径
func (c *Converter) Config() string {
	return c.config
}

// Convert 转换 text，没有对应词条的部分原样保留
func (c *Converter) Convert(text string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return "", newError("convert", c.config, ErrClosed, nil)
	}
	if text == "" {
		return "", nil
	}
	out, err := c.engine.convert(text)
	if err != nil {
		return "", newError("convert", c.config, ErrConvert, err)
	}
	return out, nil
}

// ConvertAppend 把 text 的转换结果追加到 dst 并返回扩展后的切片，
// 适合把大量小片段累积进同一个缓冲区。
func (c *Converter) ConvertAppend(dst []byte, text string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return dst, newError("convert", c.config, ErrClosed, nil)
	}
	if text == "" {
		return dst, nil
	}
	n := len(dst)
	// 额外一个字节留给原生实现写入的结尾 NUL
	dst = slices.Grow(dst, bufferFactor*len(text)+1)
	written, err := c.engine.convertTo(dst[n:cap(dst)], text)
	if err != nil {
		return dst[:n], newError("convert", c.config, ErrConvert, err)
	}
	return dst[:n+written], nil
}

// Close 释放引擎。重复调用返回 ErrClosed。
func (c *Converter) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return newError("close", c.config, ErrClosed, nil)
	}
	c.closed = true
	c.cleanup.Stop()
	err := c.engine.close()
	c.engine = nil
	if err != nil {
		return newError("close", c.config, ErrRelease, err)
	}
	return nil
}
