package opencc

// engine 是底层转换引擎的最小接口。
// 实现由构建标签决定：opencc+cgo 时绑定 libopencc，否则使用纯 Go 的 gocc。
//
// 所有长度都是 UTF-8 字节数。
type engine interface {
	// convert 转换 src 并返回新分配的结果
	convert(src string) (string, error)
	// convertTo 把 src 的转换结果写入 dst 的起始位置，返回写入的字节数。
	// 调用方保证 len(dst) >= 2*len(src)+1。
	convertTo(dst []byte, src string) (int, error)
	// close 释放引擎，每个实例只会被调用一次
	close() error
}

// openEngine 打开配置文件对应的引擎，测试中可替换
var openEngine = openNative
