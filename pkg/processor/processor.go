package processor

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/yleoer/opencc/pkg/converter"
	"github.com/yleoer/opencc/pkg/util"
)

// Result 描述一次文档转换的结果
type Result struct {
	OutputPath  string        // 输出文件路径
	Fingerprint uint64        // 源文件内容指纹
	InputBytes  int           // 解码后的 UTF-8 字节数
	Encoding    string        // 源文件编码
	Elapsed     time.Duration // 转换耗时
}

// DocumentProcessor 负责把单个文本文件转换后写入输出目录
type DocumentProcessor struct {
	converter    converter.TextConverter
	convertNames bool
	logger       *log.Logger
}

// NewDocumentProcessor 创建一个新的 DocumentProcessor 实例
func NewDocumentProcessor(tc converter.TextConverter, convertNames bool, logger *log.Logger) *DocumentProcessor {
	return &DocumentProcessor{converter: tc, convertNames: convertNames, logger: logger}
}

// Fingerprint 计算文件内容指纹
func Fingerprint(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// OutputPath 计算 relPath 在 outputRoot 下的输出位置
func (p *DocumentProcessor) OutputPath(relPath, outputRoot string) string {
	if !p.convertNames {
		return filepath.Join(outputRoot, relPath)
	}
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for i, part := range parts {
		if converted := util.SanitizeFileName(p.converter.Convert(part)); converted != "" {
			parts[i] = converted
		}
	}
	return filepath.Join(outputRoot, filepath.Join(parts...))
}

// ProcessDocument 读取 srcPath（相对路径为 relPath），转换后写入 outputRoot
func (p *DocumentProcessor) ProcessDocument(srcPath, relPath, outputRoot string) (*Result, error) {
	start := time.Now()
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", srcPath, err)
	}
	text, enc, err := util.DecodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", srcPath, err)
	}

	// 逐行追加转换，复用同一个输出缓冲区
	buf := make([]byte, 0, len(text))
	for _, line := range strings.SplitAfter(text, "\n") {
		buf = p.converter.AppendConvert(buf, line)
	}

	outPath := p.OutputPath(relPath, outputRoot)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %v", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, buf, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	res := &Result{
		OutputPath:  outPath,
		Fingerprint: xxhash.Sum64(raw),
		InputBytes:  len(text),
		Encoding:    enc,
		Elapsed:     time.Since(start),
	}
	p.logger.Printf("  -> Converted %s (%s, %d bytes) to %s with %s", relPath, enc, len(text), outPath, p.converter.Name())
	return res, nil
}
