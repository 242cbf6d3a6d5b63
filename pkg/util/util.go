package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText 把字节内容解码为 UTF-8 字符串，自动处理 BOM、UTF-16 和 GBK。
// 返回内容以及识别出的编码名称。
func DecodeText(data []byte) (string, string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(bytes.TrimPrefix(data, utf8BOM)), "utf-8-bom", nil
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		s, err := decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM))
		return s, "utf-16", err
	}
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}
	s, err := decodeWith(data, simplifiedchinese.GBK)
	if err != nil {
		return "", "", err
	}
	return s, "gbk", nil
}

func decodeWith(data []byte, enc encoding.Encoding) (string, error) {
	r := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// ReadTextFileContent 智能读取文本文件内容，返回的内容保证是 UTF-8 编码的字符串
func ReadTextFileContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s, _, err := DecodeText(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// SanitizeFileName 清理文件名，移除或替换不适用于文件路径的字符
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")

	invalidChars := []string{":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range invalidChars {
		name = strings.ReplaceAll(name, char, "")
	}
	name = strings.TrimSpace(name)
	name = strings.Join(strings.Fields(name), " ")
	return name
}

// IsDirectory 辅助函数，检查路径是否为目录
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsRelevantTextFile 判断文件是否为需要转换的文本文件
func IsRelevantTextFile(filePath string) bool {
	name := filepath.Base(filePath)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false // 隐藏文件和编辑器临时文件
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown", ".text":
		return true
	case ".srt", ".ass", ".ssa", ".vtt", ".lrc": // 字幕和歌词
		return true
	case ".cue", ".csv", ".tsv", ".json", ".yaml", ".yml", ".html", ".htm", ".xml":
		return true
	default:
		return false
	}
}
