package scanner

import (
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/yleoer/opencc/pkg/util"
)

// Document 描述一个待转换的文本文件
type Document struct {
	Path    string    // 绝对或相对于调用方的完整路径
	RelPath string    // 相对于扫描根目录的路径
	Size    int64     // 文件大小
	ModTime time.Time // 修改时间
}

// DocumentScanner 负责扫描目录并找出需要转换的文本文件
type DocumentScanner struct {
	logger *log.Logger
}

// NewDocumentScanner 创建一个新的 DocumentScanner 实例
func NewDocumentScanner(logger *log.Logger) *DocumentScanner {
	return &DocumentScanner{logger: logger}
}

// ScanDirectory 递归扫描 rootPath，按相对路径排序返回文本文件
func (s *DocumentScanner) ScanDirectory(rootPath string) ([]Document, error) {
	s.logger.Printf("  Searching for text files in %s...", rootPath)
	var docs []Document
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			s.logger.Printf("Error accessing %s: %v", path, err)
			return nil // continue walking
		}
		if d.IsDir() {
			// 跳过隐藏目录
			if path != rootPath && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !util.IsRelevantTextFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.logger.Printf("Error getting file info for %s: %v", path, err)
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		docs = append(docs, Document{Path: path, RelPath: rel, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].RelPath < docs[j].RelPath
	})
	s.logger.Printf("  Found %d text files in %s.", len(docs), rootPath)
	return docs, err
}
