package opencc

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/yleoer/opencc/pkg/assets"
)

// Materializer 把方案依赖的配置和词典从只读来源复制到磁盘目录
type Materializer struct {
	src    fs.FS
	logger *log.Logger
}

// NewMaterializer 创建一个 Materializer，src 为 nil 时使用内置资源
func NewMaterializer(src fs.FS, logger *log.Logger) *Materializer {
	if src == nil {
		src = assets.FS()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Materializer{src: src, logger: logger}
}

var defaultMaterializer = NewMaterializer(nil, nil)

// EnsureDirectory 确保 path 是目录，不存在时递归创建
func EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return newError("mkdir", path, ErrNotADirectory, nil)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(path, 0o755); err != nil {
			return newError("mkdir", path, ErrCreate, err)
		}
		return nil
	default:
		return newError("mkdir", path, ErrCreate, err)
	}
}

// MaterializePreset 使用内置资源释放单个方案
func MaterializePreset(path string, p Preset) error {
	return defaultMaterializer.MaterializePreset(path, p)
}

// MaterializePresets 使用内置资源依次释放多个方案
func MaterializePresets(path string, presets ...Preset) error {
	return defaultMaterializer.MaterializePresets(path, presets...)
}

// MaterializePreset 把方案 p 的全部文件写入 path。
// 已存在的同名普通文件视为已释放，不会被覆盖。
func (m *Materializer) MaterializePreset(path string, p Preset) error {
	return m.MaterializePresets(path, p)
}

// MaterializePresets 依次释放 presets，同名文件只处理一次。
// 每个方案先检查全部目标位置再写入；遇到第一个错误即返回，已写入的文件不会回滚。
func (m *Materializer) MaterializePresets(path string, presets ...Preset) error {
	if err := EnsureDirectory(path); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, p := range presets {
		if !p.Valid() {
			return newError("materialize", p.String(), ErrUnknownPreset, nil)
		}
		var pending []string
		for _, name := range p.Files() {
			if seen[name] {
				continue
			}
			seen[name] = true
			target := filepath.Join(path, name)
			present, err := existingFile(target)
			if err != nil {
				return err
			}
			if present {
				m.logger.Printf("  -> %s already present, skipping.", target)
				continue
			}
			pending = append(pending, name)
		}
		for _, name := range pending {
			if err := m.writeFile(path, name); err != nil {
				return err
			}
		}
		m.logger.Printf("Preset %s materialized into %s (%d new files).", p, path, len(pending))
	}
	return nil
}

func (m *Materializer) writeFile(dir, name string) error {
	target := filepath.Join(dir, name)
	content, err := fs.ReadFile(m.src, name)
	if err != nil {
		return newError("materialize", name, ErrCorruptAsset, err)
	}

	var f *os.File
	for attempt := 0; ; attempt++ {
		f, err = createExclusive(target)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) || attempt > 0 {
			return newError("create", target, ErrCreate, err)
		}
		// 另一个进程刚刚创建了它；若随后又被删除则重试一次
		present, serr := existingFile(target)
		if serr != nil || present {
			return serr
		}
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return newError("write", target, ErrWrite, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return newError("flush", target, ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return newError("flush", target, ErrWrite, err)
	}
	m.logger.Printf("  -> Wrote %s (%d bytes).", target, len(content))
	return nil
}

// createExclusive 仅在 name 不存在时创建文件
var createExclusive = func(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// existingFile 报告 target 是否已是普通文件；被其他类型占用时返回 ErrCorruptAsset
func existingFile(target string) (bool, error) {
	info, err := os.Stat(target)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return false, newError("materialize", target, ErrCorruptAsset, nil)
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, newError("materialize", target, ErrCreate, err)
	}
}
