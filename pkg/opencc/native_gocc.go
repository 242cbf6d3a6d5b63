//go:build !opencc || !cgo

package opencc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/liuzl/da"
	"github.com/liuzl/gocc"

	"github.com/yleoer/opencc/pkg/assets"
)

// Backend 标识编译进来的引擎实现
const Backend = "gocc"

// goccEngine 使用纯 Go 的 gocc 实现。
// 转换链由配置文件描述，词典从配置文件所在目录加载；
// 不带目录的配置名从内置资源中加载。
type goccEngine struct {
	cc *gocc.OpenCC
}

// ccConfig 是 OpenCC 配置文件中 gocc 需要的部分
type ccConfig struct {
	Name         string `json:"name"`
	Segmentation struct {
		Dict *ccDict `json:"dict"`
	} `json:"segmentation"`
	ConversionChain []struct {
		Dict *ccDict `json:"dict"`
	} `json:"conversion_chain"`
}

type ccDict struct {
	Type  string    `json:"type"`
	File  string    `json:"file"`
	Dicts []*ccDict `json:"dicts"`
}

func openNative(configPath string) (engine, error) {
	var (
		src  fs.FS
		name string
	)
	if filepath.Base(configPath) == configPath {
		src, name = assets.FS(), configPath
	} else {
		info, err := os.Stat(configPath)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, nativeError("not a regular file")
		}
		src, name = os.DirFS(filepath.Dir(configPath)), filepath.Base(configPath)
	}

	raw, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, err
	}
	var cfg ccConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(cfg.ConversionChain) == 0 {
		return nil, nativeError("conversion_chain not found")
	}

	l := &dictLoader{src: src, built: make(map[string]*da.Dict)}
	if cfg.Segmentation.Dict != nil {
		if _, err := l.group(cfg.Segmentation.Dict); err != nil {
			return nil, err
		}
	}
	cc := &gocc.OpenCC{Conversion: name, Description: cfg.Name}
	for _, step := range cfg.ConversionChain {
		if step.Dict == nil {
			return nil, nativeError("should have dict inside conversion_chain")
		}
		g, err := l.group(step.Dict)
		if err != nil {
			return nil, err
		}
		cc.DictChains = append(cc.DictChains, g)
	}
	return &goccEngine{cc: cc}, nil
}

// dictLoader 构建配置引用的词典，同一个文件只构建一次
type dictLoader struct {
	src   fs.FS
	built map[string]*da.Dict
}

func (l *dictLoader) group(d *ccDict) (*gocc.Group, error) {
	g := &gocc.Group{}
	switch d.Type {
	case "group":
		if len(d.Dicts) == 0 {
			return nil, nativeError("group has no dicts")
		}
		for _, sub := range d.Dicts {
			if sub == nil {
				return nil, nativeError("group has an empty dict")
			}
			sg, err := l.group(sub)
			if err != nil {
				return nil, err
			}
			g.Files = append(g.Files, sg.Files...)
			g.Dicts = append(g.Dicts, sg.Dicts...)
		}
	case "text", "txt":
		dict, err := l.load(d.File)
		if err != nil {
			return nil, err
		}
		g.Files = append(g.Files, d.File)
		g.Dicts = append(g.Dicts, dict)
	default:
		return nil, nativeError(fmt.Sprintf("dictionary type %q is not supported by the gocc backend", d.Type))
	}
	return g, nil
}

func (l *dictLoader) load(file string) (*da.Dict, error) {
	if file == "" || !fs.ValidPath(file) || path.Base(file) != file {
		return nil, nativeError(fmt.Sprintf("invalid dictionary file %q", file))
	}
	if dict, ok := l.built[file]; ok {
		return dict, nil
	}
	raw, err := fs.ReadFile(l.src, file)
	if err != nil {
		return nil, err
	}
	// da.Build 会丢弃没有换行结尾的最后一行
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		raw = append(raw, '\n')
	}
	dict, err := da.Build(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", file, err)
	}
	l.built[file] = dict
	return dict, nil
}

func (e *goccEngine) convert(src string) (string, error) {
	return e.cc.Convert(src)
}

func (e *goccEngine) convertTo(dst []byte, src string) (int, error) {
	out, err := e.cc.Convert(src)
	if err != nil {
		return 0, err
	}
	if len(out) > len(dst) {
		return 0, nativeError("output buffer too small")
	}
	return copy(dst, out), nil
}

func (e *goccEngine) close() error {
	e.cc = nil
	return nil
}
