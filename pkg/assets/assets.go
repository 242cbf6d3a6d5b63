// Package assets 内置 OpenCC 的方案配置与文本词典，供释放到磁盘后加载。
//
// data 目录中的文本词典来自上游 OpenCC 的 data/dictionary，*Rev.txt 按上游构建规则反转生成。
// 重新生成：
//
//	go generate ./pkg/assets
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:generate go run ../../cmd/gendict -out data

//go:embed data/*.json data/*.txt
var data embed.FS

const root = "data"

var sub = func() fs.FS {
	s, err := fs.Sub(data, root)
	if err != nil {
		panic("assets: " + err.Error())
	}
	return s
}()

// FS 返回以文件名为键的只读文件系统
func FS() fs.FS {
	return sub
}

// ReadFile 返回名为 name 的文件内容
func ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(sub, name)
}

// Has 判断是否内置了 name
func Has(name string) bool {
	info, err := fs.Stat(sub, name)
	return err == nil && info.Mode().IsRegular()
}

// Names 返回全部内置文件名，按字典序排列
func Names() []string {
	entries, err := data.ReadDir(root)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, path.Base(e.Name()))
		}
	}
	sort.Strings(names)
	return names
}
