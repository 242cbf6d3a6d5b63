// Command gendict 从上游 OpenCC 源码包中提取文本词典，重新生成 pkg/assets/data。
//
//	go run ./cmd/gendict -out pkg/assets/data
package main

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/yleoer/opencc/pkg/opencc"
)

const defaultSource = "https://github.com/BYVoid/OpenCC/archive/refs/tags/ver.1.1.9.tar.gz"

func main() {
	logger := log.New(os.Stderr, "[gendict] ", log.LstdFlags)
	src := flag.String("src", defaultSource, "OpenCC source tarball (URL or local path) or a dictionary directory")
	out := flag.String("out", "data", "directory to write dictionaries into")
	timeout := flag.Duration("timeout", 2*time.Minute, "download timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dicts, err := loadDictionaries(ctx, *src)
	if err != nil {
		logger.Fatalf("Failed to read dictionaries from %s: %v", *src, err)
	}
	n, err := writeDictionaries(*out, dicts, requiredDictionaries(), logger)
	if err != nil {
		logger.Fatalf("Failed to write dictionaries: %v", err)
	}
	logger.Printf("Wrote %d dictionaries to %s.", n, *out)
}

// loadDictionaries 从源码包或词典目录读取全部 txt 词典
func loadDictionaries(ctx context.Context, src string) (map[string][]byte, error) {
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		return readDictionaryDir(src)
	}
	rc, err := openSource(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readDictionaries(rc)
}

// readDictionaryDir 读取目录中的 txt 词典，例如 gocc 模块自带的 dictionary 目录
func readDictionaryDir(dir string) (map[string][]byte, error) {
	names, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	dicts := make(map[string][]byte, len(names))
	for _, name := range names {
		body, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		dicts[filepath.Base(name)] = body
	}
	if len(dicts) == 0 {
		return nil, fmt.Errorf("no dictionaries found in %s", dir)
	}
	return dicts, nil
}

func openSource(ctx context.Context, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.Open(src)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// readDictionaries 读取 gzip 压缩的 tar 包中 data/dictionary 下的所有 txt 文件
func readDictionaries(r io.Reader) (map[string][]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	dicts := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg || path.Ext(hdr.Name) != ".txt" {
			continue
		}
		if path.Base(path.Dir(hdr.Name)) != "dictionary" || path.Base(path.Dir(path.Dir(hdr.Name))) != "data" {
			continue
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", hdr.Name, err)
		}
		dicts[path.Base(hdr.Name)] = body
	}
	if len(dicts) == 0 {
		return nil, errors.New("no dictionaries found under data/dictionary")
	}
	return dicts, nil
}

// requiredDictionaries 返回所有内置方案引用的词典，已排序去重
func requiredDictionaries() []string {
	var names []string
	for _, p := range opencc.Presets() {
		names = append(names, p.Dictionaries()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// writeDictionaries 写出 names 中的每个词典，返回写入的数量。缺失的词典按上游构建规则生成：
// XxxRev.txt 由 Xxx.txt 反转得到，TWPhrases.txt 由 TWPhrases*.txt 合并得到。
// 来源中没有、但 dir 中已存在的词典保持不变。
func writeDictionaries(dir string, dicts map[string][]byte, names []string, logger *log.Logger) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	var written int
	for _, name := range names {
		target := filepath.Join(dir, name)
		body, err := resolve(dicts, name)
		if err != nil {
			if _, serr := os.Stat(target); serr == nil {
				logger.Printf("WARN: %v; keeping existing %s", err, target)
				continue
			}
			return written, err
		}
		if err := os.WriteFile(target, body, 0644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func resolve(dicts map[string][]byte, name string) ([]byte, error) {
	if body, ok := dicts[name]; ok {
		return body, nil
	}
	base := strings.TrimSuffix(name, ".txt")
	if fwd, ok := strings.CutSuffix(base, "Rev"); ok {
		body, err := resolve(dicts, fwd+".txt")
		if err != nil {
			return nil, err
		}
		return reverseItems(body), nil
	}
	var parts []string
	for part := range dicts {
		if strings.HasPrefix(part, base) && !strings.HasSuffix(part, "Rev.txt") {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("dictionary %s not found", name)
	}
	slices.Sort(parts)
	var merged []byte
	for _, part := range parts {
		merged = append(merged, dicts[part]...)
		if len(merged) > 0 && merged[len(merged)-1] != '\n' {
			merged = append(merged, '\n')
		}
	}
	return sortItems(merged), nil
}

// reverseItems 把 "key<TAB>v1 v2" 反转为每个 v 到 key 的映射，同一 v 的多个 key 保留出现顺序
func reverseItems(body []byte) []byte {
	rev := make(map[string][]string)
	var order []string
	forEachItem(body, func(key string, values []string) {
		for _, v := range values {
			if _, ok := rev[v]; !ok {
				order = append(order, v)
			}
			if !slices.Contains(rev[v], key) {
				rev[v] = append(rev[v], key)
			}
		}
	})
	slices.Sort(order)
	var b strings.Builder
	for _, v := range order {
		b.WriteString(v)
		b.WriteByte('\t')
		b.WriteString(strings.Join(rev[v], " "))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func sortItems(body []byte) []byte {
	var lines []string
	forEachItem(body, func(key string, values []string) {
		lines = append(lines, key+"\t"+strings.Join(values, " "))
	})
	slices.Sort(lines)
	lines = slices.Compact(lines)
	return []byte(strings.Join(lines, "\n") + "\n")
}

func forEachItem(body []byte, fn func(key string, values []string)) {
	sc := bufio.NewScanner(strings.NewReader(string(body)))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		key, rest, ok := strings.Cut(sc.Text(), "\t")
		if !ok || key == "" {
			continue
		}
		if values := strings.Fields(rest); len(values) > 0 {
			fn(key, values)
		}
	}
}
