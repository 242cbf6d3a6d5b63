package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/yleoer/opencc/pkg/converter"
	"github.com/yleoer/opencc/pkg/opencc"
	"github.com/yleoer/opencc/pkg/util"
)

// runPresets 打印所有内置方案及其文件
func runPresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tDESCRIPTION\tFILES")
	for _, p := range opencc.Presets() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", p, p.Description(), len(p.Files()))
	}
	return tw.Flush()
}

// runMaterialize 把一个或多个方案释放到目录
func runMaterialize(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("materialize", flag.ContinueOnError)
	dir := fs.String("dir", "", "target directory (created if missing)")
	all := fs.Bool("all", false, "materialize every built-in preset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("-dir is required")
	}

	var presets []opencc.Preset
	if *all {
		presets = opencc.Presets()
	}
	for _, name := range fs.Args() {
		p, err := opencc.ParsePreset(name)
		if err != nil {
			return err
		}
		presets = append(presets, p)
	}
	if len(presets) == 0 {
		return errors.New("no presets given; pass preset names or -all")
	}

	m := opencc.NewMaterializer(nil, logger)
	if err := m.MaterializePresets(*dir, presets...); err != nil {
		return err
	}
	logger.Printf("Materialized %d preset(s) into %s.", len(presets), *dir)
	return nil
}

// runConvert 按行转换输入文件或标准输入
func runConvert(args []string, stdin io.Reader, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	preset := fs.String("preset", "t2s", "built-in preset name")
	configPath := fs.String("config", "", "OpenCC config file; overrides -preset")
	dictDir := fs.String("dict-dir", "", "materialize the preset here before opening it")
	in := fs.String("in", "", "input file (default stdin)")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tc, closeFn, err := converter.NewOpenCCConverter(converter.Options{
		Preset:     *preset,
		ConfigPath: *configPath,
		DictDir:    *dictDir,
	}, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	var r io.Reader = stdin
	if *in != "" {
		// 输入文件可能不是 UTF-8
		text, err := util.ReadTextFileContent(*in)
		if err != nil {
			return err
		}
		r = strings.NewReader(text)
	}
	if *out != "" {
		return convertToFile(tc, r, *out)
	}
	return convertStream(tc, r, stdout)
}

// convertToFile 把转换结果写入 path，关闭失败同样返回错误
func convertToFile(tc converter.TextConverter, r io.Reader, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := convertStream(tc, r, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// convertStream 逐行转换，复用同一个缓冲区
func convertStream(tc converter.TextConverter, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	var buf []byte
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			buf = tc.AppendConvert(buf[:0], line)
			if _, werr := bw.Write(buf); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
