package converter

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/yleoer/opencc/pkg/opencc"
)

// openCCConverter 是 TextConverter 的一个实现
type openCCConverter struct {
	converter *opencc.Converter
	name      string
	logger    *log.Logger
}

// Options 描述如何打开转换器
type Options struct {
	Preset     string // 方案名，例如 "t2s"
	ConfigPath string // 自定义配置文件路径，优先于 Preset
	DictDir    string // 非空时先把方案释放到该目录再打开
}

// NewOpenCCConverter 初始化并返回一个 OpenCC 转换器实例
func NewOpenCCConverter(opts Options, log *log.Logger) (TextConverter, func() error, error) {
	var (
		cc   *opencc.Converter
		name string
		err  error
	)
	if opts.ConfigPath != "" {
		name = strings.TrimSuffix(filepath.Base(opts.ConfigPath), filepath.Ext(opts.ConfigPath))
		cc, err = opencc.Open(opts.ConfigPath)
	} else {
		preset, perr := opencc.ParsePreset(opts.Preset)
		if perr != nil {
			return nil, nil, fmt.Errorf("failed to initialize OpenCC converter: %w", perr)
		}
		name = preset.String()
		if opts.DictDir != "" {
			m := opencc.NewMaterializer(nil, log)
			if err := m.MaterializePreset(opts.DictDir, preset); err != nil {
				return nil, nil, fmt.Errorf("failed to materialize OpenCC preset %s: %w", preset, err)
			}
			cc, err = opencc.OpenPresetDir(opts.DictDir, preset)
		} else {
			cc, err = opencc.OpenPreset(preset)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OpenCC converter: %w", err)
	}
	log.Printf("OpenCC converter (%s, %s backend) initialized from %s.", name, opencc.Backend, cc.Config())
	return New(cc, name, log), cc.Close, nil
}

// New 使用已打开的 Converter 构造 TextConverter
func New(cc *opencc.Converter, name string, log *log.Logger) TextConverter {
	return &openCCConverter{converter: cc, name: name, logger: log}
}

func (c *openCCConverter) Name() string {
	return c.name
}

// Convert 转换文本，失败时返回原文
func (c *openCCConverter) Convert(text string) string {
	if c.converter == nil {
		c.logger.Println("WARN: OpenCC converter not initialized, returning original text.")
		return text
	}
	out, err := c.converter.Convert(text)
	if err != nil {
		c.logger.Printf("WARN: Failed to convert text '%s' with %s: %v", text, c.name, err)
		return text // 在转换失败时返回原文
	}
	return out
}

// AppendConvert 把转换结果追加到 dst，失败时追加原文
func (c *openCCConverter) AppendConvert(dst []byte, text string) []byte {
	if c.converter == nil {
		return append(dst, text...)
	}
	out, err := c.converter.ConvertAppend(dst, text)
	if err != nil {
		c.logger.Printf("WARN: Failed to convert text '%s' with %s: %v", text, c.name, err)
		return append(out, text...)
	}
	return out
}
