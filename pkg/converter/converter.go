package converter

// TextConverter 定义文本转换器接口
type TextConverter interface {
	Convert(text string) string                   // 转换整段文本，失败时返回原文
	AppendConvert(dst []byte, text string) []byte // 把转换结果追加到 dst
	Name() string                                 // 方案名称，用于日志和记录
}
