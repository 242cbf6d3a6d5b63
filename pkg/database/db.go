package database

import "time"

// Record 记录一个已转换的文件
type Record struct {
	Path        string    // 源文件路径
	Fingerprint uint64    // 源文件内容指纹
	Preset      string    // 使用的转换方案
	OutputPath  string    // 输出文件路径
	ProcessedAt time.Time // 处理时间
}

// FileStore 定义文件处理状态存储接口
type FileStore interface {
	MarkProcessed(rec Record) error                                           // 将文件标记为已处理
	IsProcessed(path string, fingerprint uint64, preset string) (bool, error) // 检查文件的当前内容是否已用该方案处理
	Get(path string) (*Record, error)                                         // 查询文件的处理记录，不存在时返回 nil
	Close() error                                                             // 关闭数据库连接
}
