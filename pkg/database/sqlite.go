package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteStore 是 FileStore 接口的 SQLite 实现
type sqliteStore struct {
	db     *sql.DB
	logger *log.Logger
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS processed_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		fingerprint INTEGER NOT NULL,
		preset TEXT NOT NULL,
		output_path TEXT NOT NULL,
		processed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

// 指纹以有符号整数保存，读写时按位转换
const upsertSQL = `
	INSERT INTO processed_files (path, fingerprint, preset, output_path, processed_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		fingerprint = excluded.fingerprint,
		preset = excluded.preset,
		output_path = excluded.output_path,
		processed_at = excluded.processed_at
	`

// NewSQLiteStore 初始化 SQLite 数据库并返回 FileStore 接口实例
func NewSQLiteStore(dataSourceName string, log *log.Logger) (FileStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// 尝试创建表，如果不存在
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close() // 创建表失败也要关闭连接
		return nil, fmt.Errorf("failed to create processed_files table: %w", err)
	}
	log.Printf("SQLite database initialized at: %s", dataSourceName)
	return &sqliteStore{db: db, logger: log}, nil
}

// Close 关闭数据库连接
func (s *sqliteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.logger.Println("SQLite database connection closed.")
		return err
	}
	return nil
}

// MarkProcessed 将文件标记为已处理，重复标记时更新记录
func (s *sqliteStore) MarkProcessed(rec Record) error {
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now()
	}
	_, err := s.db.Exec(upsertSQL, rec.Path, int64(rec.Fingerprint), rec.Preset, rec.OutputPath, rec.ProcessedAt)
	if err != nil {
		s.logger.Printf("ERROR: Failed to add file %s to processed_files: %v", rec.Path, err)
		return fmt.Errorf("failed to add processed file %s: %w", rec.Path, err)
	}
	s.logger.Printf("File %s marked as processed (%s).", rec.Path, rec.Preset)
	return nil
}

// IsProcessed 检查文件的当前内容是否已用同一方案处理
func (s *sqliteStore) IsProcessed(path string, fingerprint uint64, preset string) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM processed_files WHERE path = ? AND fingerprint = ? AND preset = ?",
		path, int64(fingerprint), preset).Scan(&count)
	if err != nil {
		s.logger.Printf("ERROR: Failed to check if file %s is processed: %v", path, err)
		return false, fmt.Errorf("failed to check processed status for %s: %w", path, err)
	}
	return count > 0, nil
}

// Get 查询文件的处理记录
func (s *sqliteStore) Get(path string) (*Record, error) {
	var (
		rec Record
		fp  int64
	)
	err := s.db.QueryRow("SELECT path, fingerprint, preset, output_path, processed_at FROM processed_files WHERE path = ?", path).
		Scan(&rec.Path, &fp, &rec.Preset, &rec.OutputPath, &rec.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query processed file %s: %w", path, err)
	}
	rec.Fingerprint = uint64(fp)
	return &rec, nil
}
