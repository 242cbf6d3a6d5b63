package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Preset                 string        `yaml:"preset"`                   // 转换方案
	ConfigPath             string        `yaml:"config_path"`              // 自定义 OpenCC 配置文件，优先于 Preset
	DictDir                string        `yaml:"dict_dir"`                 // 内置词典释放目录，留空则使用系统词典
	InputDir               string        `yaml:"input_dir"`                // 监听目录
	OutputDir              string        `yaml:"output_dir"`               // 转换结果存放目录
	DataDir                string        `yaml:"data_dir"`                 // SQLite数据库文件存放目录
	DBFileName             string        `yaml:"db_file_name"`             // SQLite数据库文件名
	DBPath                 string        `yaml:"-"`                        // 完整的数据库文件路径
	StabilityCheckInterval time.Duration `yaml:"stability_check_interval"` // 每次检查的间隔
	StabilityQuietDuration time.Duration `yaml:"stability_quiet_duration"` // 文件在多长时间内没有变化才算稳定
	StabilityMaxWait       time.Duration `yaml:"stability_max_wait"`       // 最长等待文件稳定的时间
	ConvertFileNames       bool          `yaml:"convert_file_names"`       // 是否同时转换输出路径中的文件名
	MetricsAddr            string        `yaml:"metrics_addr"`             // Prometheus 监听地址，留空则不启动
}

const (
	preset    = "t2s"
	inputDir  = "/app/input"
	outputDir = "/app/output"
	dataDir   = "/app/data"

	dbFileName = "opencc.db"

	// 文件稳定性检查相关参数
	stabilityCheckInterval = 5 * time.Second  // 每次检查的间隔
	stabilityQuietDuration = 10 * time.Second // 文件在多长时间内没有变化才算稳定
	stabilityMaxWait       = 1 * time.Hour    // 最长等待文件稳定的时间
)

// LoadConfig 从 YAML 文件、环境变量或默认值加载配置，环境变量优先
func LoadConfig() (*Config, error) {
	// 尝试加载 .env 文件
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("OPENCC_CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	setString(&cfg.Preset, "OPENCC_PRESET")
	setString(&cfg.ConfigPath, "OPENCC_CONFIG_PATH")
	setString(&cfg.DictDir, "OPENCC_DICT_DIR")
	setString(&cfg.InputDir, "INPUT_DIR")
	setString(&cfg.OutputDir, "OUTPUT_DIR")
	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.DBFileName, "DB_FILE_NAME")
	setString(&cfg.MetricsAddr, "METRICS_ADDR")
	cfg.StabilityCheckInterval = parseDurationOrDefault(os.Getenv("STABILITY_CHECK_INTERVAL"), orDuration(cfg.StabilityCheckInterval, stabilityCheckInterval))
	cfg.StabilityQuietDuration = parseDurationOrDefault(os.Getenv("STABILITY_QUIET_DURATION"), orDuration(cfg.StabilityQuietDuration, stabilityQuietDuration))
	cfg.StabilityMaxWait = parseDurationOrDefault(os.Getenv("STABILITY_MAX_WAIT"), orDuration(cfg.StabilityMaxWait, stabilityMaxWait))
	cfg.ConvertFileNames = parseBoolOrDefault(os.Getenv("CONVERT_FILE_NAMES"), cfg.ConvertFileNames)

	// 设置默认值
	if cfg.Preset == "" {
		cfg.Preset = preset
	}
	if cfg.InputDir == "" {
		cfg.InputDir = inputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = outputDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.DBFileName == "" {
		cfg.DBFileName = dbFileName
	}
	cfg.DBPath = filepath.Join(cfg.DataDir, cfg.DBFileName)
	// 输出写回输入目录会被再次转换
	if err := checkSeparate(cfg.InputDir, cfg.OutputDir); err != nil {
		return nil, err
	}
	// 确认目录存在
	if err := os.MkdirAll(cfg.InputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create input directory %s: %w", cfg.InputDir, err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", cfg.DataDir, err)
	}
	return cfg, nil
}

// checkSeparate 确认输入和输出目录互不包含
func checkSeparate(inputDir, outputDir string) error {
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve input directory %s: %w", inputDir, err)
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory %s: %w", outputDir, err)
	}
	if within(in, out) || within(out, in) {
		return fmt.Errorf("input directory %s and output directory %s must not contain each other", inputDir, outputDir)
	}
	return nil
}

// within 判断 path 是否等于 root 或位于 root 之下
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func orDuration(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

func parseDurationOrDefault(s string, defaultValue time.Duration) time.Duration {
	if s == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Warning: Could not parse duration '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return d
}

func parseBoolOrDefault(s string, defaultValue bool) bool {
	if s == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Printf("Warning: Could not parse bool '%s', using default '%v'. Error: %v", s, defaultValue, err)
		return defaultValue
	}
	return b
}
