package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/yleoer/opencc/pkg/config"
	"github.com/yleoer/opencc/pkg/converter"
	"github.com/yleoer/opencc/pkg/database"
	"github.com/yleoer/opencc/pkg/metrics"
	"github.com/yleoer/opencc/pkg/processor"
	"github.com/yleoer/opencc/pkg/scanner"
	"github.com/yleoer/opencc/pkg/scheduler"
	"github.com/yleoer/opencc/pkg/util"
)

// runWatch 监听输入目录并持续转换新增或修改的文本文件
func runWatch(logger *log.Logger) error {
	logger.Println("Starting OpenCC watch service...")
	// 1. 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Printf("Configuration loaded: Preset=%s, InputDir=%s, OutputDir=%s, DBPath=%s",
		cfg.Preset, cfg.InputDir, cfg.OutputDir, cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 初始化所有依赖服务
	// 2.1 文本转换器
	tc, closeConverter, err := converter.NewOpenCCConverter(converter.Options{
		Preset:     cfg.Preset,
		ConfigPath: cfg.ConfigPath,
		DictDir:    cfg.DictDir,
	}, logger)
	if err != nil {
		return err
	}
	defer closeConverter()
	// 2.2 数据库存储
	dbStore, err := database.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer dbStore.Close()
	// 2.3 扫描器与处理器
	docScanner := scanner.NewDocumentScanner(logger)
	docProcessor := processor.NewDocumentProcessor(tc, cfg.ConvertFileNames, logger)
	// 2.4 指标
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Printf("ERROR: Metrics server stopped: %v", err)
			}
		}()
	}

	// 3. 初始化任务调度器
	taskScheduler := scheduler.NewTaskScheduler(cfg, dbStore, docScanner, docProcessor, tc.Name(), logger)
	defer taskScheduler.Stop()

	// 4. 启动文件系统监听器，fsnotify 不递归，需要逐个添加子目录
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := addRecursive(watcher, cfg.InputDir, logger); err != nil {
		return err
	}
	logger.Printf("Monitoring input directory %s for text files...", cfg.InputDir)

	// 5. 执行初始扫描
	taskScheduler.InitialScan(cfg.InputDir)

	// 6. 处理文件系统事件
	logger.Println("Application is running. Press Ctrl+C to exit.")
	for {
		select {
		case <-ctx.Done():
			logger.Println("Shutting down, waiting for running conversions...")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			logger.Printf("Watcher event: %s, on %s", event.Op.String(), event.Name)
			if event.Has(fsnotify.Create) && util.IsDirectory(event.Name) {
				if err := addRecursive(watcher, event.Name, logger); err != nil {
					logger.Printf("ERROR: Error watching new directory %s: %v", event.Name, err)
				}
			}
			taskScheduler.TriggerScan(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("ERROR: Watcher error: %v", err)
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string, logger *log.Logger) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Printf("Error accessing %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
