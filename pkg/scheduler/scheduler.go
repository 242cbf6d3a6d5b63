package scheduler

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yleoer/opencc/pkg/config"
	"github.com/yleoer/opencc/pkg/database"
	"github.com/yleoer/opencc/pkg/metrics"
	"github.com/yleoer/opencc/pkg/processor"
	"github.com/yleoer/opencc/pkg/scanner"
	"github.com/yleoer/opencc/pkg/util"
)

// TaskScheduler 负责调度文本文件的转换任务
type TaskScheduler struct {
	cfg               *config.Config
	dbStore           database.FileStore
	docScanner        *scanner.DocumentScanner
	docProcessor      *processor.DocumentProcessor
	preset            string
	logger            *log.Logger
	convertMutex      sync.Mutex // 串行执行转换，避免同一文件被并发处理
	pendingScans      map[string]*time.Timer
	pendingScansMutex sync.Mutex // 保护 pendingScans map
	wg                sync.WaitGroup
	stopped           bool
}

// NewTaskScheduler 创建一个新的 TaskScheduler 实例
func NewTaskScheduler(
	cfg *config.Config,
	dbStore database.FileStore,
	docScanner *scanner.DocumentScanner,
	docProcessor *processor.DocumentProcessor,
	preset string,
	logger *log.Logger,
) *TaskScheduler {
	return &TaskScheduler{
		cfg:          cfg,
		dbStore:      dbStore,
		docScanner:   docScanner,
		docProcessor: docProcessor,
		preset:       preset,
		logger:       logger,
		pendingScans: make(map[string]*time.Timer),
	}
}

// InitialScan 对输入目录进行初始扫描
func (ts *TaskScheduler) InitialScan(inputRoot string) {
	ts.logger.Println("Performing initial scan for unconverted files in input directory...")
	docs, err := ts.docScanner.ScanDirectory(inputRoot)
	if err != nil {
		ts.logger.Printf("ERROR: Error reading input directory %s for initial scan: %v", inputRoot, err)
		return
	}
	for _, doc := range docs {
		processed, err := ts.isProcessed(doc.Path)
		if err != nil {
			ts.logger.Printf("ERROR: Error checking processed status for %s: %v", doc.Path, err)
		}
		if !processed {
			ts.logger.Printf("  -> Found unconverted file: %s. Scheduling conversion.", doc.Path)
			ts.TriggerScan(doc.Path)
		} else {
			ts.logger.Printf("  -> File %s already converted. Skipping.", doc.Path)
		}
	}
	ts.logger.Println("Initial scan completed.")
}

// TriggerScan 将路径加入延迟转换队列。目录会被展开为其中的文本文件。
func (ts *TaskScheduler) TriggerScan(path string) {
	if util.IsDirectory(path) {
		docs, err := ts.docScanner.ScanDirectory(path)
		if err != nil {
			ts.logger.Printf("ERROR: Error scanning directory %s: %v", path, err)
			return
		}
		for _, doc := range docs {
			ts.TriggerScan(doc.Path)
		}
		return
	}
	if !util.IsRelevantTextFile(path) {
		return
	}

	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	if ts.stopped {
		return
	}
	// 如果这个文件已经有一个待定的任务，就重置计时器
	if timer, ok := ts.pendingScans[path]; ok {
		if timer.Stop() {
			ts.wg.Done()
			metrics.PendingJobs.Dec()
		}
	}
	ts.wg.Add(1)
	metrics.PendingJobs.Inc()
	var timer *time.Timer
	timer = time.AfterFunc(ts.cfg.StabilityCheckInterval, func() {
		defer ts.wg.Done()
		metrics.PendingJobs.Dec()
		ts.performConvert(path)
		// 完成后从队列中移除，除非期间又被重新调度
		ts.pendingScansMutex.Lock()
		if ts.pendingScans[path] == timer {
			delete(ts.pendingScans, path)
		}
		ts.pendingScansMutex.Unlock()
	})
	ts.pendingScans[path] = timer
	ts.logger.Printf("Scheduled conversion for %s in %v", path, ts.cfg.StabilityCheckInterval)
}

// Stop 取消尚未开始的任务并等待正在执行的任务结束
func (ts *TaskScheduler) Stop() {
	ts.pendingScansMutex.Lock()
	ts.stopped = true
	for path, timer := range ts.pendingScans {
		if timer.Stop() {
			ts.wg.Done()
			metrics.PendingJobs.Dec()
		}
		delete(ts.pendingScans, path)
	}
	ts.pendingScansMutex.Unlock()
	ts.wg.Wait()
}

// Wait 等待所有已调度的任务完成
func (ts *TaskScheduler) Wait() {
	ts.wg.Wait()
}

func (ts *TaskScheduler) isProcessed(path string) (bool, error) {
	fp, err := processor.Fingerprint(path)
	if err != nil {
		return false, err
	}
	return ts.dbStore.IsProcessed(path, fp, ts.preset)
}

// performConvert 执行实际的文件转换
func (ts *TaskScheduler) performConvert(path string) {
	ts.convertMutex.Lock()
	defer ts.convertMutex.Unlock()
	ts.logger.Printf("-> Performing conversion for file: %s", path)
	if _, err := os.Stat(path); err != nil {
		ts.logger.Printf("  -> File %s is gone (%v). Skipping.", path, err)
		return
	}
	// --- 文件稳定性检查 ---
	if !ts.waitForFileStability(path) {
		ts.logger.Printf("  -> File %s is still changing. Rescheduling conversion.", path)
		ts.TriggerScan(path)
		return
	}
	processed, err := ts.isProcessed(path)
	if err != nil {
		ts.logger.Printf("ERROR: Error checking processed status for %s before conversion: %v", path, err)
		// 即使出错也尝试处理，避免遗漏
	}
	if processed {
		ts.logger.Printf("  -> File %s already converted (after stability check). Skipping.", path)
		metrics.FilesSkipped.Inc()
		return
	}

	rel, err := filepath.Rel(ts.cfg.InputDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		ts.logger.Printf("ERROR: File %s is outside input directory %s. Skipping.", path, ts.cfg.InputDir)
		metrics.Failures.WithLabelValues("path").Inc()
		return
	}
	res, err := ts.docProcessor.ProcessDocument(path, rel, ts.cfg.OutputDir)
	if err != nil {
		ts.logger.Printf("ERROR: Error converting file %s: %v", path, err)
		metrics.Failures.WithLabelValues("convert").Inc()
		return
	}
	metrics.FilesConverted.WithLabelValues(ts.preset).Inc()
	metrics.BytesConverted.Add(float64(res.InputBytes))
	metrics.ConvertDuration.Observe(res.Elapsed.Seconds())

	err = ts.dbStore.MarkProcessed(database.Record{
		Path:        path,
		Fingerprint: res.Fingerprint,
		Preset:      ts.preset,
		OutputPath:  res.OutputPath,
	})
	if err != nil {
		ts.logger.Printf("ERROR: Error marking file %s as converted: %v", path, err)
		metrics.Failures.WithLabelValues("store").Inc()
		return
	}
	ts.logger.Printf("Successfully converted %s to %s.", path, res.OutputPath)
}

// waitForFileStability 检查文件在静默期内是否没有变化
func (ts *TaskScheduler) waitForFileStability(path string) bool {
	ts.logger.Printf("  -> Waiting for %s to stabilize for %v...", path, ts.cfg.StabilityQuietDuration)
	var (
		previous   fileInfo
		lastChange time.Time
	)
	startOverallWait := time.Now()
	for time.Since(startOverallWait) < ts.cfg.StabilityMaxWait {
		currentCheckTime := time.Now()
		info, err := os.Stat(path)
		if err != nil {
			ts.logger.Printf("ERROR: Error getting file info for %s: %v", path, err)
			return false
		}
		current := fileInfo{Size: info.Size(), ModTime: info.ModTime()}
		if lastChange.IsZero() || current != previous {
			lastChange = currentCheckTime
			previous = current
		} else if currentCheckTime.Sub(lastChange) >= ts.cfg.StabilityQuietDuration {
			ts.logger.Printf("  -> %s is stable for at least %v.", path, ts.cfg.StabilityQuietDuration)
			return true
		}
		if ts.cfg.StabilityQuietDuration <= 0 {
			return true
		}
		time.Sleep(ts.cfg.StabilityCheckInterval)
	}
	ts.logger.Printf("  -> Max wait time for stability exceeded for %s.", path)
	return false
}

// fileInfo struct 用于存储文件的关键信息
type fileInfo struct {
	Size    int64
	ModTime time.Time
}
