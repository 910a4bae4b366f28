package filewatcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"photo-hub/app/config"
	"photo-hub/app/logger"
	"photo-hub/app/model"
	"photo-hub/app/scanner"
	"photo-hub/app/service"

	"github.com/fsnotify/fsnotify"
)

// Watcher 照片目录监控器：监听配置的根目录，
// 新增或修改图片后在事件合并窗口结束时触发一次增量扫描
type Watcher struct {
	cfg    *config.Config
	log    *logger.Logger
	scans  *service.ScanService
	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New 创建照片目录监控器，未启用时返回 (nil, nil)
func New(cfg *config.Config, log *logger.Logger, scans *service.ScanService) (*Watcher, error) {
	if !cfg.Watcher.Enabled {
		return nil, nil
	}
	if len(cfg.Scan.Roots) == 0 {
		return nil, fmt.Errorf("目录监控已启用但没有配置照片根目录")
	}

	return &Watcher{
		cfg:    cfg,
		log:    log,
		scans:  scans,
		stopCh: make(chan struct{}),
	}, nil
}

// Start 启动监控
func (w *Watcher) Start() error {
	if w == nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监控器失败: %w", err)
	}
	w.fsw = fsw

	// 递归注册根目录及其子目录
	for _, root := range w.cfg.Scan.Roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return fmt.Errorf("注册监控目录 %s 失败: %w", root, err)
		}
	}

	w.wg.Add(1)
	go w.loop()

	w.log.Infof("照片目录监控已启动，共监控 %d 个根目录", len(w.cfg.Scan.Roots))
	return nil
}

// Stop 停止监控
func (w *Watcher) Stop() error {
	if w == nil || w.fsw == nil {
		return nil
	}
	close(w.stopCh)
	err := w.fsw.Close()
	w.wg.Wait()
	w.log.Info("照片目录监控已停止")
	return err
}

// loop 消费文件系统事件，合并窗口内的多次变更只触发一次扫描
func (w *Watcher) loop() {
	defer w.wg.Done()

	debounce := time.Duration(w.cfg.Watcher.DebounceSeconds) * time.Second
	if debounce <= 0 {
		debounce = 10 * time.Second
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	dirty := false

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				dirty = true
				timer.Reset(debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnf("文件监控错误: %v", err)

		case <-timer.C:
			if !dirty {
				continue
			}
			dirty = false
			w.triggerScan()
		}
	}
}

// handleEvent 判断事件是否值得触发扫描，并把新建目录纳入监控
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warnf("注册新目录 %s 失败: %v", event.Name, err)
			}
			// 新目录中可能已有图片
			return true
		}
	}

	return scanner.IsSupportedImage(event.Name)
}

// triggerScan 对配置的根目录发起一次跳过已有记录的增量扫描
func (w *Watcher) triggerScan() {
	task, err := w.scans.StartScan(model.ScanRequest{
		Roots:        w.cfg.Scan.Roots,
		Recursive:    w.cfg.Scan.Recursive,
		SkipExisting: true,
	})
	if err != nil {
		w.log.Errorf("目录监控触发扫描失败: %v", err)
		return
	}
	w.log.Infof("📂 检测到照片变更，已触发增量扫描: TaskID=%s", task.TaskID)
}

// addRecursive 注册目录及其全部子目录
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warnf("跳过不可读目录 %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}
