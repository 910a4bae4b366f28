package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"photo-hub/app/analyzer"
	"photo-hub/app/config"
	"photo-hub/app/logger"
	"photo-hub/app/model"
	"photo-hub/app/scanner"
	"photo-hub/app/storage"
	"photo-hub/app/utils"
	"photo-hub/app/utils/imagehelper"
)

// AnalyzerFactory 按模型标识创建分析器，空串表示使用配置默认模型
type AnalyzerFactory func(modelOverride string) (analyzer.PhotoAnalyzer, error)

// ScanService 扫描编排器：串联扫描器、分析器和元数据存储，
// 驱动一次扫描任务并把进度写入任务注册表供观察者轮询
type ScanService struct {
	cfg         *config.Config
	log         *logger.Logger
	store       *storage.PhotoStore
	registry    *TaskRegistry
	newAnalyzer AnalyzerFactory

	// 容量为 1 的执行槽：扫描任务注册不限量，执行串行，
	// 避免多任务同时打满 AI 服务的限流额度
	slot chan struct{}
}

// NewScanService 创建扫描编排器
func NewScanService(cfg *config.Config, log *logger.Logger, store *storage.PhotoStore, registry *TaskRegistry) *ScanService {
	s := &ScanService{
		cfg:      cfg,
		log:      log,
		store:    store,
		registry: registry,
		slot:     make(chan struct{}, 1),
	}
	s.newAnalyzer = func(modelOverride string) (analyzer.PhotoAnalyzer, error) {
		return analyzer.NewFromConfig(cfg, log, modelOverride)
	}
	return s
}

// SetAnalyzerFactory 替换分析器工厂，测试用
func (s *ScanService) SetAnalyzerFactory(factory AnalyzerFactory) {
	s.newAnalyzer = factory
}

// Registry 返回任务注册表
func (s *ScanService) Registry() *TaskRegistry {
	return s.registry
}

// StartScan 注册扫描任务并异步执行，立即返回任务快照。
// 调用方通过 Registry().Get 轮询进度
func (s *ScanService) StartScan(req model.ScanRequest) (model.ScanTask, error) {
	if len(req.Roots) == 0 {
		return model.ScanTask{}, fmt.Errorf("未指定扫描根目录")
	}

	task := s.registry.Create(req)
	ctx, cancel := context.WithCancel(context.Background())
	s.registry.RegisterCancel(task.TaskID, cancel)

	go s.run(ctx, task.TaskID, req)

	s.log.Infof("扫描任务已创建: TaskID=%s, Roots=%v", task.TaskID, req.Roots)
	return task, nil
}

// run 执行一次扫描任务，是该任务可变字段的唯一写入方
func (s *ScanService) run(ctx context.Context, taskID string, req model.ScanRequest) {
	defer s.registry.releaseCancel(taskID)

	// 等待执行槽
	select {
	case s.slot <- struct{}{}:
		defer func() { <-s.slot }()
	case <-ctx.Done():
		s.finishCancelled(taskID)
		return
	}

	startTime := time.Now()
	s.log.Infof("🔄 开始执行扫描任务: TaskID=%s", taskID)

	// 创建分析器，失败属于任务级错误
	photoAnalyzer, err := s.newAnalyzer(req.Model)
	if err != nil {
		s.finishError(taskID, fmt.Errorf("创建分析器失败: %w", err))
		return
	}

	language := analyzer.NormalizeLanguage(req.Language)
	if language == analyzer.LanguageAuto && req.Language == "" {
		language = analyzer.NormalizeLanguage(s.cfg.Analyzer.Language)
	}

	// 枚举候选文件
	s.registry.Update(taskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusScanning
	})

	files, err := scanner.New(req.Recursive, s.log).Scan(req.Roots...)
	if err != nil {
		// 根目录缺失等枚举失败是任务级错误，total_files 保持未知
		s.finishError(taskID, err)
		return
	}

	total := len(files)
	s.registry.Update(taskID, func(t *model.ScanTask) {
		t.TotalFiles = &total
	})

	for _, file := range files {
		// 协作式取消：只在文件之间检查，不打断进行中的分析调用
		if ctx.Err() != nil {
			s.log.Infof("扫描任务被取消: TaskID=%s", taskID)
			s.finishCancelled(taskID)
			return
		}
		s.processFile(ctx, taskID, photoAnalyzer, file, req.SkipExisting, language, total)
	}

	now := time.Now()
	s.registry.Update(taskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusCompleted
		t.Progress = 1.0
		t.CurrentFile = ""
		t.FinishedAt = &now
	})

	if task, ok := s.registry.Get(taskID); ok {
		s.log.Infof("✅ 扫描任务完成: TaskID=%s, 成功=%d, 跳过=%d, 失败=%d, 耗时=%v",
			taskID, task.SuccessfulAnalyses, task.SkippedFiles, task.FailedFiles, time.Since(startTime))
	}
}

// processFile 处理单个文件。分析器调用是最不可靠的环节，
// 单个文件失败只计数，绝不让整个任务转入 error
func (s *ScanService) processFile(ctx context.Context, taskID string, photoAnalyzer analyzer.PhotoAnalyzer, file string, skipExisting bool, language analyzer.Language, total int) {
	fingerprint, err := utils.FileFingerprint(file)
	if err != nil {
		s.log.Warnf("❌ 计算文件指纹失败: %s: %v", file, err)
		s.advance(taskID, total, func(t *model.ScanTask) { t.FailedFiles++ })
		return
	}

	if skipExisting {
		exists, err := s.store.HasCurrentAnalysis(file, fingerprint)
		if err != nil {
			s.log.Warnf("❌ 查询分析状态失败: %s: %v", file, err)
			s.advance(taskID, total, func(t *model.ScanTask) { t.FailedFiles++ })
			return
		}
		if exists {
			s.log.Debugf("跳过已分析且未变化的文件: %s", file)
			s.advance(taskID, total, func(t *model.ScanTask) { t.SkippedFiles++ })
			return
		}
	}

	s.registry.Update(taskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusAnalyzing
		t.CurrentFile = file
	})

	result, err := photoAnalyzer.Analyze(ctx, file, language)
	if err != nil {
		s.log.Warnf("❌ 分析文件失败: %s: %v", file, err)
		s.advance(taskID, total, func(t *model.ScanTask) { t.FailedFiles++ })
		return
	}

	record := s.buildRecord(file, fingerprint, result)
	if err := s.store.Upsert(record); err != nil {
		// 写入失败按单文件失败处理，任务继续
		s.log.Errorf("❌ 写入照片记录失败: %s: %v", file, err)
		s.advance(taskID, total, func(t *model.ScanTask) { t.FailedFiles++ })
		return
	}

	s.log.Infof("📷 已分析: %s", filepath.Base(file))
	s.advance(taskID, total, func(t *model.ScanTask) { t.SuccessfulAnalyses++ })
}

// advance 记录单个文件的处理结果并推进进度
func (s *ScanService) advance(taskID string, total int, count func(*model.ScanTask)) {
	s.registry.Update(taskID, func(t *model.ScanTask) {
		count(t)
		t.ProcessedFiles++
		if total > 0 {
			t.Progress = float64(t.ProcessedFiles) / float64(total)
		}
	})
}

// buildRecord 组装照片记录，尺寸和 EXIF 读取失败不影响记录写入
func (s *ScanService) buildRecord(file, fingerprint string, result *model.AnalysisResult) *model.PhotoRecord {
	record := &model.PhotoRecord{
		Path:        file,
		Fingerprint: fingerprint,
		Filename:    filepath.Base(file),
		Description: result.Description,
		Tags:        result.Tags,
		People:      result.People,
		Objects:     result.Objects,
		Location:    result.Location,
		Confidence:  result.Confidence,
		ModelUsed:   result.ModelUsed,
		AnalyzedAt:  time.Now(),
		TakenAt:     imagehelper.TakenTime(file),
	}

	if info, err := os.Stat(file); err == nil {
		record.FileSize = info.Size()
	}
	if width, height, _, err := imagehelper.Probe(file); err == nil {
		record.Width = width
		record.Height = height
	} else {
		s.log.Debugf("读取图片尺寸失败: %s: %v", file, err)
	}
	return record
}

// finishError 把任务转入 error 终止态
func (s *ScanService) finishError(taskID string, err error) {
	s.log.Errorf("💀 扫描任务失败: TaskID=%s, 错误: %v", taskID, err)
	now := time.Now()
	s.registry.Update(taskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusError
		t.ErrorMessage = err.Error()
		t.CurrentFile = ""
		t.FinishedAt = &now
	})
}

// finishCancelled 把任务转入 cancelled 终止态，保留已完成的计数
func (s *ScanService) finishCancelled(taskID string) {
	now := time.Now()
	s.registry.Update(taskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusCancelled
		t.CurrentFile = ""
		t.FinishedAt = &now
	})
}
