package service

import (
	"fmt"

	"photo-hub/app/config"
	"photo-hub/app/logger"
	"photo-hub/app/model"

	"github.com/robfig/cron/v3"
)

// ScheduleService 定时扫描服务：按 cron 表达式周期性地
// 对配置的照片根目录发起跳过已有记录的扫描
type ScheduleService struct {
	cfg   *config.Config
	log   *logger.Logger
	scans *ScanService
	cron  *cron.Cron
}

// NewScheduleService 创建定时扫描服务
func NewScheduleService(cfg *config.Config, log *logger.Logger, scans *ScanService) *ScheduleService {
	return &ScheduleService{
		cfg:   cfg,
		log:   log,
		scans: scans,
		cron:  cron.New(),
	}
}

// Start 启动定时任务，未启用时直接返回
func (s *ScheduleService) Start() error {
	if !s.cfg.Schedule.Enabled {
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule.Cron, func() {
		task, err := s.scans.StartScan(model.ScanRequest{
			Roots:        s.cfg.Scan.Roots,
			Recursive:    s.cfg.Scan.Recursive,
			SkipExisting: true,
		})
		if err != nil {
			s.log.Errorf("定时扫描启动失败: %v", err)
			return
		}
		s.log.Infof("⏰ 定时扫描已触发: TaskID=%s", task.TaskID)
	})
	if err != nil {
		return fmt.Errorf("注册定时扫描失败: %w", err)
	}

	s.cron.Start()
	s.log.Infof("定时扫描服务已启动: %s", s.cfg.Schedule.Cron)
	return nil
}

// Stop 停止定时任务，等待进行中的触发回调返回
func (s *ScheduleService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
