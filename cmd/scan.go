package cmd

import (
	"fmt"
	"os"
	"photo-hub/app/config"
	"photo-hub/app/database"
	"photo-hub/app/logger"
	"photo-hub/app/model"
	"photo-hub/app/service"
	"photo-hub/app/storage"
	"time"

	"github.com/spf13/cobra"
)

var (
	scanRecursive    bool
	scanSkipExisting bool
	scanModel        string
	scanLanguage     string
)

var scanCmd = &cobra.Command{
	Use:   "scan [目录...]",
	Short: "扫描并分析照片目录",
	Long:  "扫描给定目录中的图片，逐个送入视觉模型分析并写入本地数据库，实时打印进度",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		log := logger.New(cfg.Log)
		defer log.Sync()

		if err := database.Init(cfg, log); err != nil {
			log.Fatalf("数据库初始化失败: %v", err)
		}
		defer database.Close()

		store := storage.NewPhotoStore(database.GetDB(), log, cfg.Database.Path, cfg.Search.DefaultLimit)
		registry := service.NewTaskRegistry(cfg.Scan.TaskHistoryLimit)
		scans := service.NewScanService(cfg, log, store, registry)

		task, err := scans.StartScan(model.ScanRequest{
			Roots:        args,
			Recursive:    scanRecursive,
			SkipExisting: scanSkipExisting,
			Model:        scanModel,
			Language:     scanLanguage,
		})
		if err != nil {
			log.Fatalf("创建扫描任务失败: %v", err)
		}

		// 轮询任务进度直到结束
		final := waitScan(registry, task.TaskID)

		fmt.Printf("\n扫描结束: %s\n", final.Status)
		if final.TotalFiles != nil {
			fmt.Printf("  总计文件: %d\n", *final.TotalFiles)
		}
		fmt.Printf("  成功分析: %d\n", final.SuccessfulAnalyses)
		fmt.Printf("  跳过文件: %d\n", final.SkippedFiles)
		fmt.Printf("  失败文件: %d\n", final.FailedFiles)
		if final.ErrorMessage != "" {
			fmt.Printf("  错误信息: %s\n", final.ErrorMessage)
		}

		if final.Status != model.TaskStatusCompleted {
			os.Exit(1)
		}
	},
}

// waitScan 轮询注册表直到任务进入终止状态
func waitScan(registry *service.TaskRegistry, taskID string) model.ScanTask {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		task, ok := registry.Get(taskID)
		if !ok {
			continue
		}
		if task.Status.IsTerminal() {
			return task
		}
		if task.TotalFiles != nil {
			fmt.Printf("\r[%s] %d/%d 成功=%d 跳过=%d 失败=%d",
				task.Status, task.ProcessedFiles, *task.TotalFiles,
				task.SuccessfulAnalyses, task.SkippedFiles, task.FailedFiles)
		} else {
			fmt.Printf("\r[%s] 正在枚举文件...", task.Status)
		}
	}
	return model.ScanTask{}
}

func init() {
	scanCmd.Flags().BoolVar(&scanRecursive, "recursive", true, "递归扫描子目录")
	scanCmd.Flags().BoolVar(&scanSkipExisting, "skip-existing", true, "跳过已分析且未变化的文件")
	scanCmd.Flags().StringVar(&scanModel, "model", "", "分析模型，空则使用配置默认")
	scanCmd.Flags().StringVar(&scanLanguage, "language", "", "分析语言 en/zh/auto")
	rootCmd.AddCommand(scanCmd)
}
