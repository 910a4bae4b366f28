package cmd

import (
	"fmt"
	"photo-hub/app/config"
	"photo-hub/app/database"
	"photo-hub/app/logger"
	"photo-hub/app/storage"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "查看照片库统计信息",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		log := logger.New(cfg.Log)
		defer log.Sync()

		if err := database.Init(cfg, log); err != nil {
			log.Fatalf("数据库初始化失败: %v", err)
		}
		defer database.Close()

		store := storage.NewPhotoStore(database.GetDB(), log, cfg.Database.Path, cfg.Search.DefaultLimit)
		stats, err := store.Stats()
		if err != nil {
			log.Fatalf("获取统计信息失败: %v", err)
		}

		fmt.Printf("照片总数: %d\n", stats.TotalPhotos)
		fmt.Printf("分析总数: %d\n", stats.TotalAnalyses)
		if len(stats.ModelsUsed) > 0 {
			fmt.Printf("已用模型: %s\n", strings.Join(stats.ModelsUsed, ", "))
		}
		fmt.Printf("数据库位置: %s\n", stats.DatabaseLocation)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
