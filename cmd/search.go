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

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <关键词...>",
	Short: "按关键词搜索照片",
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

		query := strings.Join(args, " ")
		results, err := store.Search(query, searchLimit)
		if err != nil {
			log.Fatalf("搜索失败: %v", err)
		}

		if len(results) == 0 {
			fmt.Println("没有匹配的照片")
			return
		}

		fmt.Printf("共 %d 条结果:\n\n", len(results))
		for i, rec := range results {
			fmt.Printf("%d. %s\n", i+1, rec.Path)
			fmt.Printf("   %s\n", rec.Description)
			if len(rec.Tags) > 0 {
				fmt.Printf("   标签: %s\n", strings.Join(rec.Tags, ", "))
			}
			if rec.Location != "" {
				fmt.Printf("   地点: %s\n", rec.Location)
			}
			fmt.Println()
		}
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "最多返回的结果数，0 使用配置默认")
	rootCmd.AddCommand(searchCmd)
}
