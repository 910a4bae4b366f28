package server

import (
	"context"
	"net/http"
	"photo-hub/app/config"
	"photo-hub/app/database"
	"photo-hub/app/filewatcher"
	"photo-hub/app/handler"
	"photo-hub/app/logger"
	"photo-hub/app/middleware"
	"photo-hub/app/service"
	"photo-hub/app/storage"

	"github.com/gin-gonic/gin"
)

// Server 表示 HTTP 服务器
type Server struct {
	Config *config.Config
	Logger *logger.Logger
	gin    *gin.Engine
	http   *http.Server

	store           *storage.PhotoStore
	scanService     *service.ScanService
	scheduleService *service.ScheduleService
	watcher         *filewatcher.Watcher
}

// New 创建一个新的 Server 实例
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	router := gin.Default()

	store := storage.NewPhotoStore(database.GetDB(), log, cfg.Database.Path, cfg.Search.DefaultLimit)
	registry := service.NewTaskRegistry(cfg.Scan.TaskHistoryLimit)
	scanService := service.NewScanService(cfg, log, store, registry)

	watcher, err := filewatcher.New(cfg, log, scanService)
	if err != nil {
		return nil, err
	}

	s := &Server{
		gin: router,
		http: &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: router,
		},
		Config:          cfg,
		Logger:          log,
		store:           store,
		scanService:     scanService,
		scheduleService: service.NewScheduleService(cfg, log, scanService),
		watcher:         watcher,
	}

	// 设置路由
	s.setupRoutes()

	return s, nil
}

// Start 启动服务器
func (s *Server) Start() error {
	// 启动定时扫描
	if err := s.scheduleService.Start(); err != nil {
		return err
	}

	// 启动照片目录监控
	if err := s.watcher.Start(); err != nil {
		return err
	}

	s.Logger.Infof("在端口 %s 启动服务器", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// 停止目录监控和定时扫描
	if err := s.watcher.Stop(); err != nil {
		s.Logger.Errorf("停止目录监控失败: %v", err)
	}
	s.scheduleService.Stop()

	// 关闭数据库连接
	if err := database.Close(); err != nil {
		s.Logger.Errorf("关闭数据库连接失败: %v", err)
	}
	return s.http.Shutdown(ctx)
}

// setupRoutes 设置API路由
func (s *Server) setupRoutes() {
	// 创建处理器实例
	authHandler := handler.NewAuthHandler(s.Config)
	scanHandler := handler.NewScanHandler(s.Config, s.Logger, s.scanService)
	searchHandler := handler.NewSearchHandler(s.store)
	statsHandler := handler.NewStatsHandler(s.Config, s.store)

	// API路由组
	api := s.gin.Group("/api")

	// 健康检查（不需要JWT验证）
	api.GET("/health", handler.Health)

	// 认证相关路由（不需要JWT验证）
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// 需要JWT验证的路由
	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(s.Config))
	{
		// 用户相关
		protected.GET("/me", authHandler.Me)

		// 扫描任务相关路由
		scan := protected.Group("/scan")
		{
			scan.POST("", scanHandler.StartScan)
			scan.GET("", scanHandler.ListScanTasks)
			scan.GET("/:id", scanHandler.GetScanTask)
			scan.POST("/:id/cancel", scanHandler.CancelScanTask)
		}

		// 搜索与统计
		protected.POST("/search", searchHandler.Search)
		protected.GET("/stats", statsHandler.Stats)
	}
}
