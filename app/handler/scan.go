package handler

import (
	"net/http"
	"strconv"

	"photo-hub/app/config"
	"photo-hub/app/logger"
	"photo-hub/app/model"
	"photo-hub/app/service"

	"github.com/gin-gonic/gin"
)

// ScanHandler 扫描任务处理器
type ScanHandler struct {
	config *config.Config
	log    *logger.Logger
	scans  *service.ScanService
}

// NewScanHandler 创建扫描任务处理器
func NewScanHandler(cfg *config.Config, log *logger.Logger, scans *service.ScanService) *ScanHandler {
	return &ScanHandler{
		config: cfg,
		log:    log,
		scans:  scans,
	}
}

// StartScanRequest 发起扫描的请求体。
// recursive 和 skip_existing 未给出时取配置默认值
type StartScanRequest struct {
	Roots        []string `json:"roots" binding:"required,min=1"`
	Recursive    *bool    `json:"recursive"`
	SkipExisting *bool    `json:"skip_existing"`
	Model        string   `json:"model"`
	Language     string   `json:"language"`
}

// StartScan 注册一个扫描任务并立即返回任务快照
func (h *ScanHandler) StartScan(c *gin.Context) {
	var req StartScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 400, "请求参数错误: "+err.Error())
		return
	}

	scanReq := model.ScanRequest{
		Roots:        req.Roots,
		Recursive:    h.config.Scan.Recursive,
		SkipExisting: h.config.Scan.SkipExisting,
		Model:        req.Model,
		Language:     req.Language,
	}
	if req.Recursive != nil {
		scanReq.Recursive = *req.Recursive
	}
	if req.SkipExisting != nil {
		scanReq.SkipExisting = *req.SkipExisting
	}

	task, err := h.scans.StartScan(scanReq)
	if err != nil {
		fail(c, http.StatusBadRequest, 400, "创建扫描任务失败: "+err.Error())
		return
	}

	success(c, task, "扫描任务已创建")
}

// GetScanTask 查询单个扫描任务的进度
func (h *ScanHandler) GetScanTask(c *gin.Context) {
	taskID := c.Param("id")

	task, ok := h.scans.Registry().Get(taskID)
	if !ok {
		fail(c, http.StatusNotFound, 404, "扫描任务不存在")
		return
	}

	success(c, task, "success")
}

// ListScanTasks 列出最近的扫描任务，最新的排在最前
func (h *ScanHandler) ListScanTasks(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			fail(c, http.StatusBadRequest, 400, "limit 参数无效")
			return
		}
		limit = parsed
	}

	tasks := h.scans.Registry().ListRecent(limit)
	success(c, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	}, "success")
}

// CancelScanTask 取消一个进行中的扫描任务。
// 取消是协作式的，任务会在当前文件处理完后停下
func (h *ScanHandler) CancelScanTask(c *gin.Context) {
	taskID := c.Param("id")

	registry := h.scans.Registry()
	task, ok := registry.Get(taskID)
	if !ok {
		fail(c, http.StatusNotFound, 404, "扫描任务不存在")
		return
	}

	if !registry.Cancel(taskID) {
		fail(c, http.StatusConflict, 409, "任务已结束，无法取消: "+string(task.Status))
		return
	}

	h.log.Infof("收到取消请求: TaskID=%s", taskID)
	success(c, gin.H{"task_id": taskID}, "取消请求已提交")
}
