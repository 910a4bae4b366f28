package model

import (
	"time"
)

// TaskStatus 扫描任务状态
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"   // 已创建，尚未开始
	TaskStatusScanning  TaskStatus = "scanning"  // 正在枚举文件
	TaskStatusAnalyzing TaskStatus = "analyzing" // 正在调用分析器
	TaskStatusCompleted TaskStatus = "completed" // 全部文件处理完成
	TaskStatusError     TaskStatus = "error"     // 不可恢复错误
	TaskStatusCancelled TaskStatus = "cancelled" // 被调用方取消
)

// IsTerminal 判断是否为终止状态，终止后任务不再变化
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError || s == TaskStatusCancelled
}

// ScanRequest 一次扫描任务的请求参数
type ScanRequest struct {
	Roots        []string `json:"roots" binding:"required"` // 根目录列表
	Recursive    bool     `json:"recursive"`                // 是否递归子目录
	SkipExisting bool     `json:"skip_existing"`            // 指纹未变化的文件不再送分析
	Model        string   `json:"model,omitempty"`          // 分析模型，空则使用配置默认
	Language     string   `json:"language,omitempty"`       // 分析语言 en/zh/auto
}

// ScanTask 一次扫描任务的可观测状态。
// 运行期间仅由执行该任务的编排器写入，观察者通过注册表读取快照；
// 进入终止状态后不再变化。
type ScanTask struct {
	TaskID             string      `json:"task_id"`
	Request            ScanRequest `json:"request"`
	Status             TaskStatus  `json:"status"`
	Progress           float64     `json:"progress"` // 0.0-1.0，运行期间单调不减
	TotalFiles         *int        `json:"total_files"`
	ProcessedFiles     int         `json:"processed_files"`
	SuccessfulAnalyses int         `json:"successful_analyses"`
	SkippedFiles       int         `json:"skipped_files"`
	FailedFiles        int         `json:"failed_files"`
	CurrentFile        string      `json:"current_file,omitempty"` // 仅供界面展示
	ErrorMessage       string      `json:"error_message,omitempty"`
	StartedAt          time.Time   `json:"started_at"`
	FinishedAt         *time.Time  `json:"finished_at"`
}
