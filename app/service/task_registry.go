package service

import (
	"context"
	"sync"
	"time"

	"photo-hub/app/model"

	"github.com/google/uuid"
)

// TaskRegistry 进程级扫描任务注册表。
// 每个任务运行期间只有编排器一个写入方，观察者通过快照读取；
// 容量超限时优先淘汰最早的终止态任务，运行中的任务永不淘汰
type TaskRegistry struct {
	mu       sync.RWMutex
	tasks    map[string]*model.ScanTask
	cancels  map[string]context.CancelFunc
	order    []string // 按创建先后排列的任务ID
	capacity int
}

// NewTaskRegistry 创建任务注册表
func NewTaskRegistry(capacity int) *TaskRegistry {
	if capacity <= 0 {
		capacity = 50
	}
	return &TaskRegistry{
		tasks:    make(map[string]*model.ScanTask),
		cancels:  make(map[string]context.CancelFunc),
		capacity: capacity,
	}
}

// Create 注册一个 pending 状态的新任务并返回其快照
func (r *TaskRegistry) Create(req model.ScanRequest) model.ScanTask {
	task := &model.ScanTask{
		TaskID:    uuid.NewString(),
		Request:   req,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.TaskID] = task
	r.order = append(r.order, task.TaskID)
	r.evictLocked()

	return snapshot(task)
}

// Get 返回任务快照，不存在时第二个返回值为 false。
// 非阻塞读取，轮询间隔由调用方决定
func (r *TaskRegistry) Get(taskID string) (model.ScanTask, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return model.ScanTask{}, false
	}
	return snapshot(task), true
}

// ListRecent 按创建时间倒序返回最近的任务快照
func (r *TaskRegistry) ListRecent(limit int) []model.ScanTask {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.order) {
		limit = len(r.order)
	}

	results := make([]model.ScanTask, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(results) < limit; i-- {
		if task, ok := r.tasks[r.order[i]]; ok {
			results = append(results, snapshot(task))
		}
	}
	return results
}

// Update 在注册表锁内修改任务，仅供任务的编排器调用（单写入方约束）
func (r *TaskRegistry) Update(taskID string, fn func(*model.ScanTask)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task, ok := r.tasks[taskID]; ok {
		fn(task)
	}
}

// RegisterCancel 登记任务的取消函数
func (r *TaskRegistry) RegisterCancel(taskID string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels[taskID] = cancel
}

// Cancel 请求取消任务。取消是协作式的：编排器在文件之间检查取消标记，
// 已写入的记录保持不变。任务不存在或已终止时返回 false
func (r *TaskRegistry) Cancel(taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok || task.Status.IsTerminal() {
		return false
	}
	if cancel, ok := r.cancels[taskID]; ok {
		cancel()
		return true
	}
	return false
}

// releaseCancel 任务终止后清理取消函数
func (r *TaskRegistry) releaseCancel(taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cancels, taskID)
}

// evictLocked 容量超限时淘汰最早的终止态任务，调用方需持有写锁
func (r *TaskRegistry) evictLocked() {
	for len(r.order) > r.capacity {
		evicted := false
		for i, id := range r.order {
			task, ok := r.tasks[id]
			if !ok || task.Status.IsTerminal() {
				delete(r.tasks, id)
				delete(r.cancels, id)
				r.order = append(r.order[:i], r.order[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			// 全部在运行中，允许暂时超限
			return
		}
	}
}

// snapshot 深拷贝任务，避免观察者看到半写状态或共享内部指针
func snapshot(task *model.ScanTask) model.ScanTask {
	copied := *task
	if task.TotalFiles != nil {
		total := *task.TotalFiles
		copied.TotalFiles = &total
	}
	if task.FinishedAt != nil {
		finished := *task.FinishedAt
		copied.FinishedAt = &finished
	}
	copied.Request.Roots = append([]string(nil), task.Request.Roots...)
	return copied
}
