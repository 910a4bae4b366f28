package service

import (
	"context"
	"fmt"
	"testing"

	"photo-hub/app/model"
)

func newRequest() model.ScanRequest {
	return model.ScanRequest{Roots: []string{"/photos"}, Recursive: true, SkipExisting: true}
}

func TestRegistryCreateAndGet(t *testing.T) {
	registry := NewTaskRegistry(10)

	task := registry.Create(newRequest())
	if task.TaskID == "" {
		t.Fatal("任务ID不应为空")
	}
	if task.Status != model.TaskStatusPending {
		t.Errorf("新任务状态应为 pending，实际 %s", task.Status)
	}

	got, ok := registry.Get(task.TaskID)
	if !ok {
		t.Fatal("Get() 未找到刚创建的任务")
	}
	if got.TaskID != task.TaskID {
		t.Errorf("TaskID 不一致: %s vs %s", got.TaskID, task.TaskID)
	}

	if _, ok := registry.Get("no-such-task"); ok {
		t.Error("不存在的任务不应命中")
	}
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	registry := NewTaskRegistry(10)
	task := registry.Create(newRequest())

	snap, _ := registry.Get(task.TaskID)
	snap.Status = model.TaskStatusError
	snap.ProcessedFiles = 99

	fresh, _ := registry.Get(task.TaskID)
	if fresh.Status != model.TaskStatusPending || fresh.ProcessedFiles != 0 {
		t.Error("修改快照不应影响注册表内的任务")
	}
}

func TestRegistryListRecent(t *testing.T) {
	registry := NewTaskRegistry(10)

	var ids []string
	for i := 0; i < 5; i++ {
		task := registry.Create(newRequest())
		ids = append(ids, task.TaskID)
	}

	recent := registry.ListRecent(3)
	if len(recent) != 3 {
		t.Fatalf("期望 3 条，实际 %d 条", len(recent))
	}
	// 最近创建的排在最前
	for i := 0; i < 3; i++ {
		want := ids[len(ids)-1-i]
		if recent[i].TaskID != want {
			t.Errorf("第 %d 条应为 %s，实际 %s", i, want, recent[i].TaskID)
		}
	}
}

func TestRegistryEvictsOldestTerminal(t *testing.T) {
	registry := NewTaskRegistry(3)

	first := registry.Create(newRequest())
	registry.Update(first.TaskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusCompleted
	})

	second := registry.Create(newRequest())
	registry.Update(second.TaskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusCompleted
	})

	registry.Create(newRequest())
	registry.Create(newRequest()) // 超出容量，应淘汰 first

	if _, ok := registry.Get(first.TaskID); ok {
		t.Error("最早的终止态任务应被淘汰")
	}
	if _, ok := registry.Get(second.TaskID); !ok {
		t.Error("次早的任务不应被淘汰")
	}
}

func TestRegistryNeverEvictsRunning(t *testing.T) {
	registry := NewTaskRegistry(2)

	var running []string
	for i := 0; i < 4; i++ {
		task := registry.Create(newRequest())
		registry.Update(task.TaskID, func(t *model.ScanTask) {
			t.Status = model.TaskStatusAnalyzing
		})
		running = append(running, task.TaskID)
	}

	for i, id := range running {
		if _, ok := registry.Get(id); !ok {
			t.Errorf("运行中的任务 %d 不应被淘汰", i)
		}
	}
}

func TestRegistryCancel(t *testing.T) {
	registry := NewTaskRegistry(10)
	task := registry.Create(newRequest())

	cancelled := false
	_, cancel := context.WithCancel(context.Background())
	registry.RegisterCancel(task.TaskID, func() {
		cancelled = true
		cancel()
	})

	if !registry.Cancel(task.TaskID) {
		t.Fatal("取消运行中的任务应返回 true")
	}
	if !cancelled {
		t.Error("取消函数未被调用")
	}

	// 终止态任务不可再取消
	registry.Update(task.TaskID, func(t *model.ScanTask) {
		t.Status = model.TaskStatusCancelled
	})
	if registry.Cancel(task.TaskID) {
		t.Error("终止态任务不应再被取消")
	}

	if registry.Cancel("no-such-task") {
		t.Error("不存在的任务取消应返回 false")
	}
}

func TestRegistryListRecentDefaultLimit(t *testing.T) {
	registry := NewTaskRegistry(10)
	for i := 0; i < 4; i++ {
		registry.Create(newRequest())
	}

	all := registry.ListRecent(0)
	if len(all) != 4 {
		t.Errorf("limit<=0 时应返回全部 %d 条，实际 %d 条", 4, len(all))
	}
}

func TestRegistryCapacityFallback(t *testing.T) {
	registry := NewTaskRegistry(-1)
	for i := 0; i < 5; i++ {
		registry.Create(model.ScanRequest{Roots: []string{fmt.Sprintf("/photos/%d", i)}})
	}
	if len(registry.ListRecent(0)) != 5 {
		t.Error("非法容量应回落到默认值并保留任务")
	}
}
