package analyzer

import (
	"context"
	"sync"
	"time"
)

// AdaptiveRateLimiter 根据调用结果自适应调整请求间隔。
// 连续成功时逐步缩短延迟，连续失败时加大延迟，用于贴合服务端限流
type AdaptiveRateLimiter struct {
	mu                sync.Mutex
	delay             time.Duration
	minDelay          time.Duration
	maxDelay          time.Duration
	successCount      int
	consecutiveErrors int
}

// NewAdaptiveRateLimiter 创建自适应限流器
func NewAdaptiveRateLimiter(initialDelay time.Duration) *AdaptiveRateLimiter {
	if initialDelay <= 0 {
		initialDelay = time.Second
	}
	return &AdaptiveRateLimiter{
		delay:    initialDelay,
		minDelay: 100 * time.Millisecond,
		maxDelay: 60 * time.Second,
	}
}

// Wait 等待当前延迟时长，上下文取消时提前返回
func (r *AdaptiveRateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	delay := r.delay
	r.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Adjust 根据调用结果调整延迟
func (r *AdaptiveRateLimiter) Adjust(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if success {
		r.successCount++
		r.consecutiveErrors = 0
		if r.successCount > 10 {
			r.delay = maxDuration(r.minDelay, time.Duration(float64(r.delay)*0.9))
			r.successCount = 0
		}
		return
	}

	r.consecutiveErrors++
	r.successCount = 0
	if r.consecutiveErrors > 2 {
		r.delay = minDuration(r.maxDelay, time.Duration(float64(r.delay)*1.5))
	} else {
		r.delay = minDuration(r.maxDelay, time.Duration(float64(r.delay)*1.2))
	}
}

// Delay 当前延迟时长
func (r *AdaptiveRateLimiter) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delay
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
