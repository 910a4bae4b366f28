package analyzer

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterShrinksAfterSuccesses(t *testing.T) {
	limiter := NewAdaptiveRateLimiter(time.Second)

	for i := 0; i < 11; i++ {
		limiter.Adjust(true)
	}

	if got := limiter.Delay(); got >= time.Second {
		t.Errorf("连续成功后延迟应缩短，实际 %v", got)
	}
}

func TestRateLimiterGrowsOnErrors(t *testing.T) {
	limiter := NewAdaptiveRateLimiter(time.Second)

	limiter.Adjust(false)
	after1 := limiter.Delay()
	if after1 <= time.Second {
		t.Errorf("失败后延迟应增大，实际 %v", after1)
	}

	// 连续第三次失败后增幅更大
	limiter.Adjust(false)
	limiter.Adjust(false)
	after3 := limiter.Delay()
	if after3 <= after1 {
		t.Errorf("连续失败后延迟应继续增大: %v -> %v", after1, after3)
	}
}

func TestRateLimiterClampsToMax(t *testing.T) {
	limiter := NewAdaptiveRateLimiter(50 * time.Second)

	for i := 0; i < 10; i++ {
		limiter.Adjust(false)
	}

	if got := limiter.Delay(); got > 60*time.Second {
		t.Errorf("延迟不应超过上限 60s，实际 %v", got)
	}
}

func TestRateLimiterClampsToMin(t *testing.T) {
	limiter := NewAdaptiveRateLimiter(150 * time.Millisecond)

	for i := 0; i < 200; i++ {
		limiter.Adjust(true)
	}

	if got := limiter.Delay(); got < 100*time.Millisecond {
		t.Errorf("延迟不应低于下限 100ms，实际 %v", got)
	}
}

func TestRateLimiterSuccessResetsErrorStreak(t *testing.T) {
	limiter := NewAdaptiveRateLimiter(time.Second)

	limiter.Adjust(false)
	limiter.Adjust(false)
	limiter.Adjust(true)
	before := limiter.Delay()

	// 成功打断连败，下一次失败按普通增幅
	limiter.Adjust(false)
	expected := time.Duration(float64(before) * 1.2)
	if got := limiter.Delay(); got != expected {
		t.Errorf("成功后首次失败应为普通增幅: 期望 %v，实际 %v", expected, got)
	}
}

func TestRateLimiterWaitCancellable(t *testing.T) {
	limiter := NewAdaptiveRateLimiter(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("取消上下文后 Wait 应返回错误")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("取消后应立即返回，实际等待 %v", elapsed)
	}
}
