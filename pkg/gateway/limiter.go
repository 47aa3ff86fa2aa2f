package gateway

import (
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter 控制请求速率，避免触发索引器限流。
type RateLimiter interface {
	Wait()
}

// TokenBucketLimiter 基于 x/time/rate 的令牌桶，Wait 在令牌不足时阻塞调用方。
type TokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewTokenBucketLimiter 创建令牌桶；ratePerSec 必须 > 0，burst <= 0 时按 1 处理。
func NewTokenBucketLimiter(ratePerSec float64, burst int) (*TokenBucketLimiter, error) {
	if ratePerSec <= 0 {
		return nil, newConfigurationError(nil, "rate limit must be > 0, got %v", ratePerSec)
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucketLimiter{limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst)}, nil
}

func (l *TokenBucketLimiter) Wait() {
	r := l.limiter.Reserve()
	if d := r.Delay(); d > 0 {
		time.Sleep(d)
	}
}
