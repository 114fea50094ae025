package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ==================== ClientRateLimiter 客户端限流器 ====================

// ClientRateLimiter 按客户端维度的令牌桶限流
// 用于登录接口，限制单个 IP 的密码尝试频率
type ClientRateLimiter struct {
	limit   rate.Limit
	burst   int
	now     func() time.Time
	clients sync.Map // key -> *clientEntry
}

// clientEntry 单个客户端的令牌桶
type clientEntry struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter 创建限流器
// perMinute: 每分钟补充的令牌数；burst: 桶容量
func NewClientRateLimiter(perMinute, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{
		limit: rate.Limit(float64(perMinute) / 60),
		burst: burst,
		now:   time.Now,
	}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 建议等待时间
}

// Check 消耗一个令牌
func (l *ClientRateLimiter) Check(key string) CheckResult {
	actual, _ := l.clients.LoadOrStore(key, &clientEntry{
		limiter: rate.NewLimiter(l.limit, l.burst),
	})
	entry := actual.(*clientEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := l.now()
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return CheckResult{Allowed: false, RetryAfter: time.Minute}
	}
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		// 不等待，直接拒绝并归还令牌
		reservation.CancelAt(now)
		return CheckResult{Allowed: false, RetryAfter: delay}
	}
	return CheckResult{Allowed: true}
}

// Sweep 清理超过 idle 未出现的客户端，返回清理数量
func (l *ClientRateLimiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	removed := 0
	l.clients.Range(func(key, value any) bool {
		entry := value.(*clientEntry)
		entry.mu.Lock()
		stale := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()
		if stale {
			l.clients.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Size 当前跟踪的客户端数量
func (l *ClientRateLimiter) Size() int {
	n := 0
	l.clients.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ==================== Gin 中间件 ====================

// RateLimit 按客户端 IP 限流
func (l *ClientRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := l.Check(c.ClientIP())
		if !result.Allowed {
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				ErrorBody(c, http.StatusTooManyRequests, "Too many requests, retry later"))
			return
		}
		c.Next()
	}
}
