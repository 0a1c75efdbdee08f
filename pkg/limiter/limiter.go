// Package limiter provides token bucket rate limiting keyed by request attributes
// Package limiter 提供按请求属性分桶的令牌桶限流
package limiter

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face limiter interface
// Face 限流器接口
type Face interface {
	// Key derives the bucket key from the request
	// Key 从请求推导桶的键
	Key(c *gin.Context) string
	// GetBucket returns the bucket for a key
	// GetBucket 返回指定键的桶
	GetBucket(key string) (*ratelimit.Bucket, bool)
	// AddBuckets registers buckets
	// AddBuckets 注册桶
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule bucket registration rule
// BucketRule 桶的注册规则
type BucketRule struct {
	// Key bucket key, for MethodLimiter it is the request path
	// Key 桶的键，对 MethodLimiter 而言是请求路径
	Key string
	// FillInterval token fill interval
	// FillInterval 令牌填充间隔
	FillInterval time.Duration
	// Capacity bucket capacity
	// Capacity 桶容量
	Capacity int64
	// Quantum tokens added per interval
	// Quantum 每次填充的令牌数
	Quantum int64
}

// Limiter base limiter holding registered buckets
// Limiter 基础限流器，持有已注册的桶
type Limiter struct {
	limiterBuckets map[string]*ratelimit.Bucket
}
