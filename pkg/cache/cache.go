// Package cache provides a thin wrapper around go-cache for list responses
// Package cache 提供面向列表响应的 go-cache 轻量包装
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Keys of the cached list payloads
// 列表缓存负载的键
const (
	KeyNoteList  = "note:all"
	KeyImageList = "image:all"
)

type Cache struct {
	store *gocache.Cache
}

// New creates a cache with the given default TTL
// Expired entries are purged at twice the TTL interval
// New 创建具有给定默认 TTL 的缓存
// 过期条目以两倍 TTL 的间隔清理
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = 60 * time.Second
	}
	return &Cache{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL
// Set 以默认 TTL 存储一个值
func (c *Cache) Set(key string, value interface{}) {
	c.store.SetDefault(key, value)
}

func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

func (c *Cache) Flush() {
	c.store.Flush()
}
