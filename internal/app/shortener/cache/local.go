package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"linkcut.local/internal/app/shortener"
)

// negativeEntry 标记 L1 里“确认不存在”的短码
type negativeEntry struct{}

// LocalCache 是进程内 L1，TTL 比 Redis 短，多实例之间的不一致窗口有限
type LocalCache struct {
	cache    *ristretto.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

// NewLocalCache maxItems 按条目数限制容量（每条 cost=1）
func NewLocalCache(maxItems int64) (*LocalCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &LocalCache{
		cache:    c,
		ttl:      time.Minute,
		emptyTTL: 10 * time.Second,
	}, nil
}

// Get 返回缓存状态；Miss 时 URL 为零值
func (l *LocalCache) Get(code string) (shortener.URL, State) {
	v, ok := l.cache.Get(code)
	if !ok {
		return shortener.URL{}, Miss
	}
	switch rec := v.(type) {
	case shortener.URL:
		return rec, Hit
	case negativeEntry:
		return shortener.URL{}, Negative
	}
	return shortener.URL{}, Miss
}

func (l *LocalCache) Set(u shortener.URL) {
	l.cache.SetWithTTL(u.Code, u, 1, l.ttl)
}

func (l *LocalCache) SetNotFound(code string) {
	l.cache.SetWithTTL(code, negativeEntry{}, 1, l.emptyTTL)
}

// Del 先等缓冲里的 Set 落地再删，否则删掉的记录会被排队中的旧 Set 写回来
func (l *LocalCache) Del(code string) {
	l.cache.Wait()
	l.cache.Del(code)
}

// Wait 等待写缓冲落盘，ristretto 的 Set 是异步的
func (l *LocalCache) Wait() {
	l.cache.Wait()
}

func (l *LocalCache) Close() {
	l.cache.Close()
}
