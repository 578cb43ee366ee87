// Package cache は呼び出しシグネチャをキーとする結果キャッシュを提供する。
// 上流APIレスポンスのメモ化（TTL付き）と、プロセス内で1つだけ保持する
// リソースハンドル（DB接続など）のスロットの2種類を含む。
package cache

import (
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Observer はキャッシュのヒット・ミスの通知先インターフェース。
// メトリクス収集用。未設定の場合は通知しない。
type Observer interface {
	RecordCacheHit()
	RecordCacheMiss()
}

// entry はキャッシュエントリ1件分。
type entry struct {
	value     any
	expiresAt time.Time // ゼロ値は無期限
}

// Cache はTTL付きの結果キャッシュ。
// 同一キーはTTL内であれば常に同じ保存値を返す。
// computeの失敗は呼び出し元へ伝播し、キャッシュには何も保存しない。
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]entry
	now      func() time.Time
	sf       singleflight.Group
	observer Observer
}

// New はシステムクロックを使用するCacheを生成する。
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock は指定クロックを使用するCacheを生成する。
// TTLのテストでフェイククロックを注入するために使用する。
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     now,
	}
}

// SetObserver はヒット・ミスの通知先を設定する。
func (c *Cache) SetObserver(o Observer) {
	c.observer = o
}

// Key は操作名と正規化済みパラメータからキャッシュキーを構築する。
// url.Values.Encodeがキーをソートするため、パラメータの列挙順に依存しない。
func Key(op string, params map[string]string) string {
	if len(params) == 0 {
		return op
	}
	v := url.Values{}
	for k, val := range params {
		v.Set(k, val)
	}
	return op + "?" + v.Encode()
}

// GetOrCompute はキーに対応する値を返す。
// ミス時のみcomputeを呼び出し、成功した結果をTTL付きで保存する。
// computeが失敗した場合はエラーを伝播し、何も保存しない。
// 同一キーへの同時リクエストはsingleflightで1回の計算にまとめる。
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		if c.observer != nil {
			c.observer.RecordCacheHit()
		}
		return v, nil
	}
	if c.observer != nil {
		c.observer.RecordCacheMiss()
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		// singleflight待機中に先行リクエストが保存した値を拾う
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.store(key, v, ttl)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Invalidate は指定キーのエントリを削除する。
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len は有効期限切れを含む現在のエントリ数を返す。
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !ent.expiresAt.IsZero() && !c.now().Before(ent.expiresAt) {
		// 期限切れエントリは読み取り時に破棄する
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(ent.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return ent.value, true
}

func (c *Cache) store(key string, value any, ttl time.Duration) {
	ent := entry{value: value}
	if ttl > 0 {
		ent.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = ent
	c.mu.Unlock()
}

// GetOrCompute はCache.GetOrComputeの型付きラッパー。
// 呼び出し側での型アサーションを不要にする。
func GetOrCompute[T any](c *Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	v, err := c.GetOrCompute(key, ttl, func() (any, error) {
		return compute()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
