package cache

import "sync"

// Resource はプロセス内で1つだけ保持する遅延初期化リソースのスロット。
// DB接続のような生存期間の長いハンドルを、初回アクセス時に1回だけ生成して
// 再利用する。初期化の失敗は保持せず、次回アクセス時に再試行する。
// 明示的なReset以外で再生成されることはない。
type Resource[T any] struct {
	mu   sync.Mutex
	init func() (T, error)
	val  T
	live bool
}

// NewResource は初期化関数を指定してResourceを生成する。
// initはGetが最初に成功するまで呼び出されない。
func NewResource[T any](init func() (T, error)) *Resource[T] {
	return &Resource[T]{init: init}
}

// Get はリソースを返す。未生成の場合のみinitを呼び出す。
// 生成済みハンドルはプロセス生存期間中再利用される。
func (r *Resource[T]) Get() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.live {
		return r.val, nil
	}

	val, err := r.init()
	if err != nil {
		var zero T
		return zero, err
	}
	r.val = val
	r.live = true
	return r.val, nil
}

// Reset は保持中のリソースを破棄する。cleanupが指定され、かつ
// リソースが生成済みの場合はcleanupを呼び出してから破棄する。
// テストおよび明示的な再接続のためのフック。
func (r *Resource[T]) Reset(cleanup func(T)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.live && cleanup != nil {
		cleanup(r.val)
	}
	var zero T
	r.val = zero
	r.live = false
}
