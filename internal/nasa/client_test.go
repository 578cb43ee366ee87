package nasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/skygazer/internal/model"
)

// recordingObserver は上流呼び出しの記録を保持するテスト用Observer。
type recordingObserver struct {
	mu        sync.Mutex
	requests  []error
	latencies []time.Duration
}

func (o *recordingObserver) RecordUpstreamRequest(api string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, err)
}

func (o *recordingObserver) RecordUpstreamLatency(api string, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.latencies = append(o.latencies, d)
}

func TestGetBytes_BodyReadFailureIsDecodeErrorAndObserved(t *testing.T) {
	// Content-Lengthより短いボディを返すとサーバーが接続を切断し、
	// クライアント側のボディ読み取りが途中で失敗する
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.Write([]byte("short"))
	}))
	t.Cleanup(server.Close)

	obs := &recordingObserver{}
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(nil) })

	_, err := getBytes(context.Background(), server.Client(), "apod", server.URL, nil, 2*time.Second)

	fe, ok := model.AsFetchError(err)
	if !ok {
		t.Fatalf("error = %v, FetchErrorでない", err)
	}
	if fe.Kind != model.FetchKindDecode {
		t.Errorf("Kind = %q, want %q", fe.Kind, model.FetchKindDecode)
	}

	// ボディ読み取りの失敗もObserverに失敗として記録されること
	if len(obs.requests) != 1 {
		t.Fatalf("記録されたリクエスト数 = %d, want 1", len(obs.requests))
	}
	if obs.requests[0] == nil {
		t.Error("Observerに記録されたerr = nil, want 読み取りエラー")
	}
	if len(obs.latencies) != 1 {
		t.Errorf("記録されたレイテンシ数 = %d, want 1", len(obs.latencies))
	}
}

func TestGetBytes_SuccessIsObservedWithNilError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(server.Close)

	obs := &recordingObserver{}
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(nil) })

	body, err := getBytes(context.Background(), server.Client(), "apod", server.URL, nil, 2*time.Second)
	if err != nil {
		t.Fatalf("getBytes() error = %v", err)
	}
	if string(body) != `{"ok": true}` {
		t.Errorf("body = %q, want %q", body, `{"ok": true}`)
	}

	if len(obs.requests) != 1 {
		t.Fatalf("記録されたリクエスト数 = %d, want 1", len(obs.requests))
	}
	if obs.requests[0] != nil {
		t.Errorf("Observerに記録されたerr = %v, want nil", obs.requests[0])
	}
}
