// Package nasa はNASA公開データAPIのクライアント群を提供する。
// APOD（今日の天文写真）、Images & Video Library（メディア検索）、
// EONET（自然イベント）、NeoWs（地球近傍天体）の4つのAPIと、
// 速報RSSフィードをカバーする。
//
// 全クライアントは呼び出しごとに明示的なタイムアウトを適用し、
// 失敗を型付きのmodel.FetchErrorに翻訳する。非構造化エラーを
// ハンドラー層へ伝播させることはない。
package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/skygazer/internal/model"
)

// maxResponseSize はレスポンスボディの最大読み取りサイズ。
// NeoWsのfeedレスポンスは数MBに達することがある。
const maxResponseSize = 20 * 1024 * 1024

// userAgent は全上流リクエストに付与するUser-Agentヘッダー。
const userAgent = "Skygazer/1.0 NASA open-data explorer"

// UpstreamObserver は上流API呼び出しの結果とレイテンシの通知先インターフェース。
// メトリクス収集用。未設定の場合は通知しない。
type UpstreamObserver interface {
	RecordUpstreamRequest(api string, err error)
	RecordUpstreamLatency(api string, duration time.Duration)
}

// observer はパッケージ共通の通知先。起動時に1回だけ設定する。
var observer UpstreamObserver

// SetObserver は上流呼び出しの通知先を設定する。
func SetObserver(o UpstreamObserver) {
	observer = o
}

// observeRequest は1回の上流呼び出しを通知先に記録する。
func observeRequest(api string, start time.Time, err error) {
	if observer == nil {
		return
	}
	observer.RecordUpstreamRequest(api, err)
	observer.RecordUpstreamLatency(api, time.Since(start))
}

// getJSON はGETリクエストを実行し、レスポンスJSONをoutにデコードする。
// 呼び出しごとにtimeoutのコンテキスト期限を適用する。
// 失敗はすべてmodel.FetchErrorに翻訳される:
//   - タイムアウト → FetchKindTimeout
//   - HTTP 429 → FetchKindRateLimited
//   - その他の非2xx → FetchKindUpstream（ステータスコード付き）
//   - ボディ読み取り・JSONパース失敗 → FetchKindDecode
func getJSON(ctx context.Context, client *http.Client, api, endpoint string, params url.Values, timeout time.Duration, out any) error {
	body, err := getBytes(ctx, client, api, endpoint, params, timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return model.NewDecodeError(api, err)
	}
	return nil
}

// getBytes はGETリクエストを実行し、レスポンスボディを返す。
// エラー翻訳の規則はgetJSONと同じ。
func getBytes(ctx context.Context, client *http.Client, api, endpoint string, params url.Values, timeout time.Duration) (body []byte, err error) {
	start := time.Now()
	defer func() { observeRequest(api, start, err) }()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &model.FetchError{Kind: model.FetchKindUpstream, API: api, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, model.NewTimeoutError(api, err)
		}
		return nil, &model.FetchError{Kind: model.FetchKindUpstream, API: api, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, model.NewRateLimitedError(api)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewUpstreamError(api, resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return nil, model.NewTimeoutError(api, err)
		}
		return nil, model.NewDecodeError(api, err)
	}

	return body, nil
}

// isTimeout はエラーがタイムアウト起因かを判定する。
// コンテキスト期限切れとnet.ErrorのTimeoutの両方を検出する。
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
