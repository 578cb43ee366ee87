package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: upstream, validation, favorites, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNetworkTimeout   = "NETWORK_TIMEOUT"
	ErrCodeRateLimited      = "UPSTREAM_RATE_LIMITED"
	ErrCodeUpstreamError    = "UPSTREAM_ERROR"
	ErrCodeDecodeError      = "DECODE_ERROR"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidDate      = "INVALID_DATE"
	ErrCodeInvalidParam     = "INVALID_PARAM"
)

// FetchErrorKind はフェッチ層の失敗種別を表す。
type FetchErrorKind string

const (
	// FetchKindTimeout はHTTPタイムアウトまたはコンテキスト期限切れ。
	FetchKindTimeout FetchErrorKind = "network_timeout"
	// FetchKindRateLimited は上流APIのレート制限（HTTP 429）。
	FetchKindRateLimited FetchErrorKind = "upstream_rate_limited"
	// FetchKindUpstream は429以外の非2xxレスポンス。
	FetchKindUpstream FetchErrorKind = "upstream_error"
	// FetchKindDecode はレスポンスの読み取り・パース失敗。
	FetchKindDecode FetchErrorKind = "decode_error"
)

// FetchError は上流APIフェッチの型付き失敗を表す。
// フェッチ層は非構造化エラーをハンドラー層に伝播させず、必ずこの型に翻訳する。
type FetchError struct {
	Kind       FetchErrorKind
	API        string // apod, images, eonet, neo, news
	HTTPStatus int    // レスポンスが得られなかった場合は0
	Err        error  // 原因（ない場合はnil）
}

// Error はerrorインターフェースを実装する。
func (e *FetchError) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s API %s (status %d)", e.API, e.Kind, e.HTTPStatus)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s API %s: %v", e.API, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s API %s", e.API, e.Kind)
}

// Unwrap は原因エラーを返す。
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewTimeoutError はタイムアウトのFetchErrorを生成する。
func NewTimeoutError(api string, err error) *FetchError {
	return &FetchError{Kind: FetchKindTimeout, API: api, Err: err}
}

// NewRateLimitedError はレート制限（429）のFetchErrorを生成する。
func NewRateLimitedError(api string) *FetchError {
	return &FetchError{Kind: FetchKindRateLimited, API: api, HTTPStatus: 429}
}

// NewUpstreamError は非2xxレスポンスのFetchErrorを生成する。
func NewUpstreamError(api string, status int) *FetchError {
	return &FetchError{Kind: FetchKindUpstream, API: api, HTTPStatus: status}
}

// NewDecodeError はレスポンス解析失敗のFetchErrorを生成する。
func NewDecodeError(api string, err error) *FetchError {
	return &FetchError{Kind: FetchKindDecode, API: api, Err: err}
}

// AsFetchError はエラーチェーンからFetchErrorを取り出す。
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ストア層のセンチネルエラー
var (
	// ErrStoreUnavailable はストアが未設定または到達不能であることを示す。
	// お気に入り機能のみ無効化され、プロセスは稼働を続ける。
	ErrStoreUnavailable = errors.New("お気に入りストアが利用できません")

	// ErrNotFound は対象レコードが存在しないことを示す。
	ErrNotFound = errors.New("レコードが見つかりません")
)
