// Package handler はHTTP APIのハンドラー層を提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/skygazer/internal/model"
)

// apiErrorResponse はAPIエラーレスポンスのJSON構造。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// フェッチ層のFetchErrorはHTTPステータスと統一エラーフォーマットにマッピングされる。
func handleServiceError(w http.ResponseWriter, err error) {
	if fe, ok := model.AsFetchError(err); ok {
		writeAPIErrorResponse(w, mapFetchErrorToHTTPStatus(fe), fetchErrorToAPIError(fe))
		return
	}

	if errors.Is(err, model.ErrStoreUnavailable) {
		writeAPIErrorResponse(w, http.StatusServiceUnavailable, &model.APIError{
			Code:     model.ErrCodeStoreUnavailable,
			Message:  "お気に入りストアが利用できません。",
			Category: "favorites",
			Action:   "お気に入り以外の機能は引き続き利用できます。",
		})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
			Code:     model.ErrCodeNotFound,
			Message:  "対象のレコードが見つかりません。",
			Category: "favorites",
			Action:   "保存済みのお気に入り一覧を確認してください。",
		})
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	// 上記以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapFetchErrorToHTTPStatus はフェッチ失敗種別からHTTPステータスコードにマッピングする。
// タイムアウトは504、上流レート制限は429、それ以外の上流起因は502を返す。
func mapFetchErrorToHTTPStatus(fe *model.FetchError) int {
	switch fe.Kind {
	case model.FetchKindTimeout:
		return http.StatusGatewayTimeout
	case model.FetchKindRateLimited:
		return http.StatusTooManyRequests
	case model.FetchKindUpstream, model.FetchKindDecode:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// fetchErrorToAPIError はFetchErrorを統一エラーフォーマットに変換する。
func fetchErrorToAPIError(fe *model.FetchError) *model.APIError {
	switch fe.Kind {
	case model.FetchKindTimeout:
		return &model.APIError{
			Code:     model.ErrCodeNetworkTimeout,
			Message:  "NASA APIへの接続がタイムアウトしました。",
			Category: "upstream",
			Action:   "ネットワーク状況を確認し、しばらく待ってから再度お試しください。",
		}
	case model.FetchKindRateLimited:
		return &model.APIError{
			Code:     model.ErrCodeRateLimited,
			Message:  "NASA APIのレート制限に達しました。",
			Category: "upstream",
			Action:   "APIキーを設定するか、しばらく待ってから再度お試しください。",
		}
	case model.FetchKindDecode:
		return &model.APIError{
			Code:     model.ErrCodeDecodeError,
			Message:  "NASA APIのレスポンスを解析できませんでした。",
			Category: "upstream",
			Action:   "しばらく待ってから再度お試しください。",
		}
	default:
		return &model.APIError{
			Code:     model.ErrCodeUpstreamError,
			Message:  "NASA APIがエラーを返しました。",
			Category: "upstream",
			Action:   "しばらく待ってから再度お試しください。",
		}
	}
}

// writeInvalidDateError は日付パラメータ不正の400レスポンスを書き込む。
func writeInvalidDateError(w http.ResponseWriter, param string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidDate,
		Message:  "日付の形式が不正です: " + param,
		Category: "validation",
		Action:   "YYYY-MM-DD形式で指定してください。",
	})
}

// writeInvalidParamError はパラメータ不正の400レスポンスを書き込む。
func writeInvalidParamError(w http.ResponseWriter, message string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidParam,
		Message:  message,
		Category: "validation",
		Action:   "リクエストパラメータを確認してください。",
	})
}
