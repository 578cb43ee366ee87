package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/skygazer/internal/favorite"
	"github.com/hitoshi/skygazer/internal/middleware"
	"github.com/hitoshi/skygazer/internal/model"
)

// FavoriteServiceInterface はお気に入りハンドラーが必要とするサービスインターフェース。
type FavoriteServiceInterface interface {
	// Save はAPODをお気に入りに保存する。同一日付への再保存は上書き。
	Save(ctx context.Context, userID string, item *model.Apod) (favorite.SaveResult, error)
	// List はユーザーのお気に入り一覧を保存日時の新しい順で返す。
	List(ctx context.Context, userID string) ([]*model.FavoriteRecord, error)
	// Remove は指定日のお気に入りを削除する。
	Remove(ctx context.Context, userID string, apodDate time.Time) error
}

// FavoriteHandler はお気に入り管理のHTTPハンドラー。
type FavoriteHandler struct {
	service FavoriteServiceInterface
}

// NewFavoriteHandler はFavoriteHandlerを生成する。
func NewFavoriteHandler(service FavoriteServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// saveFavoriteRequest はお気に入り保存リクエストのボディ。
// APOD APIのレスポンスをそのまま受け取る。
type saveFavoriteRequest struct {
	Date         string `json:"date"`
	Title        string `json:"title"`
	Explanation  string `json:"explanation"`
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	HDURL        string `json:"hdurl"`
	ThumbnailURL string `json:"thumbnail_url"`
	Copyright    string `json:"copyright"`
}

// saveFavoriteResponse はお気に入り保存のレスポンス。
type saveFavoriteResponse struct {
	Result   string `json:"result"` // created または replaced
	ApodDate string `json:"apod_date"`
}

// favoriteResponse はお気に入り1件分のレスポンス。
type favoriteResponse struct {
	ID           string    `json:"id"`
	ApodDate     string    `json:"apod_date"`
	Title        string    `json:"title"`
	Explanation  string    `json:"explanation,omitempty"`
	MediaType    string    `json:"media_type"`
	URL          string    `json:"url,omitempty"`
	HDURL        string    `json:"hdurl,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Copyright    string    `json:"copyright,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// favoriteListResponse はお気に入り一覧のレスポンス。
type favoriteListResponse struct {
	Favorites []favoriteResponse `json:"favorites"`
	Total     int                `json:"total"`
}

// Save はAPODをお気に入りに保存する。
// POST /api/favorites
// 同一 (client_id, apod_date) への再保存は上書きとなり、200を返す。
// 新規保存は201を返す。
func (h *FavoriteHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ClientIDFromContext(r.Context())
	if err != nil {
		writeClientIDError(w)
		return
	}

	var req saveFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidParamError(w, "リクエストボディを解析できません。")
		return
	}

	if req.Date == "" || req.Title == "" {
		writeInvalidParamError(w, "dateとtitleは必須です。")
		return
	}
	if _, err := model.ParseAPODDate(req.Date); err != nil {
		writeInvalidDateError(w, req.Date)
		return
	}

	item := &model.Apod{
		Date:         req.Date,
		Title:        req.Title,
		Explanation:  req.Explanation,
		MediaType:    req.MediaType,
		URL:          req.URL,
		HDURL:        req.HDURL,
		ThumbnailURL: req.ThumbnailURL,
		Copyright:    req.Copyright,
	}

	result, err := h.service.Save(r.Context(), userID, item)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	statusCode := http.StatusOK
	if result == favorite.SaveCreated {
		statusCode = http.StatusCreated
	}

	writeJSON(w, statusCode, saveFavoriteResponse{
		Result:   string(result),
		ApodDate: req.Date,
	})
}

// List はお気に入り一覧を保存日時の新しい順で取得する。
// GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ClientIDFromContext(r.Context())
	if err != nil {
		writeClientIDError(w)
		return
	}

	records, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	favorites := make([]favoriteResponse, len(records))
	for i, rec := range records {
		favorites[i] = toFavoriteResponse(rec)
	}

	writeJSON(w, http.StatusOK, favoriteListResponse{
		Favorites: favorites,
		Total:     len(favorites),
	})
}

// Remove は指定日のお気に入りを削除する。
// DELETE /api/favorites/{date}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ClientIDFromContext(r.Context())
	if err != nil {
		writeClientIDError(w)
		return
	}

	dateStr := chi.URLParam(r, "date")
	date, err := model.ParseAPODDate(dateStr)
	if err != nil {
		writeInvalidDateError(w, dateStr)
		return
	}

	if err := h.service.Remove(r.Context(), userID, date); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toFavoriteResponse はFavoriteRecordをレスポンス型に変換する。
func toFavoriteResponse(rec *model.FavoriteRecord) favoriteResponse {
	return favoriteResponse{
		ID:           rec.ID,
		ApodDate:     rec.DateString(),
		Title:        rec.Title,
		Explanation:  rec.Explanation,
		MediaType:    rec.MediaType,
		URL:          rec.URL,
		HDURL:        rec.HDURL,
		ThumbnailURL: rec.ThumbnailURL,
		Copyright:    rec.Copyright,
		SavedAt:      rec.SavedAt,
	}
}

// writeClientIDError はクライアントIDが欠落した場合の400レスポンスを書き込む。
// クライアントIDミドルウェアの後段では通常発生しない。
func writeClientIDError(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidParam,
		Message:  "クライアントIDが特定できません。",
		Category: "validation",
		Action:   "Cookieを有効にして再度お試しください。",
	})
}
