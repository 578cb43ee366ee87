package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/skygazer/internal/model"
)

// NewsServiceInterface はニュースハンドラーが必要とするサービスインターフェース。
type NewsServiceInterface interface {
	// Latest はNASAの最新ニュースを返す。
	Latest(ctx context.Context) ([]model.NewsItem, error)
}

// NewsHandler はNASAニュースフィードのHTTPハンドラー。
type NewsHandler struct {
	service NewsServiceInterface
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service NewsServiceInterface) *NewsHandler {
	return &NewsHandler{service: service}
}

// Latest は最新ニュース一覧を取得する。
// GET /api/news
func (h *NewsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Latest(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
