package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/skygazer/internal/model"
)

// GalleryServiceInterface はギャラリーハンドラーが必要とするサービスインターフェース。
type GalleryServiceInterface interface {
	// Search はNASA Image and Video Libraryを検索する。
	Search(ctx context.Context, query, mediaType string) (*model.MediaSearchResult, error)
}

// GalleryHandler はメディア検索のHTTPハンドラー。
type GalleryHandler struct {
	service GalleryServiceInterface
}

// NewGalleryHandler はGalleryHandlerを生成する。
func NewGalleryHandler(service GalleryServiceInterface) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// Search はキーワードでメディアを検索する。
// GET /api/gallery?q=keyword&media_type=image|video|audio
func (h *GalleryHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeInvalidParamError(w, "検索キーワードqを指定してください。")
		return
	}

	mediaType := r.URL.Query().Get("media_type")
	switch mediaType {
	case "", "image", "video", "audio":
	default:
		writeInvalidParamError(w, "media_typeはimage、video、audioのいずれかで指定してください。")
		return
	}

	result, err := h.service.Search(r.Context(), query, mediaType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
