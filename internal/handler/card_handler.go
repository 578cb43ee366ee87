package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/skygazer/internal/model"
	"github.com/hitoshi/skygazer/internal/sharecard"
)

// captionMaxRunes はカードに載せる解説文の最大文字数。
const captionMaxRunes = 220

// CardImageFetcher はカード背景画像の取得インターフェース。
type CardImageFetcher interface {
	// Fetch は検証済みURLから画像バイト列を取得する。
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// CardRenderer はシェアカードのレンダリングインターフェース。
type CardRenderer interface {
	// Render は1200×630のPNGバイト列を生成する。
	Render(in sharecard.CardInput) ([]byte, error)
}

// CardMetrics はカード生成のメトリクス記録インターフェース。
type CardMetrics interface {
	RecordCardRendered()
}

// CardHandler はAPODシェアカード生成のHTTPハンドラー。
type CardHandler struct {
	apodService APODServiceInterface
	fetcher     CardImageFetcher
	renderer    CardRenderer
	metrics     CardMetrics
	logger      *slog.Logger
	baseURL     string // 空の場合はリクエストのHostから導出
}

// NewCardHandler はCardHandlerを生成する。
// baseURLが空文字の場合、ディープリンクはリクエストのHostヘッダーから組み立てる。
func NewCardHandler(
	apodService APODServiceInterface,
	fetcher CardImageFetcher,
	renderer CardRenderer,
	metrics CardMetrics,
	logger *slog.Logger,
	baseURL string,
) *CardHandler {
	return &CardHandler{
		apodService: apodService,
		fetcher:     fetcher,
		renderer:    renderer,
		metrics:     metrics,
		logger:      logger,
		baseURL:     baseURL,
	}
}

// Render は指定日のAPODからシェアカードPNGを生成する。
// GET /api/apod/{date}/card
// 背景画像の取得・デコード失敗はフォールバックキャンバスに縮退し、
// カード自体の生成は失敗させない。
func (h *CardHandler) Render(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	date, err := model.ParseAPODDate(dateStr)
	if err != nil {
		writeInvalidDateError(w, dateStr)
		return
	}

	item, err := h.apodService.Get(r.Context(), date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 背景画像の取得失敗はフォールバックに縮退（backgroundはnilのまま）
	var background []byte
	if imageURL := item.BestImageURL(); imageURL != "" {
		background, err = h.fetcher.Fetch(r.Context(), imageURL)
		if err != nil {
			h.logger.Warn("card background fetch failed, using fallback canvas",
				slog.String("date", item.Date),
				slog.String("error", err.Error()),
			)
			background = nil
		}
	}

	deepLink := sharecard.BuildDeepLink(h.resolveBaseURL(r), item.Date)

	png, err := h.renderer.Render(sharecard.CardInput{
		Background: background,
		Title:      item.Title,
		Date:       item.Date,
		Caption:    truncateRunes(item.Explanation, captionMaxRunes),
		DeepLink:   deepLink,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordCardRendered()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="apod_`+item.Date+`.png"`)
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// resolveBaseURL はディープリンクの基点URLを決定する。
// 設定済みのベースURLを優先し、なければリクエストから組み立てる。
func (h *CardHandler) resolveBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// truncateRunes は文字列をrune単位でmaxに切り詰め、省略記号を付ける。
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
