package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/skygazer/internal/middleware"
)

// HealthChecker はヘルスチェックでストア到達性を確認するインターフェース。
// *sql.DBがこれを満たす。お気に入り機能が無効な構成ではnilでよい。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// ヘルスチェック（お気に入りストア未設定時はnil）
	HealthChecker HealthChecker

	// NASA APIサービス
	APODService    APODServiceInterface
	GalleryService GalleryServiceInterface
	EventService   EventServiceInterface
	NeoService     NeoServiceInterface
	NewsService    NewsServiceInterface

	// お気に入り
	FavoriteService FavoriteServiceInterface

	// シェアカード
	CardFetcher  CardImageFetcher
	CardRenderer CardRenderer
	CardMetrics  CardMetrics
	BaseURL      string

	// メトリクス公開
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → ClientID → Logging → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	apodHandler := NewAPODHandler(deps.APODService)
	galleryHandler := NewGalleryHandler(deps.GalleryService)
	eventHandler := NewEventHandler(deps.EventService)
	neoHandler := NewNeoHandler(deps.NeoService)
	newsHandler := NewNewsHandler(deps.NewsService)
	favoriteHandler := NewFavoriteHandler(deps.FavoriteService)
	cardHandler := NewCardHandler(
		deps.APODService, deps.CardFetcher, deps.CardRenderer,
		deps.CardMetrics, deps.Logger, deps.BaseURL,
	)

	// --- 運用ルート（レート制限なし） ---

	r.Get("/health", newHealthHandler(deps.HealthChecker))

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	// ミドルウェアスタック: ClientID → Logging → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewClientIDMiddleware())
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// APOD
		r.Route("/api/apod", func(r chi.Router) {
			r.Get("/", apodHandler.Get)
			r.Get("/range", apodHandler.GetRange)
			r.Get("/random", apodHandler.GetRandom)

			// GET /api/apod/{date}/card - シェアカード生成（専用レート制限を追加）
			r.With(deps.RateLimiter.CardMiddleware()).Get("/{date}/card", cardHandler.Render)
		})

		// メディア検索
		r.Get("/api/gallery", galleryHandler.Search)

		// 自然イベント
		r.Get("/api/events", eventHandler.List)

		// 地球近傍天体
		r.Get("/api/neo", neoHandler.Feed)

		// ニュース
		r.Get("/api/news", newsHandler.Latest)

		// お気に入り管理
		r.Route("/api/favorites", func(r chi.Router) {
			r.Post("/", favoriteHandler.Save)
			r.Get("/", favoriteHandler.List)
			r.Delete("/{date}", favoriteHandler.Remove)
		})
	})

	return r
}

// healthResponse は/healthのレスポンス。
type healthResponse struct {
	Status    string `json:"status"`
	Favorites string `json:"favorites"` // enabled / disabled / unreachable
}

// newHealthHandler はヘルスチェックハンドラーを返す。
// お気に入りストアの到達性は結果に含めるが、到達不能でも200を返す。
// ストア障害で全体を不健康扱いにしない（お気に入り以外は稼働し続けるため）。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites := "disabled"
		if checker != nil {
			favorites = "enabled"
			if err := checker.PingContext(r.Context()); err != nil {
				favorites = "unreachable"
			}
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Favorites: favorites,
		})
	}
}
