// Package app はアプリケーションの初期化と起動を行う。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/skygazer/internal/cache"
	"github.com/hitoshi/skygazer/internal/config"
	"github.com/hitoshi/skygazer/internal/database"
	"github.com/hitoshi/skygazer/internal/favorite"
	"github.com/hitoshi/skygazer/internal/handler"
	"github.com/hitoshi/skygazer/internal/logger"
	"github.com/hitoshi/skygazer/internal/metrics"
	"github.com/hitoshi/skygazer/internal/middleware"
	"github.com/hitoshi/skygazer/internal/nasa"
	"github.com/hitoshi/skygazer/internal/repository"
	"github.com/hitoshi/skygazer/internal/security"
	"github.com/hitoshi/skygazer/internal/sharecard"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.Bool("favorites_enabled", cfg.FavoritesEnabled()),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// DATABASE_URLが未設定の場合、お気に入り機能だけを無効化して起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	nasa.SetObserver(collector)

	// 2. 結果キャッシュの初期化
	resultCache := cache.New()
	resultCache.SetObserver(collector)

	// 3. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewTextSanitizer()

	// 上流APIへのHTTPクライアント（SSRFガード付き）
	upstreamClient := ssrfGuard.NewSafeClient(cfg.FetchTimeout)

	// 4. NASA APIクライアントの初期化
	apodClient := nasa.NewAPODClient(
		upstreamClient, slog.Default(), sanitizer, resultCache,
		cfg.NasaAPIKey, cfg.FetchTimeout, cfg.CacheTTL,
	)
	imagesClient := nasa.NewImagesClient(
		upstreamClient, slog.Default(), sanitizer, resultCache,
		cfg.FetchTimeout, cfg.CacheTTL,
	)
	eonetClient := nasa.NewEONETClient(
		upstreamClient, slog.Default(), sanitizer, resultCache,
		cfg.FetchTimeout, cfg.CacheTTL,
	)
	neoClient := nasa.NewNeoClient(
		upstreamClient, slog.Default(), resultCache,
		cfg.NasaAPIKey, cfg.FetchTimeout, cfg.CacheTTL,
	)
	newsClient := nasa.NewNewsClient(
		upstreamClient, slog.Default(), sanitizer, resultCache,
		cfg.FetchTimeout, cfg.CacheTTL,
	)

	// 5. お気に入りストアの初期化
	// DB接続はリソーススロット経由で遅延生成し、プロセス内に1つだけ保持する。
	repoProvider := favorite.RepoProvider(favorite.Disabled)
	var healthChecker handler.HealthChecker

	if cfg.FavoritesEnabled() {
		dbResource := cache.NewResource(func() (*sql.DB, error) {
			db, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			if err := db.Ping(); err != nil {
				db.Close()
				return nil, err
			}
			slog.Info("database connection established")
			return db, nil
		})
		defer dbResource.Reset(func(db *sql.DB) { db.Close() })

		repoProvider = func() (repository.FavoriteRepository, error) {
			db, err := dbResource.Get()
			if err != nil {
				return nil, err
			}
			return repository.NewPostgresFavoriteRepo(db), nil
		}
		healthChecker = &lazyDBPinger{resource: dbResource}
	}

	favoriteService := favorite.NewService(repoProvider, slog.Default())

	// 6. シェアカードの初期化
	renderer, err := sharecard.NewRenderer(slog.Default())
	if err != nil {
		return fmt.Errorf("failed to initialize card renderer: %w", err)
	}
	imageFetcher := sharecard.NewImageFetcher(
		ssrfGuard, slog.Default(), cfg.CardImageTimeout, cfg.CardImageMaxSize,
	)

	// 7. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitCard),
	)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		HealthChecker: healthChecker,

		APODService:    apodClient,
		GalleryService: imagesClient,
		EventService:   eonetClient,
		NeoService:     neoClient,
		NewsService:    newsClient,

		FavoriteService: favoriteService,

		CardFetcher:  imageFetcher,
		CardRenderer: renderer,
		CardMetrics:  collector,
		BaseURL:      cfg.BaseURL,

		MetricsHandler: metrics.Handler(registry),
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // カード生成は画像取得を含むため長めにとる
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// lazyDBPinger はリソーススロット経由の遅延DB接続に対するヘルスチェックアダプタ。
type lazyDBPinger struct {
	resource *cache.Resource[*sql.DB]
}

// PingContext はDB接続を取得して到達性を確認する。
func (p *lazyDBPinger) PingContext(ctx context.Context) error {
	db, err := p.resource.Get()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if !cfg.FavoritesEnabled() {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
