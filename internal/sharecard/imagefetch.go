package sharecard

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/skygazer/internal/security"
)

// ImageFetcher はシェアカードの背景画像を取得する。
// 画像URLは上流APIレスポンス由来の外部データであるため、
// SSRF検証付きのクライアントで取得する。
type ImageFetcher struct {
	guard   security.SSRFGuardService
	logger  *slog.Logger
	timeout time.Duration
	maxSize int64
}

// NewImageFetcher はImageFetcherの新しいインスタンスを生成する。
func NewImageFetcher(guard security.SSRFGuardService, logger *slog.Logger, timeout time.Duration, maxSize int64) *ImageFetcher {
	return &ImageFetcher{
		guard:   guard,
		logger:  logger,
		timeout: timeout,
		maxSize: maxSize,
	}
}

// Fetch は画像URLからバイト列を取得する。
// 検証失敗・取得失敗はエラーとして返すが、呼び出し元はフォールバック
// キャンバスで続行できる（カード生成を中断する理由にはならない）。
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.guard.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	client := f.guard.NewSafeClient(f.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("background image fetch returned non-200",
			slog.String("url", rawURL),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, &unexpectedStatusError{status: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, f.maxSize))
}

// unexpectedStatusError は画像取得で非200が返ったことを示す。
type unexpectedStatusError struct {
	status int
}

func (e *unexpectedStatusError) Error() string {
	return http.StatusText(e.status)
}
