package nasa

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/skygazer/internal/cache"
	"github.com/hitoshi/skygazer/internal/model"
	"github.com/hitoshi/skygazer/internal/security"
)

// defaultNewsEndpoint はNASAの速報RSSフィードのURL。
const defaultNewsEndpoint = "https://www.nasa.gov/rss/dyn/breaking_news.rss"

// maxNewsItems はニュース一覧の最大件数。
const maxNewsItems = 20

// NewsClient はNASAの速報RSSフィードのクライアント。
type NewsClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	sanitizer  security.TextSanitizerService
	cache      *cache.Cache
	cacheTTL   time.Duration
	timeout    time.Duration
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewNewsClient はNewsClientの新しいインスタンスを生成する。
func NewNewsClient(
	httpClient *http.Client,
	logger *slog.Logger,
	sanitizer security.TextSanitizerService,
	c *cache.Cache,
	timeout time.Duration,
	cacheTTL time.Duration,
) *NewsClient {
	return &NewsClient{
		httpClient: httpClient,
		logger:     logger,
		sanitizer:  sanitizer,
		cache:      c,
		cacheTTL:   cacheTTL,
		timeout:    timeout,
		endpoint:   defaultNewsEndpoint,
	}
}

// Latest は速報フィードの最新記事を新しい順で返す。
// RSSのパース失敗はFetchKindDecodeに翻訳する。
func (c *NewsClient) Latest(ctx context.Context) ([]model.NewsItem, error) {
	key := cache.Key("news.latest", nil)
	return cache.GetOrCompute(c.cache, key, c.cacheTTL, func() ([]model.NewsItem, error) {
		c.logger.Info("fetching NASA breaking news feed")

		body, err := getBytes(ctx, c.httpClient, "news", c.endpoint, nil, c.timeout)
		if err != nil {
			return nil, err
		}

		parsed, err := gofeed.NewParser().ParseString(string(body))
		if err != nil {
			return nil, model.NewDecodeError("news", err)
		}

		items := make([]model.NewsItem, 0, len(parsed.Items))
		for _, it := range parsed.Items {
			if len(items) >= maxNewsItems {
				break
			}
			item := model.NewsItem{
				Title:   c.sanitizer.Sanitize(it.Title),
				Link:    it.Link,
				Summary: c.sanitizer.Sanitize(it.Description),
			}
			if it.PublishedParsed != nil {
				item.PublishedAt = it.PublishedParsed.UTC()
			}
			items = append(items, item)
		}
		return items, nil
	})
}
