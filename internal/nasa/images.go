package nasa

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/skygazer/internal/cache"
	"github.com/hitoshi/skygazer/internal/model"
	"github.com/hitoshi/skygazer/internal/security"
)

// defaultImagesEndpoint はImages & Video Library検索APIのエンドポイント。
// このAPIはapi.nasa.govのAPIキーを必要としない。
const defaultImagesEndpoint = "https://images-api.nasa.gov/search"

// ImagesClient はNASA Images & Video Libraryの検索クライアント。
type ImagesClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	sanitizer  security.TextSanitizerService
	cache      *cache.Cache
	cacheTTL   time.Duration
	timeout    time.Duration
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewImagesClient はImagesClientの新しいインスタンスを生成する。
func NewImagesClient(
	httpClient *http.Client,
	logger *slog.Logger,
	sanitizer security.TextSanitizerService,
	c *cache.Cache,
	timeout time.Duration,
	cacheTTL time.Duration,
) *ImagesClient {
	return &ImagesClient{
		httpClient: httpClient,
		logger:     logger,
		sanitizer:  sanitizer,
		cache:      c,
		cacheTTL:   cacheTTL,
		timeout:    timeout,
		endpoint:   defaultImagesEndpoint,
	}
}

// --- ワイヤーフォーマット ---
// collection → items → data/links の入れ子構造。
// data は常に1件以上、links はプレビューサムネイルを含むことがある。

type imagesResponse struct {
	Collection struct {
		Items []struct {
			Data []struct {
				NasaID      string    `json:"nasa_id"`
				Title       string    `json:"title"`
				Description string    `json:"description"`
				MediaType   string    `json:"media_type"`
				Center      string    `json:"center"`
				DateCreated time.Time `json:"date_created"`
				Keywords    []string  `json:"keywords"`
			} `json:"data"`
			Links []struct {
				Href string `json:"href"`
				Rel  string `json:"rel"`
			} `json:"links"`
		} `json:"items"`
		Metadata struct {
			TotalHits int `json:"total_hits"`
		} `json:"metadata"`
	} `json:"collection"`
}

// Search はキーワードでメディアアセットを検索する。
// mediaTypeは"image"、"video"、"audio"またはそれらのカンマ区切り。空なら全種別。
func (c *ImagesClient) Search(ctx context.Context, query, mediaType string) (*model.MediaSearchResult, error) {
	key := cache.Key("images.search", map[string]string{"q": query, "media_type": mediaType})
	return cache.GetOrCompute(c.cache, key, c.cacheTTL, func() (*model.MediaSearchResult, error) {
		params := url.Values{}
		params.Set("q", query)
		if mediaType != "" {
			params.Set("media_type", mediaType)
		}

		c.logger.Info("searching NASA image library",
			slog.String("query", query),
			slog.String("media_type", mediaType),
		)

		var resp imagesResponse
		if err := getJSON(ctx, c.httpClient, "images", c.endpoint, params, c.timeout, &resp); err != nil {
			return nil, err
		}

		result := &model.MediaSearchResult{
			Assets:    make([]model.MediaAsset, 0, len(resp.Collection.Items)),
			TotalHits: resp.Collection.Metadata.TotalHits,
		}
		for _, item := range resp.Collection.Items {
			if len(item.Data) == 0 {
				continue
			}
			d := item.Data[0]
			asset := model.MediaAsset{
				NasaID:      d.NasaID,
				Title:       c.sanitizer.Sanitize(d.Title),
				Description: c.sanitizer.Sanitize(d.Description),
				MediaType:   d.MediaType,
				Center:      d.Center,
				DateCreated: d.DateCreated,
				Keywords:    d.Keywords,
			}
			for _, link := range item.Links {
				if link.Rel == "preview" {
					asset.ThumbnailURL = link.Href
					break
				}
			}
			result.Assets = append(result.Assets, asset)
		}
		return result, nil
	})
}
