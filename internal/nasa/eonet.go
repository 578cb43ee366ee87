package nasa

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hitoshi/skygazer/internal/cache"
	"github.com/hitoshi/skygazer/internal/model"
	"github.com/hitoshi/skygazer/internal/security"
)

// defaultEONETEndpoint はEONET v3のイベント一覧エンドポイント。
// EONETはapi.nasa.govのAPIキーを必要としない。
const defaultEONETEndpoint = "https://eonet.gsfc.nasa.gov/api/v3/events"

// defaultEventLimit はイベント取得のデフォルト上限件数。
const defaultEventLimit = 50

// EONETClient はEarth Observatory Natural Event Trackerのクライアント。
type EONETClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	sanitizer  security.TextSanitizerService
	cache      *cache.Cache
	cacheTTL   time.Duration
	timeout    time.Duration
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewEONETClient はEONETClientの新しいインスタンスを生成する。
func NewEONETClient(
	httpClient *http.Client,
	logger *slog.Logger,
	sanitizer security.TextSanitizerService,
	c *cache.Cache,
	timeout time.Duration,
	cacheTTL time.Duration,
) *EONETClient {
	return &EONETClient{
		httpClient: httpClient,
		logger:     logger,
		sanitizer:  sanitizer,
		cache:      c,
		cacheTTL:   cacheTTL,
		timeout:    timeout,
		endpoint:   defaultEONETEndpoint,
	}
}

// --- ワイヤーフォーマット ---
// closedは"2023-05-09T00:00:00Z"形式または日付のみの文字列で返ることがあるため、
// 文字列で受けてから柔軟にパースする。

type eonetResponse struct {
	Events []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		Closed      string `json:"closed"`
		Categories  []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"categories"`
		Geometry []struct {
			Date        time.Time `json:"date"`
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"events"`
}

// ListEvents はオープンな自然イベントの一覧を取得する。
// categoryはEONETのカテゴリID（wildfiresなど）。空なら全カテゴリ。
// daysは現在から遡る日数。0なら上流のデフォルトに従う。
// limitは0以下の場合defaultEventLimitに丸める。
func (c *EONETClient) ListEvents(ctx context.Context, category string, limit, days int) ([]model.EarthEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	key := cache.Key("eonet.events", map[string]string{
		"category": category,
		"limit":    strconv.Itoa(limit),
		"days":     strconv.Itoa(days),
	})
	return cache.GetOrCompute(c.cache, key, c.cacheTTL, func() ([]model.EarthEvent, error) {
		params := url.Values{}
		params.Set("status", "open")
		params.Set("limit", strconv.Itoa(limit))
		if category != "" {
			params.Set("category", category)
		}
		if days > 0 {
			params.Set("days", strconv.Itoa(days))
		}

		c.logger.Info("fetching EONET events",
			slog.String("category", category),
			slog.Int("limit", limit),
		)

		var resp eonetResponse
		if err := getJSON(ctx, c.httpClient, "eonet", c.endpoint, params, c.timeout, &resp); err != nil {
			return nil, err
		}

		events := make([]model.EarthEvent, 0, len(resp.Events))
		for _, ev := range resp.Events {
			event := model.EarthEvent{
				ID:          ev.ID,
				Title:       c.sanitizer.Sanitize(ev.Title),
				Description: c.sanitizer.Sanitize(ev.Description),
				Link:        ev.Link,
				Closed:      parseClosedDate(ev.Closed),
			}
			for _, cat := range ev.Categories {
				event.Categories = append(event.Categories, model.EventCategory{
					ID:    cat.ID,
					Title: cat.Title,
				})
			}
			for _, g := range ev.Geometry {
				event.Geometries = append(event.Geometries, model.EventGeometry{
					Date:        g.Date,
					Type:        g.Type,
					Coordinates: g.Coordinates,
				})
			}
			events = append(events, event)
		}
		return events, nil
	})
}

// parseClosedDate はclosedフィールドをパースする。空または解析不能ならnil。
func parseClosedDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
