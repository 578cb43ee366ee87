package nasa

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/hitoshi/skygazer/internal/cache"
	"github.com/hitoshi/skygazer/internal/model"
	"github.com/hitoshi/skygazer/internal/security"
)

// defaultAPODEndpoint はAPOD APIのエンドポイント。
const defaultAPODEndpoint = "https://api.nasa.gov/planetary/apod"

// maxRandomCount はランダム取得1回あたりの最大件数。
const maxRandomCount = 30

// APODClient はAstronomy Picture of the Day APIのクライアント。
// レスポンスはキャッシュにTTL付きでメモ化される。
type APODClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	sanitizer  security.TextSanitizerService
	cache      *cache.Cache
	apiKey     string
	cacheTTL   time.Duration
	timeout    time.Duration
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewAPODClient はAPODClientの新しいインスタンスを生成する。
func NewAPODClient(
	httpClient *http.Client,
	logger *slog.Logger,
	sanitizer security.TextSanitizerService,
	c *cache.Cache,
	apiKey string,
	timeout time.Duration,
	cacheTTL time.Duration,
) *APODClient {
	return &APODClient{
		httpClient: httpClient,
		logger:     logger,
		sanitizer:  sanitizer,
		cache:      c,
		apiKey:     apiKey,
		cacheTTL:   cacheTTL,
		timeout:    timeout,
		endpoint:   defaultAPODEndpoint,
	}
}

// Get は指定日のAPODを1件取得する。
// APOD最古日（1995-06-16）より前の日付は最古日に切り上げる。
func (c *APODClient) Get(ctx context.Context, date time.Time) (*model.Apod, error) {
	d := clampToEarliest(date)
	dateStr := d.Format(model.APODDateFormat)

	key := cache.Key("apod.get", map[string]string{"date": dateStr})
	return cache.GetOrCompute(c.cache, key, c.cacheTTL, func() (*model.Apod, error) {
		params := url.Values{}
		params.Set("api_key", c.apiKey)
		params.Set("date", dateStr)
		params.Set("thumbs", "true")

		c.logger.Info("fetching APOD", slog.String("date", dateStr))

		item := &model.Apod{}
		if err := getJSON(ctx, c.httpClient, "apod", c.endpoint, params, c.timeout, item); err != nil {
			return nil, err
		}
		c.sanitize(item)
		return item, nil
	})
}

// GetRange は指定期間（両端を含む）のAPODを新しい順で取得する。
// 期間の両端が逆順の場合は入れ替え、最古日より前は最古日に切り上げる。
func (c *APODClient) GetRange(ctx context.Context, start, end time.Time) ([]model.Apod, error) {
	s, e := clampToEarliest(start), clampToEarliest(end)
	if s.After(e) {
		s, e = e, s
	}
	startStr := s.Format(model.APODDateFormat)
	endStr := e.Format(model.APODDateFormat)

	key := cache.Key("apod.range", map[string]string{"start": startStr, "end": endStr})
	return cache.GetOrCompute(c.cache, key, c.cacheTTL, func() ([]model.Apod, error) {
		params := url.Values{}
		params.Set("api_key", c.apiKey)
		params.Set("start_date", startStr)
		params.Set("end_date", endStr)
		params.Set("thumbs", "true")

		c.logger.Info("fetching APOD range",
			slog.String("start", startStr),
			slog.String("end", endStr),
		)

		items, err := c.fetchList(ctx, params)
		if err != nil {
			return nil, err
		}

		// 新しい順にソート（ISO日付は辞書順で比較できる）
		sort.Slice(items, func(i, j int) bool {
			return items[i].Date > items[j].Date
		})
		return items, nil
	})
}

// GetRandom はランダムなAPODをcount件取得する。
// countは1以上maxRandomCount以下に丸められる。結果はキャッシュしない。
func (c *APODClient) GetRandom(ctx context.Context, count int) ([]model.Apod, error) {
	if count < 1 {
		count = 1
	}
	if count > maxRandomCount {
		count = maxRandomCount
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("count", strconv.Itoa(count))
	params.Set("thumbs", "true")

	c.logger.Info("fetching random APODs", slog.Int("count", count))

	return c.fetchList(ctx, params)
}

// fetchList はAPOD APIのレスポンスをリストとして取得する。
// 上流は件数によって単一オブジェクトと配列の両方を返すため、両対応する。
func (c *APODClient) fetchList(ctx context.Context, params url.Values) ([]model.Apod, error) {
	var raw json.RawMessage
	if err := getJSON(ctx, c.httpClient, "apod", c.endpoint, params, c.timeout, &raw); err != nil {
		return nil, err
	}

	var items []model.Apod
	if err := json.Unmarshal(raw, &items); err != nil {
		var single model.Apod
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, model.NewDecodeError("apod", err)
		}
		items = []model.Apod{single}
	}

	for i := range items {
		c.sanitize(&items[i])
	}
	return items, nil
}

func (c *APODClient) sanitize(item *model.Apod) {
	item.Title = c.sanitizer.Sanitize(item.Title)
	item.Explanation = c.sanitizer.Sanitize(item.Explanation)
}

// clampToEarliest はAPOD最古日より前の日付を最古日に切り上げる。
func clampToEarliest(d time.Time) time.Time {
	if d.Before(model.APODEarliest) {
		return model.APODEarliest
	}
	return d
}
