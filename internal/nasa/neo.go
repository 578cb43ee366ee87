package nasa

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/hitoshi/skygazer/internal/cache"
	"github.com/hitoshi/skygazer/internal/model"
)

// defaultNeoEndpoint はNeoWs feedエンドポイント。
const defaultNeoEndpoint = "https://api.nasa.gov/neo/rest/v1/feed"

// NeoClient はNear Earth Object Web Serviceのクライアント。
type NeoClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	cache      *cache.Cache
	apiKey     string
	cacheTTL   time.Duration
	timeout    time.Duration
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewNeoClient はNeoClientの新しいインスタンスを生成する。
func NewNeoClient(
	httpClient *http.Client,
	logger *slog.Logger,
	c *cache.Cache,
	apiKey string,
	timeout time.Duration,
	cacheTTL time.Duration,
) *NeoClient {
	return &NeoClient{
		httpClient: httpClient,
		logger:     logger,
		cache:      c,
		apiKey:     apiKey,
		cacheTTL:   cacheTTL,
		timeout:    timeout,
		endpoint:   defaultNeoEndpoint,
	}
}

// --- ワイヤーフォーマット ---
// near_earth_objectsは日付文字列をキーとするマップで、速度・距離は文字列数値。

type neoFeedResponse struct {
	ElementCount     int                        `json:"element_count"`
	NearEarthObjects map[string][]neoWireObject `json:"near_earth_objects"`
}

type neoWireObject struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	NasaJplURL        string  `json:"nasa_jpl_url"`
	AbsoluteMagnitude float64 `json:"absolute_magnitude_h"`
	EstimatedDiameter struct {
		Meters struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"meters"`
	} `json:"estimated_diameter"`
	IsPotentiallyHazardous bool `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData      []struct {
		EpochDateCloseApproach int64 `json:"epoch_date_close_approach"`
		RelativeVelocity       struct {
			KilometersPerSecond string `json:"kilometers_per_second"`
		} `json:"relative_velocity"`
		MissDistance struct {
			Kilometers string `json:"kilometers"`
		} `json:"miss_distance"`
		OrbitingBody string `json:"orbiting_body"`
	} `json:"close_approach_data"`
}

// Feed は指定期間（両端を含む）の地球近傍天体を接近時刻の昇順で取得する。
// 期間の両端が逆順の場合は入れ替える。上流APIの制約により期間は最大7日で、
// 超過した場合は開始日から7日間に切り詰める。
func (c *NeoClient) Feed(ctx context.Context, start, end time.Time) ([]model.NearEarthObject, error) {
	if start.After(end) {
		start, end = end, start
	}
	if end.Sub(start) > model.NeoFeedMaxRangeDays*24*time.Hour {
		end = start.AddDate(0, 0, model.NeoFeedMaxRangeDays)
	}
	startStr := start.Format(model.APODDateFormat)
	endStr := end.Format(model.APODDateFormat)

	key := cache.Key("neo.feed", map[string]string{"start": startStr, "end": endStr})
	return cache.GetOrCompute(c.cache, key, c.cacheTTL, func() ([]model.NearEarthObject, error) {
		params := url.Values{}
		params.Set("api_key", c.apiKey)
		params.Set("start_date", startStr)
		params.Set("end_date", endStr)

		c.logger.Info("fetching NEO feed",
			slog.String("start", startStr),
			slog.String("end", endStr),
		)

		var resp neoFeedResponse
		if err := getJSON(ctx, c.httpClient, "neo", c.endpoint, params, c.timeout, &resp); err != nil {
			return nil, err
		}

		objects := make([]model.NearEarthObject, 0, resp.ElementCount)
		for _, list := range resp.NearEarthObjects {
			for _, wire := range list {
				objects = append(objects, flattenNeo(wire))
			}
		}

		sort.Slice(objects, func(i, j int) bool {
			return objects[i].CloseApproachAt.Before(objects[j].CloseApproachAt)
		})
		return objects, nil
	})
}

// flattenNeo はワイヤーフォーマットの入れ子構造を接近情報1件にフラット化する。
// 複数の接近データを持つ天体は最初の1件を採用する。
func flattenNeo(wire neoWireObject) model.NearEarthObject {
	obj := model.NearEarthObject{
		ID:                     wire.ID,
		Name:                   wire.Name,
		NasaJplURL:             wire.NasaJplURL,
		AbsoluteMagnitude:      wire.AbsoluteMagnitude,
		EstimatedDiameterMinM:  wire.EstimatedDiameter.Meters.Min,
		EstimatedDiameterMaxM:  wire.EstimatedDiameter.Meters.Max,
		IsPotentiallyHazardous: wire.IsPotentiallyHazardous,
	}
	if len(wire.CloseApproachData) > 0 {
		ca := wire.CloseApproachData[0]
		obj.CloseApproachAt = time.UnixMilli(ca.EpochDateCloseApproach).UTC()
		obj.OrbitingBody = ca.OrbitingBody
		if v, err := strconv.ParseFloat(ca.RelativeVelocity.KilometersPerSecond, 64); err == nil {
			obj.RelativeVelocityKPS = v
		}
		if d, err := strconv.ParseFloat(ca.MissDistance.Kilometers, 64); err == nil {
			obj.MissDistanceKM = d
		}
	}
	return obj
}
