package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/skygazer/internal/model"
)

// NeoServiceInterface は地球近傍天体ハンドラーが必要とするサービスインターフェース。
type NeoServiceInterface interface {
	// Feed は期間内の地球近傍天体を接近時刻順で返す。
	Feed(ctx context.Context, start, end time.Time) ([]model.NearEarthObject, error)
}

// NeoHandler はNeoWs地球近傍天体のHTTPハンドラー。
type NeoHandler struct {
	service NeoServiceInterface
	now     func() time.Time
}

// NewNeoHandler はNeoHandlerを生成する。
func NewNeoHandler(service NeoServiceInterface) *NeoHandler {
	return &NeoHandler{
		service: service,
		now:     time.Now,
	}
}

// Feed は期間指定で地球近傍天体一覧を取得する。
// GET /api/neo?start=YYYY-MM-DD&end=YYYY-MM-DD
// 省略時は今日から7日間。
func (h *NeoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	start := h.now().UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, model.NeoFeedMaxRangeDays-1)

	if startStr != "" {
		parsed, err := model.ParseAPODDate(startStr)
		if err != nil {
			writeInvalidDateError(w, startStr)
			return
		}
		start = parsed
	}
	if endStr != "" {
		parsed, err := model.ParseAPODDate(endStr)
		if err != nil {
			writeInvalidDateError(w, endStr)
			return
		}
		end = parsed
	} else if startStr != "" {
		end = start.AddDate(0, 0, model.NeoFeedMaxRangeDays-1)
	}

	objects, err := h.service.Feed(r.Context(), start, end)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, objects)
}
