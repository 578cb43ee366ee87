package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/skygazer/internal/model"
)

// defaultRandomCount はランダム取得のデフォルト件数。
const defaultRandomCount = 1

// APODServiceInterface はAPODハンドラーが必要とするサービスインターフェース。
type APODServiceInterface interface {
	// Get は指定日のAPODを1件返す。
	Get(ctx context.Context, date time.Time) (*model.Apod, error)
	// GetRange は期間内のAPODを新しい日付順で返す。
	GetRange(ctx context.Context, start, end time.Time) ([]model.Apod, error)
	// GetRandom はランダムに選んだAPODを返す。
	GetRandom(ctx context.Context, count int) ([]model.Apod, error)
}

// APODHandler はAPOD取得のHTTPハンドラー。
type APODHandler struct {
	service APODServiceInterface
	now     func() time.Time
}

// NewAPODHandler はAPODHandlerを生成する。
func NewAPODHandler(service APODServiceInterface) *APODHandler {
	return &APODHandler{
		service: service,
		now:     time.Now,
	}
}

// Get は指定日（省略時は今日）のAPODを取得する。
// GET /api/apod?date=YYYY-MM-DD
func (h *APODHandler) Get(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")

	date := h.now().UTC()
	if dateStr != "" {
		parsed, err := model.ParseAPODDate(dateStr)
		if err != nil {
			writeInvalidDateError(w, dateStr)
			return
		}
		date = parsed
	}

	item, err := h.service.Get(r.Context(), date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// GetRange は期間指定でAPOD一覧を取得する。
// GET /api/apod/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *APODHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		writeInvalidParamError(w, "startとendの両方を指定してください。")
		return
	}

	start, err := model.ParseAPODDate(startStr)
	if err != nil {
		writeInvalidDateError(w, startStr)
		return
	}
	end, err := model.ParseAPODDate(endStr)
	if err != nil {
		writeInvalidDateError(w, endStr)
		return
	}

	items, err := h.service.GetRange(r.Context(), start, end)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetRandom はランダムにAPODを取得する。
// GET /api/apod/random?count=N
func (h *APODHandler) GetRandom(w http.ResponseWriter, r *http.Request) {
	count := defaultRandomCount
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		parsed, err := strconv.Atoi(countStr)
		if err != nil || parsed < 1 {
			writeInvalidParamError(w, "countは1以上の整数で指定してください。")
			return
		}
		count = parsed
	}

	items, err := h.service.GetRandom(r.Context(), count)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
