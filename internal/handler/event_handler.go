package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/skygazer/internal/model"
)

// EventServiceInterface は自然イベントハンドラーが必要とするサービスインターフェース。
type EventServiceInterface interface {
	// ListEvents は発生中の自然イベント一覧を返す。
	ListEvents(ctx context.Context, category string, limit, days int) ([]model.EarthEvent, error)
}

// EventHandler はEONET自然イベントのHTTPハンドラー。
type EventHandler struct {
	service EventServiceInterface
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(service EventServiceInterface) *EventHandler {
	return &EventHandler{service: service}
}

// List は発生中の自然イベント一覧を取得する。
// GET /api/events?category=wildfires&limit=N&days=N
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	limit, ok := parseOptionalPositiveInt(w, r, "limit")
	if !ok {
		return
	}
	days, ok := parseOptionalPositiveInt(w, r, "days")
	if !ok {
		return
	}

	events, err := h.service.ListEvents(r.Context(), category, limit, days)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// parseOptionalPositiveInt は省略可能な正整数クエリパラメータをパースする。
// 省略時は0を返す。不正値の場合は400を書き込みfalseを返す。
func parseOptionalPositiveInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		writeInvalidParamError(w, name+"は1以上の整数で指定してください。")
		return 0, false
	}
	return v, true
}
