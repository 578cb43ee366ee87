package model

import "time"

// EarthEvent はEONETが配信する自然イベント（山火事、嵐、火山活動など）を表す。
type EarthEvent struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Link        string           `json:"link"`
	Closed      *time.Time       `json:"closed,omitempty"`
	Categories  []EventCategory  `json:"categories"`
	Geometries  []EventGeometry  `json:"geometries"`
}

// EventCategory はEONETのイベントカテゴリ（wildfires、severeStormsなど）。
type EventCategory struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// EventGeometry はイベントの観測点1件分。座標は[経度, 緯度]の順。
type EventGeometry struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LatestGeometry は最新の観測点を返す。観測点がない場合はnilを返す。
func (e *EarthEvent) LatestGeometry() *EventGeometry {
	if len(e.Geometries) == 0 {
		return nil
	}
	latest := &e.Geometries[0]
	for i := range e.Geometries {
		if e.Geometries[i].Date.After(latest.Date) {
			latest = &e.Geometries[i]
		}
	}
	return latest
}
