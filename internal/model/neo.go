package model

import "time"

// NeoFeedMaxRangeDays はNeoWs feedエンドポイントが受け付ける最大日数。
const NeoFeedMaxRangeDays = 7

// NearEarthObject は地球近傍天体の1件分を表す。
// NeoWs feedレスポンスの入れ子構造を接近情報1件にフラット化したもの。
type NearEarthObject struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	NasaJplURL             string    `json:"nasa_jpl_url"`
	AbsoluteMagnitude      float64   `json:"absolute_magnitude_h"`
	EstimatedDiameterMinM  float64   `json:"estimated_diameter_min_m"`
	EstimatedDiameterMaxM  float64   `json:"estimated_diameter_max_m"`
	IsPotentiallyHazardous bool      `json:"is_potentially_hazardous"`
	CloseApproachAt        time.Time `json:"close_approach_at"`
	RelativeVelocityKPS    float64   `json:"relative_velocity_kps"`
	MissDistanceKM         float64   `json:"miss_distance_km"`
	OrbitingBody           string    `json:"orbiting_body"`
}
