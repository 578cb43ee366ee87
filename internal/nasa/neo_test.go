package nasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/skygazer/internal/cache"
)

func newTestNeoClient(t *testing.T, handler http.HandlerFunc) *NeoClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewNeoClient(
		server.Client(), testLogger(), cache.New(),
		"TEST_KEY", 2*time.Second, time.Hour,
	)
	c.endpoint = server.URL
	return c
}

const neoSampleResponse = `{
	"element_count": 2,
	"near_earth_objects": {
		"2024-06-02": [
			{
				"id": "3542519",
				"name": "(2010 PK9)",
				"nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519",
				"absolute_magnitude_h": 21.8,
				"estimated_diameter": {
					"meters": {"estimated_diameter_min": 110.0, "estimated_diameter_max": 250.0}
				},
				"is_potentially_hazardous_asteroid": true,
				"close_approach_data": [{
					"epoch_date_close_approach": 1717344000000,
					"relative_velocity": {"kilometers_per_second": "18.127"},
					"miss_distance": {"kilometers": "4200000.5"},
					"orbiting_body": "Earth"
				}]
			}
		],
		"2024-06-01": [
			{
				"id": "2465633",
				"name": "465633 (2009 JR5)",
				"nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=2465633",
				"absolute_magnitude_h": 20.4,
				"estimated_diameter": {
					"meters": {"estimated_diameter_min": 200.0, "estimated_diameter_max": 450.0}
				},
				"is_potentially_hazardous_asteroid": false,
				"close_approach_data": [{
					"epoch_date_close_approach": 1717225200000,
					"relative_velocity": {"kilometers_per_second": "12.5"},
					"miss_distance": {"kilometers": "1500000.0"},
					"orbiting_body": "Earth"
				}]
			}
		]
	}
}`

func TestNeoFeed_FlattensAndSortsByApproachTime(t *testing.T) {
	var gotStart, gotEnd string
	c := newTestNeoClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start_date")
		gotEnd = r.URL.Query().Get("end_date")
		w.Write([]byte(neoSampleResponse))
	})

	objects, err := c.Feed(context.Background(), mustDate(t, "2024-06-01"), mustDate(t, "2024-06-03"))
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if gotStart != "2024-06-01" || gotEnd != "2024-06-03" {
		t.Errorf("期間パラメータ: start=%q end=%q", gotStart, gotEnd)
	}

	if len(objects) != 2 {
		t.Fatalf("天体数 = %d, want 2", len(objects))
	}

	// 接近時刻の昇順（2024-06-01の天体が先）
	if objects[0].ID != "2465633" {
		t.Errorf("objects[0].ID = %q, want 2465633（接近時刻の昇順）", objects[0].ID)
	}
	if !objects[0].CloseApproachAt.Before(objects[1].CloseApproachAt) {
		t.Error("接近時刻の昇順になっていない")
	}

	first := objects[0]
	if first.RelativeVelocityKPS != 12.5 {
		t.Errorf("RelativeVelocityKPS = %v, want 12.5", first.RelativeVelocityKPS)
	}
	if first.MissDistanceKM != 1500000.0 {
		t.Errorf("MissDistanceKM = %v, want 1500000.0", first.MissDistanceKM)
	}
	if first.EstimatedDiameterMinM != 200.0 || first.EstimatedDiameterMaxM != 450.0 {
		t.Errorf("直径 = [%v, %v], want [200, 450]", first.EstimatedDiameterMinM, first.EstimatedDiameterMaxM)
	}
	if first.IsPotentiallyHazardous {
		t.Error("IsPotentiallyHazardous = true, want false")
	}
	if objects[1].IsPotentiallyHazardous != true {
		t.Error("objects[1].IsPotentiallyHazardous = false, want true")
	}
}

func TestNeoFeed_SwapsReversedBounds(t *testing.T) {
	var gotStart, gotEnd string
	c := newTestNeoClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start_date")
		gotEnd = r.URL.Query().Get("end_date")
		w.Write([]byte(`{"element_count": 0, "near_earth_objects": {}}`))
	})

	if _, err := c.Feed(context.Background(), mustDate(t, "2024-06-05"), mustDate(t, "2024-06-01")); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if gotStart != "2024-06-01" || gotEnd != "2024-06-05" {
		t.Errorf("期間が入れ替えられていない: start=%q end=%q", gotStart, gotEnd)
	}
}

func TestNeoFeed_ClampsRangeToSevenDays(t *testing.T) {
	var gotEnd string
	c := newTestNeoClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotEnd = r.URL.Query().Get("end_date")
		w.Write([]byte(`{"element_count": 0, "near_earth_objects": {}}`))
	})

	// 30日の期間は開始日から7日間に切り詰められる
	if _, err := c.Feed(context.Background(), mustDate(t, "2024-06-01"), mustDate(t, "2024-07-01")); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if gotEnd != "2024-06-08" {
		t.Errorf("end_dateパラメータ = %q, want 2024-06-08（7日に切り詰め）", gotEnd)
	}
}

func TestNeoFeed_CachesByRange(t *testing.T) {
	requestCount := 0
	c := newTestNeoClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Write([]byte(`{"element_count": 0, "near_earth_objects": {}}`))
	})

	c.Feed(context.Background(), mustDate(t, "2024-06-01"), mustDate(t, "2024-06-03"))
	c.Feed(context.Background(), mustDate(t, "2024-06-01"), mustDate(t, "2024-06-03"))

	if requestCount != 1 {
		t.Errorf("上流リクエスト数 = %d, want 1", requestCount)
	}
}

func TestFlattenNeo_NoCloseApproachData(t *testing.T) {
	obj := flattenNeo(neoWireObject{ID: "X", Name: "Bare"})

	if obj.ID != "X" {
		t.Errorf("ID = %q, want X", obj.ID)
	}
	if !obj.CloseApproachAt.IsZero() {
		t.Errorf("CloseApproachAt = %v, want ゼロ値", obj.CloseApproachAt)
	}
}
