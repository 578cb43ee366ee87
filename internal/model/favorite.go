package model

import "time"

// FavoriteRecord はユーザーのお気に入りAPODを表す。
// (user_id, apod_date) の組でユニーク。同一キーへの再保存は上書き更新される。
type FavoriteRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ApodDate     time.Time `json:"-"`
	Title        string    `json:"title"`
	Explanation  string    `json:"explanation,omitempty"`
	MediaType    string    `json:"media_type"`
	URL          string    `json:"url,omitempty"`
	HDURL        string    `json:"hdurl,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Copyright    string    `json:"copyright,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// DateString はapod_dateをAPOD形式（YYYY-MM-DD）で返す。
func (f *FavoriteRecord) DateString() string {
	return f.ApodDate.Format(APODDateFormat)
}
