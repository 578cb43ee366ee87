// Package model はドメインモデルを定義する。
package model

import "time"

// APODDateFormat はAPOD APIが使用する日付フォーマット。
const APODDateFormat = "2006-01-02"

// APODEarliest はAPODの最古の掲載日（1995-06-16）。
// これより前の日付を指定したリクエストはこの日付に切り上げる。
var APODEarliest = time.Date(1995, 6, 16, 0, 0, 0, 0, time.UTC)

// Apod はAstronomy Picture of the Dayの1件分を表す。
// NASA APOD APIのレスポンスをそのまま保持する。
type Apod struct {
	Date           string `json:"date"`
	Title          string `json:"title"`
	Explanation    string `json:"explanation"`
	MediaType      string `json:"media_type"`
	URL            string `json:"url"`
	HDURL          string `json:"hdurl,omitempty"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"`
	Copyright      string `json:"copyright,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`
}

// BestImageURL はシェアカードの背景に使う画像URLを優先順に選択する。
// hdurl → url → thumbnail_url の順で最初に存在するものを返す。
// 動画のみでサムネイルもない場合は空文字を返す。
func (a *Apod) BestImageURL() string {
	if a.HDURL != "" {
		return a.HDURL
	}
	if a.MediaType == "image" && a.URL != "" {
		return a.URL
	}
	if a.ThumbnailURL != "" {
		return a.ThumbnailURL
	}
	return ""
}

// ParseAPODDate はAPOD形式（YYYY-MM-DD）の日付文字列をパースする。
func ParseAPODDate(s string) (time.Time, error) {
	return time.Parse(APODDateFormat, s)
}
