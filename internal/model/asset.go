package model

import "time"

// MediaAsset はNASA Images & Video Libraryの検索結果1件分を表す。
// collection → items → data/links の入れ子構造をフラット化したもの。
type MediaAsset struct {
	NasaID       string    `json:"nasa_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	MediaType    string    `json:"media_type"`
	Center       string    `json:"center,omitempty"`
	DateCreated  time.Time `json:"date_created"`
	Keywords     []string  `json:"keywords,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
}

// MediaSearchResult はキーワード検索の結果ページを表す。
type MediaSearchResult struct {
	Assets    []MediaAsset `json:"assets"`
	TotalHits int          `json:"total_hits"`
}
