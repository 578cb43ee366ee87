package model

import "time"

// NewsItem はNASAの速報RSSフィードの記事1件分を表す。
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
