package domain

import "time"

// NewsItem is a read-only article from the environmental news feed.
// Items are fetched per session and never persisted.
type NewsItem struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Source      string
	PublishedAt time.Time
}
