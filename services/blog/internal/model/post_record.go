package model

import "time"

// PostRecord is one element of the posts.json array.
type PostRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ContentKind string    `json:"content_kind"`
	Content     string    `json:"content,omitempty"`
	Paragraphs  []string  `json:"paragraphs,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"date"`
}
