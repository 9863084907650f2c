package domain

import "time"

// Entry is a captured piece of content. Its ID is the item identifier the
// tag index files it under.
type Entry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Revision identifies one saved snapshot of the tag index.
type Revision struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Items   int       `json:"items"`
	Tags    int       `json:"tags"`
}
