package model

import "time"

// VideoTask tracks one video generation task from submission to a terminal
// state. Records live in memory only and expire after the store TTL.
type VideoTask struct {
	ID           string     `json:"id"`
	Status       TaskStatus `json:"status"`
	VideoURL     string     `json:"videoUrl,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	Cost         *float64   `json:"cost,omitempty"`
	Error        *string    `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// VideoResult is the outcome of a successful generation, recorded on the
// task when it completes.
type VideoResult struct {
	VideoURL     string  `json:"videoUrl"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	Cost         float64 `json:"cost"`
}
