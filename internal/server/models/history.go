package models

import "time"

// HistoryEntry is one weather lookup recorded for a user.
type HistoryEntry struct {
	City        string    `json:"city"`
	Lon         float64   `json:"lon"`
	Lat         float64   `json:"lat"`
	Temperature float64   `json:"temperature"`
	RecordedAt  time.Time `json:"recordedAt"`
}
