package entity

import "time"

// StorageObject describes one object in the cloud save provider, keyed by
// its path string.
type StorageObject struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
