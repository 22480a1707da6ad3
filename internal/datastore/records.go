package datastore

import "time"

// ChangeRecord is one line of the change log. A record is appended for every
// monitor on every tick whether or not the frame changed.
type ChangeRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	Monitor       int       `json:"monitor"`
	Changed       bool      `json:"changed"`
	PixelsChanged int       `json:"pixels_changed"`
	ImagePath     string    `json:"image_path,omitempty"`
	Label         string    `json:"label,omitempty"`
	Classified    bool      `json:"classified"`
	ClassifyError string    `json:"classify_error,omitempty"`
}
