package model

import (
	"strconv"
	"time"
)

// FileRecord is one row of a transferred-files listing.
type FileRecord struct {
	ID          int64     `json:"id"`
	FileID      string    `json:"file_id"`
	Filename    string    `json:"filename"`
	Creator     string    `json:"creator"`
	CreatorSSN  string    `json:"creator_ssn"`
	GroupName   string    `json:"group_name"`
	Created     time.Time `json:"created"`
	DownloadURL string    `json:"download_url"`
	Seen        bool      `json:"seen"`
	Notes       string    `json:"notes,omitempty"`
}

// Key returns the stable row identity used to target backend actions
// across paginated and sorted views.
func (f *FileRecord) Key() string {
	return strconv.FormatInt(f.ID, 10)
}

// Field returns a sortable column value. Absent values come back nil so
// the sorter can order them explicitly.
func (f *FileRecord) Field(name string) interface{} {
	switch name {
	case "id":
		return f.ID
	case "filename":
		return f.Filename
	case "creator":
		return f.Creator
	case "creator_ssn":
		return f.CreatorSSN
	case "group_name":
		return f.GroupName
	case "created":
		if f.Created.IsZero() {
			return nil
		}
		return f.Created
	case "seen":
		return f.Seen
	case "notes":
		if f.Notes == "" {
			return nil
		}
		return f.Notes
	}
	return nil
}
