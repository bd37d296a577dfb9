package models

import "time"

// Revision represents a version of a page across all of its translations.
type Revision struct {
	ID           int
	PageID       int
	AuthorID     int
	Author       string
	Log          *string
	Published    bool
	CreatedAt    time.Time
	Translations map[string]Translation
}

// Translation is the content of one language of a revision.
type Translation struct {
	Title   string
	Content string
}

// LogMessage returns the revision log message or an empty string.
func (r Revision) LogMessage() string {
	if r.Log == nil {
		return ""
	}
	return *r.Log
}
