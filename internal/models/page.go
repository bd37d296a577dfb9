package models

import "time"

// Page represents a translatable content item.
type Page struct {
	ID                int
	Title             string
	CurrentRevisionID int
	CreatedAt         time.Time
	// Languages holds the page's translation language codes in the order
	// they were added.
	Languages []string
}
