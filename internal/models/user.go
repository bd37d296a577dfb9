package models

// User represents a revision author.
type User struct {
	ID          int
	Username    string
	DisplayName string
}
