package user

import (
	"context"
	"database/sql"
	"fmt"

	"reveal/internal/models"
)

// Repository provides access to the user storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindByUsername finds a user by their username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, "SELECT id, username, display_name FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.DisplayName)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a user and sets its ID.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO users (username, display_name) VALUES (?, ?)", user.Username, user.DisplayName)
	if err != nil {
		return fmt.Errorf("error creating user %q: %w", user.Username, err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(userID)
	return nil
}
