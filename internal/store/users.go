package store

import (
	"context"
	"database/sql"
	"fmt"

	"shop-service/internal/models"
)

// CreateUser inserts a new user row
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := s.db.Rebind(
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)")
	_, err := s.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := s.db.Rebind(
		"SELECT username, email, password_hash FROM users WHERE username = ?")

	var user models.User
	err := s.db.GetContext(ctx, &user, query, username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether any user already has the given email
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	query := s.db.Rebind(
		"SELECT COUNT(*) FROM users WHERE email = ?")

	var count int
	if err := s.db.GetContext(ctx, &count, query, email); err != nil {
		return false, err
	}
	return count > 0, nil
}
