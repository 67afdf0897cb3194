package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmailOrName retrieves a user whose email or name matches
func (s *Store) GetUserByEmailOrName(ctx context.Context, emailOrName string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE email = $1 OR name = $1", emailOrName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves users, restricted to the given roles when non-empty
func (s *Store) GetUsers(ctx context.Context, roles []string) ([]models.User, error) {
	var users []models.User
	if len(roles) == 0 {
		err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY name")
		return users, err
	}

	query, args, err := sqlx.In("SELECT * FROM users WHERE role IN (?) ORDER BY name", roles)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	err = s.db.SelectContext(ctx, &users, query, args...)
	return users, err
}

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, user, query,
		user.Name, user.Email, user.PasswordHash, user.Role)
}

// UpdateUser updates an existing user
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, role = $4
		WHERE id = $5
		RETURNING created_at`

	err := s.db.GetContext(ctx, user, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.ID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user %d: %w", user.ID, models.ErrNotFound)
	}
	return err
}

// DeleteUser removes a user
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return nil
}
