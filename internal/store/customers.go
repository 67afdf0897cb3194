package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-service/internal/models"
)

// SearchCustomers retrieves non-deleted customers whose name or phone
// matches the search term, case-insensitively
func (s *Store) SearchCustomers(ctx context.Context, searchTerm string) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, `
		SELECT * FROM customers
		WHERE is_deleted = FALSE
		  AND (name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
		ORDER BY name`, searchTerm)
	return customers, err
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts a new customer
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, phone, address, notes, tombstone, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, customer, query,
		customer.Name, customer.Phone, customer.Address,
		customer.Notes, customer.Tombstone, customer.CreatedBy)
}

// UpdateCustomer updates an existing customer's editable fields
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, address = $3, notes = $4, tombstone = $5,
		    updated_by = $6, updated_at = NOW()
		WHERE id = $7 AND is_deleted = FALSE
		RETURNING created_by, created_at, updated_at`

	err := s.db.GetContext(ctx, customer, query,
		customer.Name, customer.Phone, customer.Address,
		customer.Notes, customer.Tombstone, customer.UpdatedBy, customer.ID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("customer %d: %w", customer.ID, models.ErrNotFound)
	}
	return err
}

// SoftDeleteCustomer marks a customer deleted, keeping the row for
// historical order references
func (s *Store) SoftDeleteCustomer(ctx context.Context, id int64, byUserID *int64) (*models.Customer, error) {
	var customer models.Customer
	query := `
		UPDATE customers
		SET is_deleted = TRUE, updated_by = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
		RETURNING *`

	err := s.db.GetContext(ctx, &customer, query, byUserID, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CountCustomers returns the total number of customers
func (s *Store) CountCustomers(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM customers")
	return count, err
}

// CountCustomersSince returns the number of customers created after the given time
func (s *Store) CountCustomersSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM customers WHERE created_at >= $1", since)
	return count, err
}
