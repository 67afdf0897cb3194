package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetStockItems retrieves non-deleted stock items, optionally filtered
// by a case-insensitive name search term
func (s *Store) GetStockItems(ctx context.Context, searchTerm string) ([]models.StockItem, error) {
	var items []models.StockItem
	if searchTerm != "" {
		err := s.db.SelectContext(ctx, &items,
			"SELECT * FROM stock_items WHERE is_deleted = FALSE AND name ILIKE '%' || $1 || '%' ORDER BY name",
			searchTerm)
		return items, err
	}
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM stock_items WHERE is_deleted = FALSE ORDER BY name")
	return items, err
}

// GetStockItemByID retrieves a stock item by ID
func (s *Store) GetStockItemByID(ctx context.Context, id int64) (*models.StockItem, error) {
	var item models.StockItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM stock_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stock item %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetStockItemsByIDs retrieves multiple stock items by IDs
func (s *Store) GetStockItemsByIDs(ctx context.Context, ids []int64) ([]models.StockItem, error) {
	if len(ids) == 0 {
		return []models.StockItem{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM stock_items WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []models.StockItem
	err = s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// CreateStockItem inserts a new stock item
func (s *Store) CreateStockItem(ctx context.Context, item *models.StockItem) error {
	query := `
		INSERT INTO stock_items (name, amount, price, customizations, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, item, query,
		item.Name, item.Amount, item.Price, item.Customizations, item.CreatedBy)
}

// UpdateStockItem updates an existing stock item's editable fields
func (s *Store) UpdateStockItem(ctx context.Context, item *models.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $1, amount = $2, price = $3, customizations = $4,
		    updated_by = $5, updated_at = NOW()
		WHERE id = $6 AND is_deleted = FALSE
		RETURNING created_by, created_at, updated_at`

	err := s.db.GetContext(ctx, item, query,
		item.Name, item.Amount, item.Price, item.Customizations,
		item.UpdatedBy, item.ID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("stock item %d: %w", item.ID, models.ErrNotFound)
	}
	return err
}

// SoftDeleteStockItem marks a stock item deleted. The row is kept so
// historical orders can still resolve their item references.
func (s *Store) SoftDeleteStockItem(ctx context.Context, id int64, byUserID *int64) (*models.StockItem, error) {
	var item models.StockItem
	query := `
		UPDATE stock_items
		SET is_deleted = TRUE, deleted_by = $1, deleted_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
		RETURNING *`

	err := s.db.GetContext(ctx, &item, query, byUserID, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stock item %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// StockChange is a signed quantity adjustment for one stock item
type StockChange struct {
	StockItemID int64
	Delta       int
}

// StockLevel is the committed post-adjustment state of one stock item
type StockLevel struct {
	StockItemID int64  `db:"id"`
	Name        string `db:"name"`
	Amount      int    `db:"amount"`
}

// ApplyStockChangesTx applies a group of stock adjustments in a single
// transaction. Affected rows are locked FOR UPDATE in id order and
// every change is checked before any row is written, so the group is
// all-or-nothing: if one item would go negative, nothing is committed
// and an InsufficientStockError for that item is returned.
func (s *Store) ApplyStockChangesTx(ctx context.Context, changes []StockChange) ([]StockLevel, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	// Coalesce repeated items so each row is checked against its final delta.
	merged := make(map[int64]int, len(changes))
	for _, change := range changes {
		merged[change.StockItemID] += change.Delta
	}
	sorted := make([]StockChange, 0, len(merged))
	for id, delta := range merged {
		sorted = append(sorted, StockChange{StockItemID: id, Delta: delta})
	}
	// Deterministic lock order avoids deadlocks between concurrent groups.
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StockItemID < sorted[j].StockItemID })

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	levels := make([]StockLevel, 0, len(sorted))
	for _, change := range sorted {
		var level StockLevel
		err := tx.GetContext(ctx, &level,
			"SELECT id, name, amount FROM stock_items WHERE id = $1 FOR UPDATE", change.StockItemID)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("stock item %d: %w", change.StockItemID, models.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock stock item %d: %w", change.StockItemID, err)
		}

		if level.Amount+change.Delta < 0 {
			return nil, &models.InsufficientStockError{
				StockItemID: level.StockItemID,
				Name:        level.Name,
				Available:   level.Amount,
				Requested:   -change.Delta,
			}
		}

		level.Amount += change.Delta
		levels = append(levels, level)
	}

	for _, level := range levels {
		_, err := tx.ExecContext(ctx,
			"UPDATE stock_items SET amount = $1, updated_at = NOW() WHERE id = $2",
			level.Amount, level.StockItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust stock item %d: %w", level.StockItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return levels, nil
}
